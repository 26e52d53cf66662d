// Package valuation converts amounts to the reference currency and folds
// entity snapshots into summary totals. It holds no state and performs no
// I/O; a missing rate degrades to the unconverted amount so aggregates
// stay computable through rate-sync outages.
package valuation

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// Totals summarizes a ledger snapshot, everything in the reference currency.
type Totals struct {
	LiquidAssets      float64 `json:"liquid_assets"`
	Savings           float64 `json:"savings"`
	TotalAssets       float64 `json:"total_assets"`
	TotalLiabilities  float64 `json:"total_liabilities"`
	NetWorth          float64 `json:"net_worth"`
	RecurringExpenses float64 `json:"recurring_expenses"`
	PhysicalValue     float64 `json:"physical_value"`
	TotalPatrimony    float64 `json:"total_patrimony"`
}

// Converter performs reference-currency conversion. The logger is its only
// dependency, used for the rate-unavailable warning.
type Converter struct {
	logger *zap.Logger
}

// NewConverter creates a Converter.
func NewConverter(logger *zap.Logger) *Converter {
	return &Converter{logger: logger}
}

// ToReference converts an amount to USD. customRate, when set, replaces
// the official VES rate for this conversion only. A zero or missing rate
// returns the amount unconverted with a warning; never an error.
func (c *Converter) ToReference(amount float64, currency domain.Currency, customRate *float64, rates domain.RateSet) float64 {
	switch currency {
	case domain.USD:
		return amount
	case domain.VES:
		rate := rates.OfficialUSD
		if customRate != nil && *customRate > 0 {
			rate = *customRate
		}
		if rate <= 0 {
			c.warnUnavailable(currency)
			return amount
		}
		return amount / rate
	case domain.EUR:
		cross := rates.EURUSDCross()
		if cross <= 0 {
			c.warnUnavailable(currency)
			return amount
		}
		return amount * cross
	default:
		c.warnUnavailable(currency)
		return amount
	}
}

func (c *Converter) warnUnavailable(currency domain.Currency) {
	c.logger.Warn("valuation: rate unavailable, amount kept unconverted",
		zap.String("currency", string(currency)),
	)
}

// itemToReference converts a ledger item's amount, honoring its override rate.
func (c *Converter) itemToReference(item domain.LedgerItem, rates domain.RateSet) float64 {
	return c.ToReference(item.Amount, item.Currency, item.CustomRate, rates)
}

// Aggregate folds a ledger snapshot into Totals. Summation runs over
// decimals so the result is independent of item ordering.
func (c *Converter) Aggregate(items []domain.LedgerItem, rates domain.RateSet) Totals {
	var liquid, savings, assets, liabilities, recurring decimal.Decimal

	for _, item := range items {
		usd := decimal.NewFromFloat(c.itemToReference(item, rates))

		switch item.Kind {
		case domain.KindAsset:
			assets = assets.Add(usd)
			if item.Category == domain.CategoryCash || item.Category == domain.CategoryBank {
				liquid = liquid.Add(usd)
			}
			if item.Category == domain.CategorySavings {
				savings = savings.Add(usd)
			}
		case domain.KindLiability:
			liabilities = liabilities.Add(usd)
			if item.Category == domain.CategoryExpense && item.TargetDate != nil {
				recurring = recurring.Add(usd)
			}
		}
	}

	net := assets.Sub(liabilities)
	return Totals{
		LiquidAssets:      liquid.InexactFloat64(),
		Savings:           savings.InexactFloat64(),
		TotalAssets:       assets.InexactFloat64(),
		TotalLiabilities:  liabilities.InexactFloat64(),
		NetWorth:          net.InexactFloat64(),
		RecurringExpenses: recurring.InexactFloat64(),
		TotalPatrimony:    net.InexactFloat64(),
	}
}

// AggregateWithInventory extends Aggregate with the physical-asset value,
// producing the full patrimony figure.
func (c *Converter) AggregateWithInventory(items []domain.LedgerItem, assets []domain.PhysicalAsset, rates domain.RateSet) Totals {
	totals := c.Aggregate(items, rates)

	var physical decimal.Decimal
	for _, a := range assets {
		usd := c.ToReference(a.EstimatedValue, a.Currency, nil, rates)
		physical = physical.Add(decimal.NewFromFloat(usd))
	}

	totals.PhysicalValue = physical.InexactFloat64()
	totals.TotalPatrimony = decimal.NewFromFloat(totals.NetWorth).
		Add(physical).InexactFloat64()
	return totals
}
