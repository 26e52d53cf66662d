// Package settlement resolves debts and receivables against the rest of
// the ledger. A settlement is a two-step mutation: a side effect (move
// money, create or delete an asset) followed by the resolution of the
// settled item (shrink or delete it). Validation happens before either
// step; if the second step fails, the first is compensated so the ledger
// never holds half a settlement.
package settlement

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/port"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/store"
)

// Method selects how a debt or receivable is settled.
type Method string

const (
	// MethodMoney moves the settled amount through a ledger account.
	MethodMoney Method = "money"
	// MethodAssetOut surrenders a physical asset against a debt.
	MethodAssetOut Method = "asset_out"
	// MethodAssetIn receives a physical asset against a receivable.
	MethodAssetIn Method = "asset_in"
	// MethodForgive resolves the item with no side effect.
	MethodForgive Method = "delete_debt"
)

// Request describes one settlement. Amount <= 0 means settle in full.
type Request struct {
	ItemID    string  `json:"item_id"`
	Method    Method  `json:"method"`
	Amount    float64 `json:"amount,omitempty"`
	AccountID string  `json:"account_id,omitempty"` // money
	AssetID   string  `json:"asset_id,omitempty"`   // asset_out
	AssetName string  `json:"asset_name,omitempty"` // asset_in
	Note      string  `json:"note,omitempty"`
}

// Result reports what a settlement did. Remaining is zero when the item
// was fully resolved and deleted.
type Result struct {
	ItemID        string  `json:"item_id"`
	Method        Method  `json:"method"`
	SettledAmount float64 `json:"settled_amount"`
	Remaining     float64 `json:"remaining"`
	Deleted       bool    `json:"deleted"`
}

// Processor runs settlements and liquidations against a session store.
type Processor struct {
	store    *store.Store
	notifier port.NotificationSink
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewProcessor creates a settlement processor bound to one session.
func NewProcessor(s *store.Store, notifier port.NotificationSink, metrics *observability.Metrics, logger *zap.Logger) *Processor {
	return &Processor{
		store:    s,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Settle resolves a debt or receivable according to req. All validation
// happens before any state change.
func (p *Processor) Settle(ctx context.Context, req Request) (*Result, error) {
	item, err := p.store.ItemByID(req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Settleable() {
		return nil, &domain.ErrValidation{Field: "item_id", Message: "only debts and receivables can be settled"}
	}
	if req.Amount < 0 {
		return nil, &domain.ErrValidation{Field: "amount", Message: "amount must be >= 0"}
	}

	settled := item.Amount
	if req.Amount > 0 && req.Amount < item.Amount {
		settled = req.Amount
	}

	var undo func(ctx context.Context) error
	switch req.Method {
	case MethodMoney:
		undo, err = p.applyMoney(ctx, item, req.AccountID, settled)
	case MethodAssetOut:
		undo, err = p.applyAssetOut(ctx, item, req.AssetID)
	case MethodAssetIn:
		undo, err = p.applyAssetIn(ctx, item, req.AssetName, settled)
	case MethodForgive:
		undo = func(ctx context.Context) error { return nil }
	default:
		return nil, &domain.ErrValidation{Field: "method", Message: "unknown settlement method"}
	}
	if err != nil {
		return nil, err
	}

	result, err := p.resolveItem(ctx, item, settled, req.Note)
	if err != nil {
		// Compensate the side effect so the ledger stays consistent.
		if undoErr := undo(ctx); undoErr != nil {
			p.logger.Error("settlement rollback failed",
				zap.String("item_id", item.ID),
				zap.String("method", string(req.Method)),
				zap.Error(undoErr),
			)
		}
		return nil, err
	}
	result.Method = req.Method

	p.metrics.IncrSettlement(string(req.Method))
	p.notifier.Publish(domain.Notification{
		Title:     "Settlement completed",
		Message:   fmt.Sprintf("%q settled for %s", item.Name, domain.FormatAmount(settled, item.Currency)),
		Severity:  domain.SeveritySuccess,
		Timestamp: time.Now().UTC(),
	})
	p.logger.Info("settlement completed",
		zap.String("item_id", item.ID),
		zap.String("method", string(req.Method)),
		zap.Float64("settled", settled),
		zap.Float64("remaining", result.Remaining),
	)
	return result, nil
}

// applyMoney moves the settled amount through a ledger account. Paying a
// debt debits the account; collecting a receivable credits it.
func (p *Processor) applyMoney(ctx context.Context, item domain.LedgerItem, accountID string, settled float64) (func(ctx context.Context) error, error) {
	if accountID == "" {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "account is required for money settlement"}
	}
	account, err := p.store.ItemByID(accountID)
	if err != nil {
		return nil, err
	}
	if account.Kind != domain.KindAsset {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "settlement account must be an asset"}
	}
	if account.Currency != item.Currency {
		return nil, &domain.ErrValidation{Field: "account_id", Message: "account currency must match the settled item"}
	}

	original := account.Amount
	if item.Category == domain.CategoryDebt {
		if account.Amount < settled {
			return nil, &domain.ErrValidation{Field: "account_id", Message: "insufficient funds in settlement account"}
		}
		account.Amount -= settled
	} else {
		account.Amount += settled
	}
	if err := p.store.UpdateItem(ctx, account); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		account.Amount = original
		return p.store.UpdateItem(ctx, account)
	}, nil
}

// applyAssetOut surrenders a physical asset against a debt.
func (p *Processor) applyAssetOut(ctx context.Context, item domain.LedgerItem, assetID string) (func(ctx context.Context) error, error) {
	if item.Category != domain.CategoryDebt {
		return nil, &domain.ErrValidation{Field: "method", Message: "asset_out only settles debts"}
	}
	if assetID == "" {
		return nil, &domain.ErrValidation{Field: "asset_id", Message: "asset is required for asset_out settlement"}
	}
	asset, err := p.store.AssetByID(assetID)
	if err != nil {
		return nil, err
	}
	if err := p.store.DeleteAsset(ctx, assetID); err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		_, err := p.store.AddAsset(ctx, asset)
		return err
	}, nil
}

// applyAssetIn receives a physical asset against a receivable, valued at
// the settled amount in the receivable's currency.
func (p *Processor) applyAssetIn(ctx context.Context, item domain.LedgerItem, assetName string, settled float64) (func(ctx context.Context) error, error) {
	if item.Category != domain.CategoryReceivable {
		return nil, &domain.ErrValidation{Field: "method", Message: "asset_in only settles receivables"}
	}
	if assetName == "" {
		return nil, &domain.ErrValidation{Field: "asset_name", Message: "asset name is required for asset_in settlement"}
	}
	asset, err := p.store.AddAsset(ctx, domain.PhysicalAsset{
		Name:           assetName,
		EstimatedValue: settled,
		Currency:       item.Currency,
		Description:    fmt.Sprintf("Received settling %q", item.Name),
	})
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) error {
		return p.store.DeleteAsset(ctx, asset.ID)
	}, nil
}

// resolveItem shrinks the settled item or deletes it when fully covered.
func (p *Processor) resolveItem(ctx context.Context, item domain.LedgerItem, settled float64, note string) (*Result, error) {
	if settled >= item.Amount {
		if err := p.store.DeleteItem(ctx, item.ID); err != nil {
			return nil, err
		}
		return &Result{ItemID: item.ID, SettledAmount: item.Amount, Deleted: true}, nil
	}

	item.Amount -= settled
	if note != "" {
		item.Note = note
	}
	if err := p.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return &Result{ItemID: item.ID, SettledAmount: settled, Remaining: item.Amount}, nil
}

// Liquidate sells a physical asset: the sale price is credited to a
// ledger account and the asset leaves the inventory. The price is taken
// in the account's currency.
func (p *Processor) Liquidate(ctx context.Context, assetID, accountID string, salePrice float64) error {
	if salePrice <= 0 {
		return &domain.ErrValidation{Field: "sale_price", Message: "sale price must be > 0"}
	}
	asset, err := p.store.AssetByID(assetID)
	if err != nil {
		return err
	}
	account, err := p.store.ItemByID(accountID)
	if err != nil {
		return err
	}
	if account.Kind != domain.KindAsset {
		return &domain.ErrValidation{Field: "account_id", Message: "liquidation account must be an asset"}
	}

	original := account.Amount
	account.Amount += salePrice
	if err := p.store.UpdateItem(ctx, account); err != nil {
		return err
	}

	if err := p.store.DeleteAsset(ctx, assetID); err != nil {
		account.Amount = original
		if undoErr := p.store.UpdateItem(ctx, account); undoErr != nil {
			p.logger.Error("liquidation rollback failed",
				zap.String("asset_id", assetID),
				zap.Error(undoErr),
			)
		}
		return err
	}

	p.metrics.IncrSettlement("liquidation")
	p.notifier.Publish(domain.Notification{
		Title:     "Asset liquidated",
		Message:   fmt.Sprintf("%q sold for %s", asset.Name, domain.FormatAmount(salePrice, account.Currency)),
		Severity:  domain.SeveritySuccess,
		Timestamp: time.Now().UTC(),
	})
	return nil
}
