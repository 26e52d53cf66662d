package supabase

import (
	"context"
	"net/http"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// The exchange-rate record is a shared single-row resource, not per-user.
const ratesPath = "exchange_rates?id=eq.1"

// GetRates reads the shared exchange-rate record. Returns nil when the
// record does not exist yet.
func (c *Client) GetRates(ctx context.Context) (*domain.RateSet, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetRates")
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, ratesPath+"&limit=1", nil)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows[domain.RateSet](body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// UpdateRates upserts the shared exchange-rate record.
func (c *Client) UpdateRates(ctx context.Context, rates domain.RateSet) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateRates")
	defer span.End()

	type rateRow struct {
		ID int `json:"id"`
		domain.RateSet
	}
	_, err := c.do(ctx, http.MethodPost, "exchange_rates?on_conflict=id", rateRow{ID: 1, RateSet: rates})
	return err
}
