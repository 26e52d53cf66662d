package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ============================================================
// Ledger items — CRUD via PostgREST
// ============================================================

func (c *Client) GetAllItems(ctx context.Context, ownerID string) ([]domain.LedgerItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAllItems")
	defer span.End()

	path := fmt.Sprintf("financial_items?user_id=eq.%s&order=created_at.asc", ownerID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.LedgerItem](body)
}

func (c *Client) AddItem(ctx context.Context, item domain.LedgerItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddItem")
	defer span.End()

	return c.post(ctx, "financial_items", item)
}

func (c *Client) UpdateItem(ctx context.Context, item domain.LedgerItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateItem")
	defer span.End()

	return c.patch(ctx, fmt.Sprintf("financial_items?id=eq.%s", item.ID), item)
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteItem")
	defer span.End()

	return c.delete(ctx, fmt.Sprintf("financial_items?id=eq.%s", id))
}
