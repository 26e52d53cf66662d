package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ============================================================
// Shopping history — CRUD via PostgREST
// ============================================================

func (c *Client) GetAllShopping(ctx context.Context, ownerID string) ([]domain.ShoppingItem, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAllShopping")
	defer span.End()

	path := fmt.Sprintf("shopping_history?user_id=eq.%s&order=date.desc", ownerID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.ShoppingItem](body)
}

func (c *Client) AddShopping(ctx context.Context, item domain.ShoppingItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddShopping")
	defer span.End()

	return c.post(ctx, "shopping_history", item)
}

func (c *Client) UpdateShopping(ctx context.Context, item domain.ShoppingItem) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateShopping")
	defer span.End()

	return c.patch(ctx, fmt.Sprintf("shopping_history?id=eq.%s", item.ID), item)
}

func (c *Client) DeleteShopping(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteShopping")
	defer span.End()

	return c.delete(ctx, fmt.Sprintf("shopping_history?id=eq.%s", id))
}
