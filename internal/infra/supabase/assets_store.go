package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ============================================================
// Physical assets — CRUD via PostgREST
// ============================================================

func (c *Client) GetAllAssets(ctx context.Context, ownerID string) ([]domain.PhysicalAsset, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAllAssets")
	defer span.End()

	path := fmt.Sprintf("physical_assets?user_id=eq.%s&order=created_at.asc", ownerID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.PhysicalAsset](body)
}

func (c *Client) AddAsset(ctx context.Context, asset domain.PhysicalAsset) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddAsset")
	defer span.End()

	return c.post(ctx, "physical_assets", asset)
}

func (c *Client) UpdateAsset(ctx context.Context, asset domain.PhysicalAsset) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateAsset")
	defer span.End()

	return c.patch(ctx, fmt.Sprintf("physical_assets?id=eq.%s", asset.ID), asset)
}

func (c *Client) DeleteAsset(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteAsset")
	defer span.End()

	return c.delete(ctx, fmt.Sprintf("physical_assets?id=eq.%s", id))
}
