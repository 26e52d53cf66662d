package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ============================================================
// Directory entities — CRUD via PostgREST
// ============================================================

func (c *Client) GetAllEntities(ctx context.Context, ownerID string) ([]domain.DirectoryEntity, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAllEntities")
	defer span.End()

	path := fmt.Sprintf("directory_entities?user_id=eq.%s&order=name.asc", ownerID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.DirectoryEntity](body)
}

func (c *Client) AddEntity(ctx context.Context, entity domain.DirectoryEntity) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddEntity")
	defer span.End()

	return c.post(ctx, "directory_entities", entity)
}

func (c *Client) UpdateEntity(ctx context.Context, entity domain.DirectoryEntity) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateEntity")
	defer span.End()

	return c.patch(ctx, fmt.Sprintf("directory_entities?id=eq.%s", entity.ID), entity)
}

func (c *Client) DeleteEntity(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteEntity")
	defer span.End()

	return c.delete(ctx, fmt.Sprintf("directory_entities?id=eq.%s", id))
}
