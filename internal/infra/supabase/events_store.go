package supabase

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ============================================================
// Special events — CRUD via PostgREST
// ============================================================

func (c *Client) GetAllEvents(ctx context.Context, ownerID string) ([]domain.SpecialEvent, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAllEvents")
	defer span.End()

	path := fmt.Sprintf("special_events?user_id=eq.%s&order=date.asc", ownerID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.SpecialEvent](body)
}

func (c *Client) AddEvent(ctx context.Context, event domain.SpecialEvent) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddEvent")
	defer span.End()

	return c.post(ctx, "special_events", event)
}

func (c *Client) UpdateEvent(ctx context.Context, event domain.SpecialEvent) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateEvent")
	defer span.End()

	return c.patch(ctx, fmt.Sprintf("special_events?id=eq.%s", event.ID), event)
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteEvent")
	defer span.End()

	return c.delete(ctx, fmt.Sprintf("special_events?id=eq.%s", id))
}
