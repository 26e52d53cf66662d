package supabase

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// ============================================================
// Financial goals — CRUD + contribution RPC via PostgREST
// ============================================================

func (c *Client) GetAllGoals(ctx context.Context, ownerID string) ([]domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetAllGoals")
	defer span.End()

	path := fmt.Sprintf("financial_goals?user_id=eq.%s&order=created_at.desc", ownerID)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[domain.FinancialGoal](body)
}

func (c *Client) AddGoal(ctx context.Context, goal domain.FinancialGoal) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddGoal")
	defer span.End()

	return c.post(ctx, "financial_goals", goal)
}

func (c *Client) UpdateGoal(ctx context.Context, goal domain.FinancialGoal) error {
	ctx, span := tracer.Start(ctx, "Supabase.UpdateGoal")
	defer span.End()

	return c.patch(ctx, fmt.Sprintf("financial_goals?id=eq.%s", goal.ID), goal)
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Supabase.DeleteGoal")
	defer span.End()

	return c.delete(ctx, fmt.Sprintf("financial_goals?id=eq.%s", id))
}

// AddContribution applies a contribution server-side. The stored procedure
// owns the active→completed transition and the completed_at stamp, which
// is why contributions are never applied optimistically.
func (c *Client) AddContribution(ctx context.Context, goalID string, amount float64) error {
	ctx, span := tracer.Start(ctx, "Supabase.AddContribution")
	defer span.End()

	err := c.rpc(ctx, "add_goal_contribution", map[string]any{
		"p_goal_id": goalID,
		"p_amount":  amount,
	})
	if err != nil {
		c.logger.Warn("supabase: contribution failed",
			zap.String("goal_id", goalID),
			zap.Float64("amount", amount),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) GetGoalByID(ctx context.Context, id string) (*domain.FinancialGoal, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetGoalByID")
	defer span.End()

	path := fmt.Sprintf("financial_goals?id=eq.%s&limit=1", id)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	rows, err := decodeRows[domain.FinancialGoal](body)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "goal", ID: id}
	}
	return &rows[0], nil
}
