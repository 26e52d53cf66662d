package domain

import "time"

// GoalStatus is the lifecycle state of a savings goal.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
)

// FinancialGoal is a savings target. CurrentAmount only grows through
// contributions; the active→completed transition fires exactly once, the
// first time CurrentAmount reaches TargetAmount, and stamps CompletedAt.
// CurrentAmount <= TargetAmount is a soft target, not enforced.
type FinancialGoal struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"user_id"`
	Name          string     `json:"name"`
	TargetAmount  float64    `json:"target_amount"`
	CurrentAmount float64    `json:"current_amount"`
	Currency      Currency   `json:"currency"`
	TargetDate    *string    `json:"target_date,omitempty"` // YYYY-MM-DD
	Status        GoalStatus `json:"status"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// Validate checks the invariants enforced on every create/replace.
func (g FinancialGoal) Validate() error {
	if g.Name == "" {
		return &ErrValidation{Field: "name", Message: "name is required"}
	}
	if g.TargetAmount <= 0 {
		return &ErrValidation{Field: "target_amount", Message: "target amount must be > 0"}
	}
	if g.CurrentAmount < 0 {
		return &ErrValidation{Field: "current_amount", Message: "current amount must be >= 0"}
	}
	if !ValidCurrency(g.Currency) {
		return &ErrValidation{Field: "currency", Message: "unknown currency"}
	}
	return nil
}
