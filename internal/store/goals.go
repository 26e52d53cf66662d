package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// Contribute applies a contribution to a goal. Unlike the optimistic CRUD
// path, the remote write happens first: the server owns the arithmetic and
// the active→completed transition, so local state is only updated from the
// re-read record. The completion notification fires exactly once, on the
// active→completed edge relative to the local copy.
func (s *Store) Contribute(ctx context.Context, goalID string, amount float64) (domain.FinancialGoal, error) {
	if amount <= 0 {
		return domain.FinancialGoal{}, &domain.ErrValidation{Field: "amount", Message: "contribution must be > 0"}
	}

	prior, err := s.GoalByID(goalID)
	if err != nil {
		return domain.FinancialGoal{}, err
	}

	if err := s.remote.AddContribution(ctx, goalID, amount); err != nil {
		s.markError()
		s.metrics.IncrSync("contribution", "error")
		return domain.FinancialGoal{}, err
	}

	updated, err := s.remote.GetGoalByID(ctx, goalID)
	if err != nil {
		// The contribution landed but the re-read failed. Local state is
		// now stale until the next full load.
		s.markError()
		s.metrics.IncrSync("contribution", "error")
		s.logger.Warn("contribution applied but re-read failed",
			zap.String("goal_id", goalID),
			zap.Error(err),
		)
		return domain.FinancialGoal{}, err
	}

	if err := s.guardWrite(); err != nil {
		return domain.FinancialGoal{}, err
	}
	for i := range s.goals {
		if s.goals[i].ID == goalID {
			s.goals[i] = *updated
			break
		}
	}
	s.status = domain.SyncSynced
	s.mu.Unlock()

	s.metrics.IncrSync("contribution", "ok")

	if prior.Status == domain.GoalActive && updated.Status == domain.GoalCompleted {
		s.metrics.IncrGoalCompletion()
		s.notifier.Publish(domain.Notification{
			Title:     "Goal completed",
			Message:   fmt.Sprintf("%q reached its target of %s", updated.Name, domain.FormatAmount(updated.TargetAmount, updated.Currency)),
			Severity:  domain.SeveritySuccess,
			Timestamp: time.Now().UTC(),
		})
		s.logger.Info("goal completed",
			zap.String("goal_id", goalID),
			zap.Float64("target", updated.TargetAmount),
		)
	}

	return *updated, nil
}
