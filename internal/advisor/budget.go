// Package advisor produces the budget distribution and the advisory
// recommendations derived from the user's profile and ledger totals.
package advisor

import (
	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
)

// CalculateBudgetDistribution maps a profile to a percentage budget.
// The age bracket sets the base split; profile attributes nudge it; the
// expenses bucket absorbs whatever is left so the total is always 100.
func CalculateBudgetDistribution(p domain.FinancialProfile) domain.BudgetDistribution {
	var savings, investment int

	switch {
	case p.Age <= 0:
		savings, investment = 20, 10
	case p.Age < 30:
		savings, investment = 25, 15
	case p.Age < 45:
		savings, investment = 20, 20
	case p.Age < 60:
		savings, investment = 25, 15
	default:
		savings, investment = 10, 10
	}

	// Family situation shifts the investment appetite.
	if p.NumChildren > 0 {
		investment -= 5
	} else if p.MaritalStatus == domain.MaritalSingle {
		investment += 5
	}

	switch p.RiskProfile {
	case domain.RiskConservative:
		investment -= 5
		savings += 5
	case domain.RiskAggressive:
		investment += 5
		savings -= 5
	}

	emergency := 0
	if !p.HasEmergencyFund {
		emergency = 10
		investment -= 5
	}

	if savings < 0 {
		savings = 0
	}
	if investment < 0 {
		investment = 0
	}

	return domain.BudgetDistribution{
		Savings:       savings,
		Investment:    investment,
		EmergencyFund: emergency,
		Expenses:      100 - savings - investment - emergency,
	}
}
