package advisor

import (
	"fmt"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/valuation"
)

// Thresholds the rules fire on. Amounts are in the reference currency.
const (
	debtRatioLimit       = 0.5
	idleLiquidityFloor   = 10000.0
	retirementHorizonYrs = 10
)

// Input is everything a rule can look at.
type Input struct {
	Profile domain.FinancialProfile
	Totals  valuation.Totals
}

// rule is one row of the advisory table: a name for logging and a check
// that returns a recommendation or nil. Rules are evaluated in order and
// are independent of each other.
type rule struct {
	name  string
	check func(in Input) *domain.Recommendation
}

var ruleTable = []rule{
	{
		name: "emergency-fund",
		check: func(in Input) *domain.Recommendation {
			if in.Profile.HasEmergencyFund {
				return nil
			}
			return &domain.Recommendation{
				Type:        "emergency_fund",
				Title:       "Build an emergency fund",
				Description: "Set aside three to six months of expenses before anything else. It is the buffer that keeps a bad month from becoming new debt.",
				Priority:    domain.PriorityHigh,
			}
		},
	},
	{
		name: "retirement-horizon",
		check: func(in Input) *domain.Recommendation {
			p := in.Profile
			if p.Age <= 0 || p.RetirementAgeGoal <= 0 {
				return nil
			}
			gap := p.RetirementAgeGoal - p.Age
			if gap >= retirementHorizonYrs || gap < 0 {
				return nil
			}
			if p.InvestmentExperience != domain.ExperienceNone && p.InvestmentExperience != "" {
				return nil
			}
			return &domain.Recommendation{
				Type:        "retirement",
				Title:       "Retirement is closer than it looks",
				Description: fmt.Sprintf("You plan to retire in %d years but have no investment experience yet. Start with low-risk instruments now.", gap),
				Priority:    domain.PriorityHigh,
			}
		},
	},
	{
		name: "debt-ratio",
		check: func(in Input) *domain.Recommendation {
			t := in.Totals
			if t.TotalAssets <= 0 {
				return nil
			}
			ratio := t.TotalLiabilities / t.TotalAssets
			if ratio <= debtRatioLimit {
				return nil
			}
			return &domain.Recommendation{
				Type:        "debt_reduction",
				Title:       "Debt is outpacing your assets",
				Description: fmt.Sprintf("Your liabilities are %.0f%% of your assets. Prioritize paying down the most expensive debt before saving more.", ratio*100),
				Priority:    domain.PriorityHigh,
			}
		},
	},
	{
		name: "idle-liquidity",
		check: func(in Input) *domain.Recommendation {
			if in.Totals.TotalAssets <= idleLiquidityFloor {
				return nil
			}
			if in.Profile.RiskProfile == domain.RiskConservative {
				return nil
			}
			return &domain.Recommendation{
				Type:        "idle_liquidity",
				Title:       "Cash is sitting idle",
				Description: fmt.Sprintf("Your assets total %s. Consider moving part of it into instruments that beat inflation.", domain.FormatAmount(in.Totals.TotalAssets, domain.ReferenceCurrency)),
				Priority:    domain.PriorityMedium,
			}
		},
	},
}

// Recommend evaluates the rule table against in. The result preserves the
// table order, which already encodes priority grouping.
func Recommend(in Input) []domain.Recommendation {
	var out []domain.Recommendation
	for _, r := range ruleTable {
		if rec := r.check(in); rec != nil {
			out = append(out, *rec)
		}
	}
	return out
}
