package advisor

import (
	"testing"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/valuation"
)

func TestBudgetAgeBrackets(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.FinancialProfile
		want    domain.BudgetDistribution
	}{
		{
			name:    "under 30 with fund",
			profile: domain.FinancialProfile{Age: 25, HasEmergencyFund: true},
			want:    domain.BudgetDistribution{Savings: 25, Investment: 15, Expenses: 60},
		},
		{
			name:    "30 to 44 with fund",
			profile: domain.FinancialProfile{Age: 35, HasEmergencyFund: true},
			want:    domain.BudgetDistribution{Savings: 20, Investment: 20, Expenses: 60},
		},
		{
			name:    "45 to 59 with fund",
			profile: domain.FinancialProfile{Age: 50, HasEmergencyFund: true},
			want:    domain.BudgetDistribution{Savings: 25, Investment: 15, Expenses: 60},
		},
		{
			name:    "60 and over with fund",
			profile: domain.FinancialProfile{Age: 65, HasEmergencyFund: true},
			want:    domain.BudgetDistribution{Savings: 10, Investment: 10, Expenses: 80},
		},
		{
			name:    "no age falls back to default split",
			profile: domain.FinancialProfile{HasEmergencyFund: true},
			want:    domain.BudgetDistribution{Savings: 20, Investment: 10, Expenses: 70},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateBudgetDistribution(tt.profile)
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBudgetAdjustments(t *testing.T) {
	base := domain.FinancialProfile{Age: 35, HasEmergencyFund: true}

	t.Run("single without children invests more", func(t *testing.T) {
		p := base
		p.MaritalStatus = domain.MaritalSingle
		got := CalculateBudgetDistribution(p)
		if got.Investment != 25 || got.Expenses != 55 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("children shift investment to expenses", func(t *testing.T) {
		p := base
		p.MaritalStatus = domain.MaritalSingle
		p.NumChildren = 2
		got := CalculateBudgetDistribution(p)
		if got.Investment != 15 || got.Expenses != 65 {
			t.Fatalf("children must override the single bump: %+v", got)
		}
	})

	t.Run("conservative moves investment to savings", func(t *testing.T) {
		p := base
		p.RiskProfile = domain.RiskConservative
		got := CalculateBudgetDistribution(p)
		if got.Savings != 25 || got.Investment != 15 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("aggressive moves savings to investment", func(t *testing.T) {
		p := base
		p.RiskProfile = domain.RiskAggressive
		got := CalculateBudgetDistribution(p)
		if got.Savings != 15 || got.Investment != 25 {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("missing emergency fund carves its own bucket", func(t *testing.T) {
		p := base
		p.HasEmergencyFund = false
		got := CalculateBudgetDistribution(p)
		if got.EmergencyFund != 10 || got.Investment != 15 || got.Expenses != 55 {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestBudgetAlwaysSumsToOneHundred(t *testing.T) {
	ages := []int{0, 18, 29, 30, 44, 45, 59, 60, 75}
	statuses := []domain.MaritalStatus{"", domain.MaritalSingle, domain.MaritalMarried}
	risks := []domain.RiskProfile{"", domain.RiskConservative, domain.RiskModerate, domain.RiskAggressive}
	children := []int{0, 1, 3}

	for _, age := range ages {
		for _, st := range statuses {
			for _, risk := range risks {
				for _, kids := range children {
					for _, fund := range []bool{true, false} {
						p := domain.FinancialProfile{
							Age: age, MaritalStatus: st, RiskProfile: risk,
							NumChildren: kids, HasEmergencyFund: fund,
						}
						got := CalculateBudgetDistribution(p)
						if got.Total() != 100 {
							t.Fatalf("distribution for %+v sums to %d: %+v", p, got.Total(), got)
						}
						if got.Savings < 0 || got.Investment < 0 || got.Expenses < 0 || got.EmergencyFund < 0 {
							t.Fatalf("negative bucket for %+v: %+v", p, got)
						}
					}
				}
			}
		}
	}
}

func TestRecommendEmergencyFundRule(t *testing.T) {
	recs := Recommend(Input{Profile: domain.FinancialProfile{HasEmergencyFund: false}})
	if len(recs) != 1 || recs[0].Type != "emergency_fund" || recs[0].Priority != domain.PriorityHigh {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	recs = Recommend(Input{Profile: domain.FinancialProfile{HasEmergencyFund: true}})
	if len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestRecommendRetirementRule(t *testing.T) {
	in := Input{Profile: domain.FinancialProfile{
		Age: 56, RetirementAgeGoal: 62,
		InvestmentExperience: domain.ExperienceNone,
		HasEmergencyFund:     true,
	}}
	recs := Recommend(in)
	if len(recs) != 1 || recs[0].Type != "retirement" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	// Experienced investors with the same horizon are left alone.
	in.Profile.InvestmentExperience = domain.ExperienceAdvanced
	if recs := Recommend(in); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}

	// A comfortable horizon does not fire.
	in.Profile.InvestmentExperience = domain.ExperienceNone
	in.Profile.Age = 30
	if recs := Recommend(in); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestRecommendDebtRatioRule(t *testing.T) {
	in := Input{
		Profile: domain.FinancialProfile{HasEmergencyFund: true},
		Totals:  valuation.Totals{TotalAssets: 1000, TotalLiabilities: 600},
	}
	recs := Recommend(in)
	if len(recs) != 1 || recs[0].Type != "debt_reduction" {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	in.Totals.TotalLiabilities = 400
	if recs := Recommend(in); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}

	// No assets means no meaningful ratio.
	in.Totals = valuation.Totals{TotalLiabilities: 600}
	if recs := Recommend(in); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestRecommendIdleLiquidityRule(t *testing.T) {
	in := Input{
		Profile: domain.FinancialProfile{HasEmergencyFund: true, RiskProfile: domain.RiskModerate},
		Totals:  valuation.Totals{LiquidAssets: 15000, TotalAssets: 15000},
	}
	recs := Recommend(in)
	if len(recs) != 1 || recs[0].Type != "idle_liquidity" || recs[0].Priority != domain.PriorityMedium {
		t.Fatalf("unexpected recommendations: %+v", recs)
	}

	// The gate is on total assets, not the liquid slice of them.
	in.Totals = valuation.Totals{LiquidAssets: 500, TotalAssets: 20000}
	recs = Recommend(in)
	if len(recs) != 1 || recs[0].Type != "idle_liquidity" {
		t.Fatalf("expected idle_liquidity on total assets alone, got %+v", recs)
	}

	in.Totals = valuation.Totals{LiquidAssets: 9000, TotalAssets: 9000}
	if recs := Recommend(in); len(recs) != 0 {
		t.Fatalf("expected no recommendations below the floor, got %+v", recs)
	}

	// Conservative investors are not nudged into instruments.
	in.Totals = valuation.Totals{LiquidAssets: 15000, TotalAssets: 15000}
	in.Profile.RiskProfile = domain.RiskConservative
	if recs := Recommend(in); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %+v", recs)
	}
}

func TestRecommendOrdersHighBeforeMedium(t *testing.T) {
	in := Input{
		Profile: domain.FinancialProfile{HasEmergencyFund: false, RiskProfile: domain.RiskAggressive},
		Totals:  valuation.Totals{LiquidAssets: 20000, TotalAssets: 20000},
	}
	recs := Recommend(in)
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %+v", recs)
	}
	if recs[0].Priority != domain.PriorityHigh || recs[1].Priority != domain.PriorityMedium {
		t.Fatalf("priority order broken: %+v", recs)
	}
}
