package domain

// Demographic and risk attributes used by the recommendation engine.
// All fields are optional; rules that need an unset field simply don't fire.

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

type RiskProfile string

const (
	RiskConservative RiskProfile = "conservative"
	RiskModerate     RiskProfile = "moderate"
	RiskAggressive   RiskProfile = "aggressive"
)

type InvestmentExperience string

const (
	ExperienceNone         InvestmentExperience = "none"
	ExperienceBeginner     InvestmentExperience = "beginner"
	ExperienceIntermediate InvestmentExperience = "intermediate"
	ExperienceAdvanced     InvestmentExperience = "advanced"
)

// FinancialProfile is the user's self-reported demographic/risk picture.
type FinancialProfile struct {
	Age                  int                  `json:"age,omitempty"`
	MaritalStatus        MaritalStatus        `json:"marital_status,omitempty"`
	NumChildren          int                  `json:"num_children,omitempty"`
	RiskProfile          RiskProfile          `json:"risk_profile,omitempty"`
	InvestmentExperience InvestmentExperience `json:"investment_experience,omitempty"`
	RetirementAgeGoal    int                  `json:"retirement_age_goal,omitempty"`
	HasEmergencyFund     bool                 `json:"has_emergency_fund"`
	EmergencyFundMonths  int                  `json:"emergency_fund_months,omitempty"`
}

// BudgetDistribution is a percentage breakdown that always sums to 100.
type BudgetDistribution struct {
	Savings       int `json:"savings"`
	Investment    int `json:"investment"`
	Expenses      int `json:"expenses"`
	EmergencyFund int `json:"emergency_fund"`
}

// Total returns the sum of the four buckets.
func (b BudgetDistribution) Total() int {
	return b.Savings + b.Investment + b.Expenses + b.EmergencyFund
}

// RecommendationPriority orders advisory output.
type RecommendationPriority string

const (
	PriorityHigh   RecommendationPriority = "high"
	PriorityMedium RecommendationPriority = "medium"
	PriorityLow    RecommendationPriority = "low"
)

// Recommendation is one advisory item produced by the rule engine.
type Recommendation struct {
	Type        string                 `json:"recommendation_type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    RecommendationPriority `json:"priority"`
}
