package domain

// Category classifies a ledger item. Closed set.
type Category string

const (
	CategoryBank       Category = "Bank"
	CategoryWallet     Category = "Wallet"
	CategoryCash       Category = "Cash"
	CategoryInvestment Category = "Investment"
	CategorySavings    Category = "Savings"
	CategoryDebt       Category = "Debt"
	CategoryExpense    Category = "Expense"
	CategoryReceivable Category = "Receivable"
	CategoryIncome     Category = "Income"
	CategoryOther      Category = "Other"
)

// ValidCategory reports whether c is a known category.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryBank, CategoryWallet, CategoryCash, CategoryInvestment,
		CategorySavings, CategoryDebt, CategoryExpense, CategoryReceivable,
		CategoryIncome, CategoryOther:
		return true
	}
	return false
}

// ItemKind splits items into the two sides of the balance.
type ItemKind string

const (
	KindAsset     ItemKind = "asset"
	KindLiability ItemKind = "liability"
)

// LedgerItem is a liquid position: an account balance, a debt, a
// receivable, a recurring expense. Amounts are always >= 0; the Kind
// decides which side of the net worth they land on.
type LedgerItem struct {
	ID         string   `json:"id"`
	OwnerID    string   `json:"user_id"`
	Name       string   `json:"name"`
	Amount     float64  `json:"amount"`
	Currency   Currency `json:"currency"`
	Category   Category `json:"category"`
	Kind       ItemKind `json:"type"`
	Recurring  bool     `json:"is_monthly"`
	DayOfMonth *int     `json:"day_of_month,omitempty"`
	Note       string   `json:"note,omitempty"`
	// CustomRate overrides the official VES rate for this item only.
	CustomRate *float64 `json:"custom_exchange_rate,omitempty"`
	// EntityID links the item to a directory counterparty.
	EntityID   *string `json:"entity_id,omitempty"`
	TargetDate *string `json:"target_date,omitempty"` // YYYY-MM-DD
}

// Settleable reports whether the item can go through the settlement
// processor (only debts and receivables can).
func (i LedgerItem) Settleable() bool {
	return i.Category == CategoryDebt || i.Category == CategoryReceivable
}

// Validate checks the invariants enforced on every create/replace.
func (i LedgerItem) Validate() error {
	if i.Name == "" {
		return &ErrValidation{Field: "name", Message: "name is required"}
	}
	if i.Amount < 0 {
		return &ErrValidation{Field: "amount", Message: "amount must be >= 0"}
	}
	if !ValidCurrency(i.Currency) {
		return &ErrValidation{Field: "currency", Message: "unknown currency"}
	}
	if !ValidCategory(i.Category) {
		return &ErrValidation{Field: "category", Message: "unknown category"}
	}
	if i.Kind != KindAsset && i.Kind != KindLiability {
		return &ErrValidation{Field: "type", Message: "type must be asset or liability"}
	}
	if i.Recurring && i.DayOfMonth != nil && (*i.DayOfMonth < 1 || *i.DayOfMonth > 31) {
		return &ErrValidation{Field: "day_of_month", Message: "day of month out of range"}
	}
	return nil
}
