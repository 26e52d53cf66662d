package domain

// EntityKind classifies a directory counterparty.
type EntityKind string

const (
	EntityPerson   EntityKind = "person"
	EntityCompany  EntityKind = "company"
	EntityPlatform EntityKind = "platform"
	EntityBank     EntityKind = "bank"
	EntityBusiness EntityKind = "business"
)

// DirectoryEntity is a counterparty that ledger items and shopping
// entries can reference: the friend who owes you, the bank, the store.
type DirectoryEntity struct {
	ID      string     `json:"id"`
	OwnerID string     `json:"user_id"`
	Name    string     `json:"name"`
	Kind    EntityKind `json:"type"`
	Balance *float64   `json:"balance,omitempty"`
	Notes   string     `json:"notes,omitempty"`
}

// Validate checks the invariants enforced on every create/replace.
func (d DirectoryEntity) Validate() error {
	if d.Name == "" {
		return &ErrValidation{Field: "name", Message: "name is required"}
	}
	switch d.Kind {
	case EntityPerson, EntityCompany, EntityPlatform, EntityBank, EntityBusiness:
		return nil
	}
	return &ErrValidation{Field: "type", Message: "unknown entity type"}
}

// ShoppingItem is one discretionary-spend log entry.
type ShoppingItem struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"user_id"`
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Currency    Currency `json:"currency"`
	Date        string   `json:"date"` // YYYY-MM-DD
	HasReceipt  bool     `json:"has_receipt"`
	EntityID    *string  `json:"entity_id,omitempty"`
}

// Validate checks the invariants enforced on every create/replace.
func (s ShoppingItem) Validate() error {
	if s.Description == "" {
		return &ErrValidation{Field: "description", Message: "description is required"}
	}
	if s.Amount < 0 {
		return &ErrValidation{Field: "amount", Message: "amount must be >= 0"}
	}
	if !ValidCurrency(s.Currency) {
		return &ErrValidation{Field: "currency", Message: "unknown currency"}
	}
	return nil
}
