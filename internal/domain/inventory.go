package domain

// PhysicalAsset is non-liquid value held in kind: a laptop, a vehicle, a
// piece of equipment. It enters the ledger through liquidation (sold for
// cash) or settlement (surrendered against a debt, received against a
// receivable).
type PhysicalAsset struct {
	ID             string   `json:"id"`
	OwnerID        string   `json:"user_id"`
	Name           string   `json:"name"`
	EstimatedValue float64  `json:"estimated_value"`
	Currency       Currency `json:"currency"`
	Description    string   `json:"description,omitempty"`
	AcquiredAt     *string  `json:"purchase_date,omitempty"` // YYYY-MM-DD
}

// Validate checks the invariants enforced on every create/replace.
func (a PhysicalAsset) Validate() error {
	if a.Name == "" {
		return &ErrValidation{Field: "name", Message: "name is required"}
	}
	if a.EstimatedValue < 0 {
		return &ErrValidation{Field: "estimated_value", Message: "estimated value must be >= 0"}
	}
	if !ValidCurrency(a.Currency) {
		return &ErrValidation{Field: "currency", Message: "unknown currency"}
	}
	return nil
}
