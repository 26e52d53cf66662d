package domain

// EventCategory classifies a calendar event.
type EventCategory string

const (
	EventBirthday EventCategory = "birthday"
	EventPayment  EventCategory = "payment"
	EventOther    EventCategory = "other"
)

// SpecialEvent is a calendar entry. Date is either "MM-DD" (annually
// recurring) or a full "YYYY-MM-DD".
type SpecialEvent struct {
	ID       string        `json:"id"`
	OwnerID  string        `json:"user_id"`
	Name     string        `json:"name"`
	Date     string        `json:"date"`
	Category EventCategory `json:"type"`
}

// Validate checks the invariants enforced on every create/replace.
func (e SpecialEvent) Validate() error {
	if e.Name == "" {
		return &ErrValidation{Field: "name", Message: "name is required"}
	}
	if e.Date == "" {
		return &ErrValidation{Field: "date", Message: "date is required"}
	}
	switch e.Category {
	case EventBirthday, EventPayment, EventOther:
		return nil
	}
	return &ErrValidation{Field: "type", Message: "unknown event type"}
}
