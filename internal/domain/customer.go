package domain

// WalkInName is the snapshot name recorded for anonymous buyers.
const WalkInName = "Walk-in Customer"

// Customer is either a RegisteredCustomer or WalkIn.
type Customer interface {
	Snapshot() CustomerSnapshot
	isCustomer()
}

type RegisteredCustomer struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Phone          string `json:"phone,omitempty"`
	Email          string `json:"email,omitempty"`
	LoyaltyEnabled bool   `json:"loyalty_enabled"`
	LoyaltyPoints  int64  `json:"loyalty_points"`
}

func (c RegisteredCustomer) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{Name: c.Name, Phone: c.Phone, Email: c.Email}
}

func (RegisteredCustomer) isCustomer() {}

// WalkIn stands for a buyer with no customer record. It is never persisted.
type WalkIn struct{}

func (WalkIn) Snapshot() CustomerSnapshot {
	return CustomerSnapshot{Name: WalkInName}
}

func (WalkIn) isCustomer() {}

// CustomerIDOf returns the persisted id for registered customers and nil for
// walk-ins.
func CustomerIDOf(c Customer) *string {
	if reg, ok := c.(RegisteredCustomer); ok && reg.ID != "" {
		id := reg.ID
		return &id
	}
	return nil
}

// EarnsLoyalty reports whether a sale to c accrues loyalty points.
func EarnsLoyalty(c Customer) (RegisteredCustomer, bool) {
	reg, ok := c.(RegisteredCustomer)
	if !ok || reg.ID == "" || !reg.LoyaltyEnabled {
		return RegisteredCustomer{}, false
	}
	return reg, true
}
