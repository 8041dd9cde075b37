package models

import "time"

// PaymentMethod is the channel a payment was made through.
type PaymentMethod string

const (
	MethodCard PaymentMethod = "card"
	MethodUPI  PaymentMethod = "upi"
	MethodBank PaymentMethod = "bank"
)

// Valid reports whether the payment method is one of the known methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodUPI, MethodBank:
		return true
	}
	return false
}

// Payment records the settlement of exactly one tax assessment. Immutable
// once created. PropertyID is denormalized from the assessment so citizen
// payment history can be derived without a join through taxes.
type Payment struct {
	ID         string        `json:"id"`
	TaxID      string        `json:"tax_id"`
	PropertyID string        `json:"property_id"`
	Amount     int64         `json:"amount"`
	Method     PaymentMethod `json:"method"`
	PaidAt     time.Time     `json:"paid_at"`
}

// Receipt is the denormalized read model for a single payment, joining the
// settled assessment, the property address, and the owner's display name.
type Receipt struct {
	Payment
	Tax       *TaxAssessment `json:"tax_details,omitempty"`
	Address   string         `json:"property_address,omitempty"`
	OwnerName string         `json:"owner_name,omitempty"`
}
