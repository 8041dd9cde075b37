package models

import "time"

// AssessmentStatus is the payment state of a tax assessment.
type AssessmentStatus string

const (
	AssessmentUnpaid AssessmentStatus = "unpaid"
	AssessmentPaid   AssessmentStatus = "paid"
)

// TaxAssessment is a computed tax obligation for one property for one year.
// At most one assessment exists per (property, year) pair. The penalty is
// computed once at assessment time and never re-evaluated afterwards.
// Amounts are in whole currency units.
type TaxAssessment struct {
	ID          string           `json:"id"`
	PropertyID  string           `json:"property_id"`
	Year        int              `json:"year"`
	PropertyTax int64            `json:"property_tax"`
	WaterTax    int64            `json:"water_tax"`
	Penalty     int64            `json:"penalty"`
	Total       int64            `json:"total"`
	Status      AssessmentStatus `json:"status"`
	DueDate     time.Time        `json:"due_date"`
	CreatedAt   time.Time        `json:"created_at"`
}

// AssessmentWithProperty is the denormalized read model joining the property
// address and the owner's display name onto the assessment.
type AssessmentWithProperty struct {
	TaxAssessment
	Address   string `json:"address"`
	OwnerName string `json:"owner_name,omitempty"`
}
