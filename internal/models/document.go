package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Document is the complete persisted state of the portal: one JSON document
// under a fixed storage key. The repository exclusively owns the loaded
// instance; read paths hand out copies, never interior pointers.
type Document struct {
	Users      []User          `json:"users"`
	Properties []Property      `json:"properties"`
	Taxes      []TaxAssessment `json:"taxes"`
	Payments   []Payment       `json:"payments"`
	Grievances []Grievance     `json:"grievances"`
	Finance    Finance         `json:"finance"`
	AuditLogs  []AuditEntry    `json:"auditLogs"`
}

// UserByID returns a pointer into the Users slice, or nil if absent.
// Pointers returned by the lookup helpers are only valid while the
// repository lock is held.
func (d *Document) UserByID(id string) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// UserByEmail returns a pointer into the Users slice, or nil if absent.
func (d *Document) UserByEmail(email string) *User {
	for i := range d.Users {
		if d.Users[i].Email == email {
			return &d.Users[i]
		}
	}
	return nil
}

// PropertyByID returns a pointer into the Properties slice, or nil if absent.
func (d *Document) PropertyByID(id string) *Property {
	for i := range d.Properties {
		if d.Properties[i].ID == id {
			return &d.Properties[i]
		}
	}
	return nil
}

// TaxByID returns a pointer into the Taxes slice, or nil if absent.
func (d *Document) TaxByID(id string) *TaxAssessment {
	for i := range d.Taxes {
		if d.Taxes[i].ID == id {
			return &d.Taxes[i]
		}
	}
	return nil
}

// TaxFor returns the assessment for the given (property, year) pair, or nil.
// At most one such assessment exists.
func (d *Document) TaxFor(propertyID string, year int) *TaxAssessment {
	for i := range d.Taxes {
		if d.Taxes[i].PropertyID == propertyID && d.Taxes[i].Year == year {
			return &d.Taxes[i]
		}
	}
	return nil
}

// PaymentByID returns a pointer into the Payments slice, or nil if absent.
func (d *Document) PaymentByID(id string) *Payment {
	for i := range d.Payments {
		if d.Payments[i].ID == id {
			return &d.Payments[i]
		}
	}
	return nil
}

// GrievanceByID returns a pointer into the Grievances slice, or nil if absent.
func (d *Document) GrievanceByID(id string) *Grievance {
	for i := range d.Grievances {
		if d.Grievances[i].ID == id {
			return &d.Grievances[i]
		}
	}
	return nil
}

// OwnerName resolves a property owner's display name, falling back to
// "Unknown" for dangling references.
func (d *Document) OwnerName(ownerID string) string {
	if u := d.UserByID(ownerID); u != nil {
		return u.Name
	}
	return "Unknown"
}

// PropertyIDsOwnedBy returns the ids of all properties owned by the user.
func (d *Document) PropertyIDsOwnedBy(ownerID string) map[string]bool {
	ids := make(map[string]bool)
	for i := range d.Properties {
		if d.Properties[i].OwnerID == ownerID {
			ids[d.Properties[i].ID] = true
		}
	}
	return ids
}

// AppendAudit appends one audit entry for a mutating action. Entries are
// append-only and never mutated afterwards.
func (d *Document) AppendAudit(action string, refs map[string]string) {
	d.AuditLogs = append(d.AuditLogs, AuditEntry{
		ID:        uuid.NewString(),
		Action:    action,
		Refs:      refs,
		Timestamp: time.Now().UTC(),
	})
}

// Seed builds the initial document for a fresh installation: one account per
// role, one sample residential property owned by the citizen, and an unpaid
// assessment for it. The seed credential for all three accounts is
// "password"; it is stored bcrypt-hashed like every other credential.
func Seed() (*Document, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	admin := User{
		ID:           uuid.NewString(),
		Name:         "Admin User",
		Email:        "admin@municipal.gov",
		PasswordHash: string(hash),
		Role:         RoleAdmin,
		CreatedAt:    now,
	}
	staff := User{
		ID:           uuid.NewString(),
		Name:         "Staff Officer 1",
		Email:        "staff@municipal.gov",
		PasswordHash: string(hash),
		Role:         RoleStaff,
		CreatedAt:    now,
	}
	citizen := User{
		ID:           uuid.NewString(),
		Name:         "John Doe",
		Email:        "citizen@example.com",
		PasswordHash: string(hash),
		Role:         RoleCitizen,
		CreatedAt:    now,
	}

	property := Property{
		ID:        uuid.NewString(),
		OwnerID:   citizen.ID,
		Address:   "123 Main St, Block A",
		FloorArea: 1500,
		Type:      PropertyResidential,
		CreatedAt: now,
	}

	year := now.Year()
	due := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	assessment := TaxAssessment{
		ID:          uuid.NewString(),
		PropertyID:  property.ID,
		Year:        year,
		PropertyTax: 1800,
		WaterTax:    500,
		Penalty:     0,
		Total:       2300,
		Status:      AssessmentUnpaid,
		DueDate:     due,
		CreatedAt:   now,
	}

	return &Document{
		Users:      []User{admin, staff, citizen},
		Properties: []Property{property},
		Taxes:      []TaxAssessment{assessment},
		Payments:   []Payment{},
		Grievances: []Grievance{},
		Finance: Finance{
			Revenue:      500000,
			Expenses:     200000,
			Transactions: []LedgerTransaction{},
		},
		AuditLogs: []AuditEntry{},
	}, nil
}
