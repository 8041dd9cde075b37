package models

import "time"

// GrievanceStatus is the lifecycle state of a grievance ticket.
// The only transitions are pending -> in-progress and
// pending/in-progress -> resolved; resolved is terminal.
type GrievanceStatus string

const (
	GrievancePending    GrievanceStatus = "pending"
	GrievanceInProgress GrievanceStatus = "in-progress"
	GrievanceResolved   GrievanceStatus = "resolved"
)

// Grievance is a citizen-submitted service complaint tracked to resolution.
// Resolution text and the resolved timestamp are set exactly once, when the
// ticket is resolved.
type Grievance struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Title       string          `json:"title"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Status      GrievanceStatus `json:"status"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Resolution  string          `json:"resolution,omitempty"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

// GrievanceWithCitizen is the denormalized read model joining the submitting
// citizen's display name onto the grievance.
type GrievanceWithCitizen struct {
	Grievance
	CitizenName string `json:"citizen_name"`
}
