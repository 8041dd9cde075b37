package models

import "time"

// Audit action tags. One entry is appended per mutating operation.
const (
	AuditRegister        = "REGISTER"
	AuditLogin           = "LOGIN"
	AuditLogout          = "LOGOUT"
	AuditAddProperty     = "ADD_PROPERTY"
	AuditUpdateProperty  = "UPDATE_PROPERTY"
	AuditAssessTax       = "ASSESS_TAX"
	AuditProcessPayment  = "PROCESS_PAYMENT"
	AuditAddExpense      = "ADD_EXPENSE"
	AuditSubmitGrievance = "SUBMIT_GRIEVANCE"
	AuditUpdateGrievance = "UPDATE_GRIEVANCE"
)

// AuditEntry is an immutable record of a mutating action, kept for
// compliance review. Refs carries the ids of the entities the action
// touched, keyed by entity kind (e.g. "tax_id", "user_id").
type AuditEntry struct {
	ID        string            `json:"id"`
	Action    string            `json:"action"`
	Refs      map[string]string `json:"refs,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}
