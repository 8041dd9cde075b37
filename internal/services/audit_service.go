package services

import (
	"sort"
	"strings"

	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

// AuditFilter narrows the audit listing. Zero values match everything.
type AuditFilter struct {
	// Action matches the action tag exactly when set.
	Action string
	// Query substring-matches against the action tag and reference ids,
	// case-insensitively, when set.
	Query string
}

// AuditService exposes the append-only audit log for compliance review.
// Entries are written by the mutating services; nothing here mutates.
type AuditService interface {
	// ListEntries returns matching audit entries, newest first.
	ListEntries(filter AuditFilter) []models.AuditEntry
}

type auditService struct {
	repo *repository.Repository
}

// NewAuditService creates a new instance of AuditService.
func NewAuditService(repo *repository.Repository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) ListEntries(filter AuditFilter) []models.AuditEntry {
	out := []models.AuditEntry{}
	s.repo.View(func(doc *models.Document) {
		for _, e := range doc.AuditLogs {
			if filter.Action != "" && e.Action != filter.Action {
				continue
			}
			if filter.Query != "" && !matchesQuery(e, filter.Query) {
				continue
			}
			out = append(out, e)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

func matchesQuery(e models.AuditEntry, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Action), q) {
		return true
	}
	for _, id := range e.Refs {
		if strings.Contains(strings.ToLower(id), q) {
			return true
		}
	}
	return false
}
