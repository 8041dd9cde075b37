package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
	"github.com/stwalsh4118/civitas/api/internal/store"
)

// newTestRepo builds a fresh repository over an in-memory store. The
// repository comes seeded: one user per role, one residential property owned
// by the citizen, and one unpaid assessment for the current year.
func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()
	repo, err := repository.New(context.Background(), store.NewMemoryStore())
	require.NoError(t, err)
	return repo
}

// seededIDs pulls the ids planted by the seed document out of the repo.
type seededIDs struct {
	adminID    string
	staffID    string
	citizenID  string
	propertyID string
	taxID      string
}

func getSeededIDs(t *testing.T, repo *repository.Repository) seededIDs {
	t.Helper()
	var ids seededIDs
	repo.View(func(doc *models.Document) {
		for _, u := range doc.Users {
			switch u.Role {
			case models.RoleAdmin:
				ids.adminID = u.ID
			case models.RoleStaff:
				ids.staffID = u.ID
			case models.RoleCitizen:
				ids.citizenID = u.ID
			}
		}
		ids.propertyID = doc.Properties[0].ID
		ids.taxID = doc.Taxes[0].ID
	})
	require.NotEmpty(t, ids.citizenID)
	require.NotEmpty(t, ids.propertyID)
	require.NotEmpty(t, ids.taxID)
	return ids
}

// countAudit returns how many audit entries carry the given action tag.
func countAudit(repo *repository.Repository, action string) int {
	count := 0
	repo.View(func(doc *models.Document) {
		for _, e := range doc.AuditLogs {
			if e.Action == action {
				count++
			}
		}
	})
	return count
}
