package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
)

func TestSubmitGrievance(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewGrievanceService(repo, logger.New("test"))

	g, err := svc.Submit(context.Background(), ids.citizenID, GrievanceInput{
		Title:       "Streetlight out",
		Category:    "Electricity",
		Description: "The light at Main St and 4th has been dark for a week.",
	})
	require.NoError(t, err)
	require.NotNil(t, g)

	assert.Equal(t, models.GrievancePending, g.Status)
	assert.Equal(t, ids.citizenID, g.UserID)
	assert.Empty(t, g.Resolution)
	assert.Nil(t, g.ResolvedAt)

	assert.Equal(t, 1, countAudit(repo, models.AuditSubmitGrievance))
}

func TestSubmitGrievance_UnknownUser(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGrievanceService(repo, logger.New("test"))

	_, err := svc.Submit(context.Background(), "no-such-user", GrievanceInput{
		Title: "x", Category: "Other", Description: "y",
	})
	assert.ErrorIs(t, err, ErrGrievanceUserGone)

	repo.View(func(doc *models.Document) {
		assert.Empty(t, doc.Grievances)
	})
}

func TestResolveGrievance(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewGrievanceService(repo, logger.New("test"))
	ctx := context.Background()

	g, err := svc.Submit(ctx, ids.citizenID, GrievanceInput{
		Title: "Pothole", Category: "Roads", Description: "Deep pothole on Block A road.",
	})
	require.NoError(t, err)

	err = svc.Resolve(ctx, g.ID, "Filled on 28th.")
	require.NoError(t, err)

	repo.View(func(doc *models.Document) {
		stored := doc.GrievanceByID(g.ID)
		require.NotNil(t, stored)
		assert.Equal(t, models.GrievanceResolved, stored.Status)
		assert.Equal(t, "Filled on 28th.", stored.Resolution)
		require.NotNil(t, stored.ResolvedAt)
		assert.WithinDuration(t, time.Now(), *stored.ResolvedAt, 5*time.Second)
	})

	// Resolved is terminal
	err = svc.Resolve(ctx, g.ID, "Filled again?")
	assert.ErrorIs(t, err, ErrGrievanceResolved)
}

func TestResolveGrievance_RequiresText(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewGrievanceService(repo, logger.New("test"))
	ctx := context.Background()

	g, err := svc.Submit(ctx, ids.citizenID, GrievanceInput{
		Title: "Noise", Category: "Other", Description: "Construction after hours.",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Resolve(ctx, g.ID, ""), ErrMissingResolution)
	assert.ErrorIs(t, svc.Resolve(ctx, g.ID, "   "), ErrMissingResolution)

	repo.View(func(doc *models.Document) {
		assert.Equal(t, models.GrievancePending, doc.GrievanceByID(g.ID).Status)
	})
}

func TestResolveGrievance_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGrievanceService(repo, logger.New("test"))

	err := svc.Resolve(context.Background(), "no-such-grievance", "done")
	assert.ErrorIs(t, err, ErrGrievanceNotFound)
}

func TestMarkInProgress(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewGrievanceService(repo, logger.New("test"))
	ctx := context.Background()

	g, err := svc.Submit(ctx, ids.citizenID, GrievanceInput{
		Title: "Water pressure", Category: "Water", Description: "Low pressure mornings.",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkInProgress(ctx, g.ID))

	// Only pending grievances can be picked up
	err = svc.MarkInProgress(ctx, g.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Resolution still works from in-progress
	require.NoError(t, svc.Resolve(ctx, g.ID, "Pump replaced."))

	err = svc.MarkInProgress(ctx, g.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListGrievances(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewGrievanceService(repo, logger.New("test"))
	ctx := context.Background()

	_, err := svc.Submit(ctx, ids.citizenID, GrievanceInput{
		Title: "First", Category: "Other", Description: "d",
	})
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.Submit(ctx, ids.citizenID, GrievanceInput{
		Title: "Second", Category: "Other", Description: "d",
	})
	require.NoError(t, err)

	all := svc.ListGrievances()
	require.Len(t, all, 2)
	assert.Equal(t, "Second", all[0].Title, "Newest submission first")
	assert.Equal(t, "John Doe", all[0].CitizenName)

	mine := svc.ListGrievancesByUser(ids.citizenID)
	assert.Len(t, mine, 2)
	assert.Empty(t, svc.ListGrievancesByUser(ids.staffID))
}
