package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
)

func TestListEntries(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	ctx := context.Background()

	// Generate a mixed trail: a payment and an expense
	_, err := NewPaymentService(repo, logger.New("test")).Pay(ctx, ids.taxID, models.MethodCard)
	require.NoError(t, err)
	_, err = NewFinanceService(repo, logger.New("test")).RecordExpense(ctx, 1000, "Supplies")
	require.NoError(t, err)

	svc := NewAuditService(repo)

	all := svc.ListEntries(AuditFilter{})
	require.Len(t, all, 2)
	assert.Equal(t, models.AuditAddExpense, all[0].Action, "Newest entry first")

	payments := svc.ListEntries(AuditFilter{Action: models.AuditProcessPayment})
	require.Len(t, payments, 1)
	assert.Equal(t, ids.taxID, payments[0].Refs["tax_id"])

	assert.Empty(t, svc.ListEntries(AuditFilter{Action: models.AuditLogin}))
}

func TestListEntries_Query(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	ctx := context.Background()

	_, err := NewPaymentService(repo, logger.New("test")).Pay(ctx, ids.taxID, models.MethodUPI)
	require.NoError(t, err)

	svc := NewAuditService(repo)

	// Case-insensitive match on the action tag
	assert.Len(t, svc.ListEntries(AuditFilter{Query: "process_pay"}), 1)

	// Match on a referenced id
	assert.Len(t, svc.ListEntries(AuditFilter{Query: ids.taxID}), 1)

	assert.Empty(t, svc.ListEntries(AuditFilter{Query: "zzz-no-match"}))
}
