package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
)

func TestPay_SettlesAssessment(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewPaymentService(repo, logger.New("test"))

	before := NewFinanceService(repo, logger.New("test")).Summary()

	payment, err := svc.Pay(context.Background(), ids.taxID, models.MethodCard)
	require.NoError(t, err)
	require.NotNil(t, payment)

	assert.Equal(t, ids.taxID, payment.TaxID)
	assert.Equal(t, ids.propertyID, payment.PropertyID)
	assert.Equal(t, int64(2300), payment.Amount, "Payment covers the full assessment total")
	assert.Equal(t, models.MethodCard, payment.Method)

	repo.View(func(doc *models.Document) {
		tax := doc.TaxByID(ids.taxID)
		require.NotNil(t, tax)
		assert.Equal(t, models.AssessmentPaid, tax.Status)

		assert.Equal(t, before.Revenue+payment.Amount, doc.Finance.Revenue)
		require.Len(t, doc.Finance.Transactions, 1)
		tx := doc.Finance.Transactions[0]
		assert.Equal(t, models.TransactionCredit, tx.Type)
		assert.Equal(t, payment.Amount, tx.Amount)
		assert.Contains(t, tx.Description, ids.taxID)
	})

	assert.Equal(t, 1, countAudit(repo, models.AuditProcessPayment))
}

func TestPay_SecondPaymentRejected(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewPaymentService(repo, logger.New("test"))
	ctx := context.Background()

	_, err := svc.Pay(ctx, ids.taxID, models.MethodUPI)
	require.NoError(t, err)

	_, err = svc.Pay(ctx, ids.taxID, models.MethodCard)
	assert.ErrorIs(t, err, ErrAlreadyPaid)

	// The rejected attempt left nothing behind
	repo.View(func(doc *models.Document) {
		assert.Len(t, doc.Payments, 1)
		assert.Len(t, doc.Finance.Transactions, 1)
	})
	assert.Equal(t, 1, countAudit(repo, models.AuditProcessPayment))
}

func TestPay_UnknownAssessment(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewPaymentService(repo, logger.New("test"))

	_, err := svc.Pay(context.Background(), "no-such-assessment", models.MethodBank)
	assert.ErrorIs(t, err, ErrAssessmentNotFound)

	repo.View(func(doc *models.Document) {
		assert.Empty(t, doc.Payments)
	})
}

func TestPay_InvalidMethod(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewPaymentService(repo, logger.New("test"))

	_, err := svc.Pay(context.Background(), ids.taxID, models.PaymentMethod("cash"))
	assert.ErrorIs(t, err, ErrInvalidMethod)
}

func TestListPaymentsByUser(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewPaymentService(repo, logger.New("test"))

	_, err := svc.Pay(context.Background(), ids.taxID, models.MethodCard)
	require.NoError(t, err)

	mine := svc.ListPaymentsByUser(ids.citizenID)
	require.Len(t, mine, 1)
	assert.Equal(t, ids.taxID, mine[0].TaxID)

	assert.Empty(t, svc.ListPaymentsByUser(ids.staffID))
}

func TestReceipt(t *testing.T) {
	repo := newTestRepo(t)
	ids := getSeededIDs(t, repo)
	svc := NewPaymentService(repo, logger.New("test"))

	payment, err := svc.Pay(context.Background(), ids.taxID, models.MethodBank)
	require.NoError(t, err)

	receipt, err := svc.Receipt(payment.ID)
	require.NoError(t, err)

	assert.Equal(t, payment.ID, receipt.Payment.ID)
	require.NotNil(t, receipt.Tax)
	assert.Equal(t, models.AssessmentPaid, receipt.Tax.Status)
	assert.Equal(t, "123 Main St, Block A", receipt.Address)
	assert.Equal(t, "John Doe", receipt.OwnerName)

	_, err = svc.Receipt("no-such-payment")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
