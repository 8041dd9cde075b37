package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrInvalidMethod   = errors.New("invalid payment method")
)

// PaymentService defines payment processing and payment history logic.
type PaymentService interface {
	// Pay settles one unpaid assessment. It is the only operation that
	// flips an assessment's status, and the flip is one-way: a second call
	// for the same assessment fails with ErrAlreadyPaid.
	Pay(ctx context.Context, assessmentID string, method models.PaymentMethod) (*models.Payment, error)

	// ListPayments returns all payments, newest first.
	ListPayments() []models.Payment

	// ListPaymentsByUser returns payments against the user's properties,
	// newest first.
	ListPaymentsByUser(userID string) []models.Payment

	// Receipt returns the denormalized receipt for one payment.
	Receipt(paymentID string) (*models.Receipt, error)
}

type paymentService struct {
	repo *repository.Repository
	log  *logger.Logger
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(repo *repository.Repository, log *logger.Logger) PaymentService {
	return &paymentService{
		repo: repo,
		log:  log,
	}
}

// Pay creates the payment record, flips the assessment to paid, credits the
// ledger and appends the audit entry in a single repository update. Either
// all of it is flushed or none of it is.
func (s *paymentService) Pay(ctx context.Context, assessmentID string, method models.PaymentMethod) (*models.Payment, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	var payment models.Payment
	err := s.repo.Update(ctx, func(doc *models.Document) error {
		tax := doc.TaxByID(assessmentID)
		if tax == nil {
			return ErrAssessmentNotFound
		}
		if tax.Status == models.AssessmentPaid {
			return ErrAlreadyPaid
		}

		now := time.Now().UTC()
		payment = models.Payment{
			ID:         uuid.NewString(),
			TaxID:      tax.ID,
			PropertyID: tax.PropertyID,
			Amount:     tax.Total,
			Method:     method,
			PaidAt:     now,
		}
		doc.Payments = append(doc.Payments, payment)

		tax.Status = models.AssessmentPaid

		doc.Finance.Revenue += payment.Amount
		doc.Finance.Transactions = append(doc.Finance.Transactions, models.LedgerTransaction{
			ID:          uuid.NewString(),
			Type:        models.TransactionCredit,
			Amount:      payment.Amount,
			Description: fmt.Sprintf("Tax payment for %s", tax.ID),
			Date:        now,
		})

		doc.AppendAudit(models.AuditProcessPayment, map[string]string{
			"payment_id": payment.ID,
			"tax_id":     tax.ID,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAssessmentNotFound) || errors.Is(err, ErrAlreadyPaid) {
			s.log.Warn("Payment rejected", map[string]interface{}{
				"assessment_id": assessmentID,
				"reason":        err.Error(),
			})
			return nil, err
		}
		s.log.Error("Failed to process payment", err, map[string]interface{}{
			"assessment_id": assessmentID,
		})
		return nil, fmt.Errorf("failed to process payment: %w", err)
	}

	s.log.Info("Payment processed", map[string]interface{}{
		"payment_id":    payment.ID,
		"assessment_id": assessmentID,
		"amount":        payment.Amount,
		"method":        string(method),
	})
	return &payment, nil
}

// ListPayments returns all payments, newest first.
func (s *paymentService) ListPayments() []models.Payment {
	var out []models.Payment
	s.repo.View(func(doc *models.Document) {
		out = append([]models.Payment(nil), doc.Payments...)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	if out == nil {
		out = []models.Payment{}
	}
	return out
}

// ListPaymentsByUser returns payments against properties owned by the user,
// newest first.
func (s *paymentService) ListPaymentsByUser(userID string) []models.Payment {
	out := []models.Payment{}
	s.repo.View(func(doc *models.Document) {
		owned := doc.PropertyIDsOwnedBy(userID)
		for _, p := range doc.Payments {
			if owned[p.PropertyID] {
				out = append(out, p)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidAt.After(out[j].PaidAt) })
	return out
}

// Receipt joins the payment with its assessment, property address and owner
// name.
func (s *paymentService) Receipt(paymentID string) (*models.Receipt, error) {
	var receipt *models.Receipt
	s.repo.View(func(doc *models.Document) {
		p := doc.PaymentByID(paymentID)
		if p == nil {
			return
		}
		r := models.Receipt{Payment: *p}
		if tax := doc.TaxByID(p.TaxID); tax != nil {
			t := *tax
			r.Tax = &t
		}
		if prop := doc.PropertyByID(p.PropertyID); prop != nil {
			r.Address = prop.Address
			r.OwnerName = doc.OwnerName(prop.OwnerID)
		}
		receipt = &r
	})
	if receipt == nil {
		return nil, ErrPaymentNotFound
	}
	return receipt, nil
}
