package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

var ErrInvalidAmount = errors.New("amount must be a positive number")

// FinanceService defines ledger bookkeeping and reporting logic.
type FinanceService interface {
	// Summary returns the running totals. The balance is always derived,
	// never stored.
	Summary() models.FinanceSummary

	// RecordExpense appends a debit transaction and raises the expense
	// total. Amount must be positive.
	RecordExpense(ctx context.Context, amount int64, description string) (*models.LedgerTransaction, error)

	// ListTransactions returns the ledger history, newest first.
	ListTransactions() []models.LedgerTransaction

	// MonthlySeries returns the synthetic 12-month income/expense series
	// used for charting. Months after the current calendar month are zero;
	// the distribution is presentation-only noise, not stored history.
	MonthlySeries() []models.MonthlyPoint
}

type financeService struct {
	repo *repository.Repository
	log  *logger.Logger
	now  func() time.Time

	// randMu guards rand: *rand.Rand is not safe for concurrent use and
	// MonthlySeries is served to concurrent requests.
	randMu sync.Mutex
	rand   *rand.Rand
}

// NewFinanceService creates a new instance of FinanceService.
func NewFinanceService(repo *repository.Repository, log *logger.Logger) FinanceService {
	return &financeService{
		repo: repo,
		log:  log,
		now:  time.Now,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Summary recomputes the balance from the stored totals.
func (s *financeService) Summary() models.FinanceSummary {
	var summary models.FinanceSummary
	s.repo.View(func(doc *models.Document) {
		summary = models.FinanceSummary{
			Revenue:  doc.Finance.Revenue,
			Expenses: doc.Finance.Expenses,
			Balance:  doc.Finance.Revenue - doc.Finance.Expenses,
		}
	})
	return summary
}

// RecordExpense raises the expense total, appends the debit transaction and
// the audit entry in one repository update.
func (s *financeService) RecordExpense(ctx context.Context, amount int64, description string) (*models.LedgerTransaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAmount, amount)
	}

	tx := models.LedgerTransaction{
		ID:          uuid.NewString(),
		Type:        models.TransactionDebit,
		Amount:      amount,
		Description: description,
		Date:        time.Now().UTC(),
	}
	err := s.repo.Update(ctx, func(doc *models.Document) error {
		doc.Finance.Expenses += amount
		doc.Finance.Transactions = append(doc.Finance.Transactions, tx)
		doc.AppendAudit(models.AuditAddExpense, map[string]string{
			"transaction_id": tx.ID,
		})
		return nil
	})
	if err != nil {
		s.log.Error("Failed to record expense", err, map[string]interface{}{
			"amount": amount,
		})
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}

	s.log.Info("Expense recorded", map[string]interface{}{
		"transaction_id": tx.ID,
		"amount":         amount,
	})
	return &tx, nil
}

// ListTransactions returns the ledger history, newest first.
func (s *financeService) ListTransactions() []models.LedgerTransaction {
	out := []models.LedgerTransaction{}
	s.repo.View(func(doc *models.Document) {
		out = append(out, doc.Finance.Transactions...)
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// MonthlySeries spreads the current totals across the elapsed months of the
// year. Elapsed months get the per-month average jittered into [0.8, 1.2];
// the current month is boosted to 1.5x income and damped to 0.5x expense so
// charts have a visible "now". No real per-month history exists to report.
func (s *financeService) MonthlySeries() []models.MonthlyPoint {
	summary := s.Summary()
	now := s.now()
	currentMonth := int(now.Month()) - 1

	avgIncome := float64(summary.Revenue) / float64(currentMonth+1)
	avgExpense := float64(summary.Expenses) / float64(currentMonth+1)

	points := make([]models.MonthlyPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		idx := int(m) - 1
		point := models.MonthlyPoint{Month: m.String()[:3]}
		switch {
		case idx > currentMonth:
			// Future months stay zero.
		case idx == currentMonth:
			point.Income = avgIncome * 1.5
			point.Expense = avgExpense * 0.5
		default:
			point.Income = s.jitter() * avgIncome
			point.Expense = s.jitter() * avgExpense
		}
		points = append(points, point)
	}
	return points
}

// jitter returns a factor in [0.8, 1.2).
func (s *financeService) jitter() float64 {
	s.randMu.Lock()
	defer s.randMu.Unlock()
	return 0.8 + s.rand.Float64()*0.4
}
