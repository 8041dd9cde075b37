package services

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
)

func TestSummary_BalanceDerived(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewFinanceService(repo, logger.New("test"))

	sum := svc.Summary()
	assert.Equal(t, int64(500000), sum.Revenue)
	assert.Equal(t, int64(200000), sum.Expenses)
	assert.Equal(t, int64(300000), sum.Balance)
}

func TestRecordExpense(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewFinanceService(repo, logger.New("test"))

	tx, err := svc.RecordExpense(context.Background(), 5000, "Road repair, Ward 4")
	require.NoError(t, err)
	require.NotNil(t, tx)
	assert.Equal(t, models.TransactionDebit, tx.Type)
	assert.Equal(t, int64(5000), tx.Amount)
	assert.Equal(t, "Road repair, Ward 4", tx.Description)

	sum := svc.Summary()
	assert.Equal(t, int64(205000), sum.Expenses)
	assert.Equal(t, int64(295000), sum.Balance)

	assert.Equal(t, 1, countAudit(repo, models.AuditAddExpense))
}

func TestRecordExpense_InvalidAmount(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewFinanceService(repo, logger.New("test"))
	ctx := context.Background()

	for _, amount := range []int64{0, -5000} {
		_, err := svc.RecordExpense(ctx, amount, "bogus")
		assert.ErrorIs(t, err, ErrInvalidAmount)
	}

	sum := svc.Summary()
	assert.Equal(t, int64(200000), sum.Expenses, "Rejected expenses change nothing")
	assert.Equal(t, 0, countAudit(repo, models.AuditAddExpense))
}

func TestListTransactions_NewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewFinanceService(repo, logger.New("test"))
	ctx := context.Background()

	_, err := svc.RecordExpense(ctx, 100, "first")
	require.NoError(t, err)
	time.Sleep(2 * time.Millisecond)
	_, err = svc.RecordExpense(ctx, 200, "second")
	require.NoError(t, err)

	txs := svc.ListTransactions()
	require.Len(t, txs, 2)
	assert.Equal(t, "second", txs[0].Description)
	assert.Equal(t, "first", txs[1].Description)
}

func TestMonthlySeries(t *testing.T) {
	repo := newTestRepo(t)
	// Pin the clock to mid June so the elapsed/current/future split is known
	svc := &financeService{
		repo: repo,
		log:  logger.New("test"),
		now:  func() time.Time { return time.Date(2030, time.June, 15, 0, 0, 0, 0, time.UTC) },
		rand: rand.New(rand.NewSource(1)),
	}

	points := svc.MonthlySeries()
	require.Len(t, points, 12)
	assert.Equal(t, "Jan", points[0].Month)
	assert.Equal(t, "Dec", points[11].Month)

	avgIncome := 500000.0 / 6
	avgExpense := 200000.0 / 6

	// January through May: jittered around the monthly average
	for _, p := range points[:5] {
		assert.GreaterOrEqual(t, p.Income, 0.8*avgIncome, "month %s", p.Month)
		assert.Less(t, p.Income, 1.2*avgIncome, "month %s", p.Month)
		assert.GreaterOrEqual(t, p.Expense, 0.8*avgExpense, "month %s", p.Month)
		assert.Less(t, p.Expense, 1.2*avgExpense, "month %s", p.Month)
	}

	// June is the current month: boosted income, damped expense
	assert.InDelta(t, avgIncome*1.5, points[5].Income, 0.001)
	assert.InDelta(t, avgExpense*0.5, points[5].Expense, 0.001)

	// July through December have not happened yet
	for _, p := range points[6:] {
		assert.Zero(t, p.Income, "month %s", p.Month)
		assert.Zero(t, p.Expense, "month %s", p.Month)
	}
}

// The series endpoint is hit by concurrent staff dashboards, all sharing one
// service instance and therefore one random source. Run under -race.
func TestMonthlySeries_ConcurrentReads(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewFinanceService(repo, logger.New("test"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				points := svc.MonthlySeries()
				assert.Len(t, points, 12)
			}
		}()
	}
	wg.Wait()
}
