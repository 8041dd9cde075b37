package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

// NotificationKind classifies a derived alert.
type NotificationKind string

const (
	NotificationDueSoon = NotificationKind("tax_due_soon")
	NotificationOverdue = NotificationKind("tax_overdue")
	NotificationReceipt = NotificationKind("payment_receipt")
)

// Notification is a derived, unstored alert for a citizen. Notifications
// are computed from the document on every read; nothing is persisted.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	RefID   string           `json:"ref_id"`
	Date    time.Time        `json:"date"`
}

// Notifications derived-alert windows.
const (
	dueSoonWindow       = 30 * 24 * time.Hour
	recentPaymentWindow = 7 * 24 * time.Hour
)

// NotificationService derives alerts for a citizen: unpaid assessments due
// within 30 days, overdue assessments, and payments from the last 7 days.
type NotificationService interface {
	ForUser(userID string) []Notification
}

type notificationService struct {
	repo *repository.Repository
	now  func() time.Time
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(repo *repository.Repository) NotificationService {
	return &notificationService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *notificationService) ForUser(userID string) []Notification {
	now := s.now()
	out := []Notification{}
	s.repo.View(func(doc *models.Document) {
		owned := doc.PropertyIDsOwnedBy(userID)

		for _, t := range doc.Taxes {
			if !owned[t.PropertyID] || t.Status != models.AssessmentUnpaid {
				continue
			}
			switch {
			case now.After(t.DueDate):
				out = append(out, Notification{
					Kind:    NotificationOverdue,
					Message: fmt.Sprintf("Tax assessment for %d is overdue (total %d)", t.Year, t.Total),
					RefID:   t.ID,
					Date:    t.DueDate,
				})
			case t.DueDate.Sub(now) <= dueSoonWindow:
				out = append(out, Notification{
					Kind:    NotificationDueSoon,
					Message: fmt.Sprintf("Tax assessment for %d is due by %s", t.Year, t.DueDate.Format("2006-01-02")),
					RefID:   t.ID,
					Date:    t.DueDate,
				})
			}
		}

		for _, p := range doc.Payments {
			if !owned[p.PropertyID] {
				continue
			}
			if now.Sub(p.PaidAt) <= recentPaymentWindow {
				out = append(out, Notification{
					Kind:    NotificationReceipt,
					Message: fmt.Sprintf("Payment of %d received via %s", p.Amount, p.Method),
					RefID:   p.ID,
					Date:    p.PaidAt,
				})
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
