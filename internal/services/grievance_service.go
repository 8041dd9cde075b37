package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

var (
	ErrGrievanceNotFound = errors.New("grievance not found")
	ErrGrievanceResolved = errors.New("grievance already resolved")
	ErrMissingResolution = errors.New("resolution text is required")
	ErrInvalidTransition = errors.New("invalid grievance status transition")
	ErrGrievanceUserGone = errors.New("submitting user not found")
)

// GrievanceInput carries the citizen-provided fields of a new grievance.
type GrievanceInput struct {
	Title       string
	Category    string
	Description string
}

// GrievanceService defines grievance ticket tracking logic. Tickets move
// pending -> in-progress -> resolved (in-progress may be skipped); resolved
// is terminal.
type GrievanceService interface {
	// Submit creates a pending grievance for the user.
	Submit(ctx context.Context, userID string, in GrievanceInput) (*models.Grievance, error)

	// MarkInProgress moves a pending grievance to in-progress.
	MarkInProgress(ctx context.Context, id string) error

	// Resolve closes a grievance with the given resolution text. It fails
	// if the grievance is missing, already resolved, or the text is empty.
	Resolve(ctx context.Context, id, resolution string) error

	// ListGrievances returns all grievances with the submitting citizen's
	// name attached, newest-submitted first.
	ListGrievances() []models.GrievanceWithCitizen

	// ListGrievancesByUser returns the user's grievances, newest-submitted
	// first.
	ListGrievancesByUser(userID string) []models.Grievance
}

type grievanceService struct {
	repo *repository.Repository
	log  *logger.Logger
}

// NewGrievanceService creates a new instance of GrievanceService.
func NewGrievanceService(repo *repository.Repository, log *logger.Logger) GrievanceService {
	return &grievanceService{
		repo: repo,
		log:  log,
	}
}

func (s *grievanceService) Submit(ctx context.Context, userID string, in GrievanceInput) (*models.Grievance, error) {
	grievance := models.Grievance{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       in.Title,
		Category:    in.Category,
		Description: in.Description,
		Status:      models.GrievancePending,
		SubmittedAt: time.Now().UTC(),
	}

	err := s.repo.Update(ctx, func(doc *models.Document) error {
		if doc.UserByID(userID) == nil {
			return ErrGrievanceUserGone
		}
		doc.Grievances = append(doc.Grievances, grievance)
		doc.AppendAudit(models.AuditSubmitGrievance, map[string]string{
			"grievance_id": grievance.ID,
			"user_id":      userID,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrGrievanceUserGone) {
			return nil, err
		}
		s.log.Error("Failed to submit grievance", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, fmt.Errorf("failed to submit grievance: %w", err)
	}

	s.log.Info("Grievance submitted", map[string]interface{}{
		"grievance_id": grievance.ID,
		"category":     grievance.Category,
	})
	return &grievance, nil
}

func (s *grievanceService) MarkInProgress(ctx context.Context, id string) error {
	err := s.repo.Update(ctx, func(doc *models.Document) error {
		g := doc.GrievanceByID(id)
		if g == nil {
			return ErrGrievanceNotFound
		}
		if g.Status != models.GrievancePending {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, g.Status, models.GrievanceInProgress)
		}
		g.Status = models.GrievanceInProgress
		doc.AppendAudit(models.AuditUpdateGrievance, map[string]string{
			"grievance_id": id,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrGrievanceNotFound) || errors.Is(err, ErrInvalidTransition) {
			return err
		}
		s.log.Error("Failed to update grievance", err, map[string]interface{}{
			"grievance_id": id,
		})
		return fmt.Errorf("failed to update grievance: %w", err)
	}
	return nil
}

func (s *grievanceService) Resolve(ctx context.Context, id, resolution string) error {
	if strings.TrimSpace(resolution) == "" {
		return ErrMissingResolution
	}

	err := s.repo.Update(ctx, func(doc *models.Document) error {
		g := doc.GrievanceByID(id)
		if g == nil {
			return ErrGrievanceNotFound
		}
		if g.Status == models.GrievanceResolved {
			return ErrGrievanceResolved
		}
		now := time.Now().UTC()
		g.Status = models.GrievanceResolved
		g.Resolution = resolution
		g.ResolvedAt = &now
		doc.AppendAudit(models.AuditUpdateGrievance, map[string]string{
			"grievance_id": id,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrGrievanceNotFound) || errors.Is(err, ErrGrievanceResolved) {
			return err
		}
		s.log.Error("Failed to resolve grievance", err, map[string]interface{}{
			"grievance_id": id,
		})
		return fmt.Errorf("failed to resolve grievance: %w", err)
	}

	s.log.Info("Grievance resolved", map[string]interface{}{
		"grievance_id": id,
	})
	return nil
}

func (s *grievanceService) ListGrievances() []models.GrievanceWithCitizen {
	out := []models.GrievanceWithCitizen{}
	s.repo.View(func(doc *models.Document) {
		for _, g := range doc.Grievances {
			out = append(out, models.GrievanceWithCitizen{
				Grievance:   g,
				CitizenName: doc.OwnerName(g.UserID),
			})
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

func (s *grievanceService) ListGrievancesByUser(userID string) []models.Grievance {
	out := []models.Grievance{}
	s.repo.View(func(doc *models.Document) {
		for _, g := range doc.Grievances {
			if g.UserID == userID {
				out = append(out, g)
			}
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}
