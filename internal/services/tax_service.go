package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

// Tax rates per square foot of floor area, by property type.
const (
	RateResidential = 1.2
	RateCommercial  = 3.0
	RateIndustrial  = 5.0
	RateVacant      = 0.5
	RateDefault     = 1.0

	// WaterTaxBase is the flat water charge for any non-vacant property.
	WaterTaxBase int64 = 500

	// PenaltyRate is applied to (property tax + water tax) when assessing
	// after the due date.
	PenaltyRate = 0.10
)

// Service-level errors shared across the tax, payment, finance, grievance
// and property services.
var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrAlreadyPaid        = errors.New("assessment already paid")
	ErrInvalidYear        = errors.New("assessment year out of range")
)

// TaxService defines tax assessment business logic.
type TaxService interface {
	// AssessYear creates an assessment for every property that does not
	// have one for the given year and returns how many were created.
	// Idempotent per (property, year): a second call creates none.
	AssessYear(ctx context.Context, year int) (int, error)

	// ListAssessments returns all assessments denormalized with property
	// address and owner name, sorted by year descending.
	ListAssessments() []models.AssessmentWithProperty

	// ListAssessmentsByUser returns the assessments for properties owned by
	// the given user, sorted by year descending.
	ListAssessmentsByUser(userID string) []models.AssessmentWithProperty
}

// rateForType returns the tax rate for a property type; unknown types fall
// back to the default rate.
func rateForType(t models.PropertyType) float64 {
	switch t {
	case models.PropertyResidential:
		return RateResidential
	case models.PropertyCommercial:
		return RateCommercial
	case models.PropertyIndustrial:
		return RateIndustrial
	case models.PropertyVacant:
		return RateVacant
	default:
		return RateDefault
	}
}

// CalculateAssessment computes the tax line-item for one property and year.
// The penalty is decided once, here: it applies only when now is already
// past December 31 of the assessment year, and is never re-evaluated later.
// An assessment created before its due date is not retroactively penalized
// even if it is paid late.
func CalculateAssessment(p models.Property, year int, now time.Time) models.TaxAssessment {
	propertyTax := int64(math.Round(p.FloorArea * rateForType(p.Type)))

	var waterTax int64
	if p.Type != models.PropertyVacant {
		waterTax = WaterTaxBase
	}

	dueDate := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)

	var penalty int64
	if now.After(dueDate) {
		penalty = int64(math.Round(float64(propertyTax+waterTax) * PenaltyRate))
	}

	return models.TaxAssessment{
		ID:          uuid.NewString(),
		PropertyID:  p.ID,
		Year:        year,
		PropertyTax: propertyTax,
		WaterTax:    waterTax,
		Penalty:     penalty,
		Total:       propertyTax + waterTax + penalty,
		Status:      models.AssessmentUnpaid,
		DueDate:     dueDate,
		CreatedAt:   now.UTC(),
	}
}

type taxService struct {
	repo *repository.Repository
	log  *logger.Logger
	now  func() time.Time
}

// NewTaxService creates a new instance of TaxService.
func NewTaxService(repo *repository.Repository, log *logger.Logger) TaxService {
	return &taxService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// AssessYear runs the batch assessment. The scan, the inserts and the audit
// entries all happen inside one repository update, so a partially assessed
// year is never flushed.
func (s *taxService) AssessYear(ctx context.Context, year int) (int, error) {
	if year < 1900 || year > 3000 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidYear, year)
	}

	now := s.now()
	created := 0
	err := s.repo.Update(ctx, func(doc *models.Document) error {
		for _, p := range doc.Properties {
			if doc.TaxFor(p.ID, year) != nil {
				continue
			}
			assessment := CalculateAssessment(p, year, now)
			doc.Taxes = append(doc.Taxes, assessment)
			doc.AppendAudit(models.AuditAssessTax, map[string]string{
				"tax_id":      assessment.ID,
				"property_id": p.ID,
			})
			created++
		}
		return nil
	})
	if err != nil {
		s.log.Error("Failed to assess year", err, map[string]interface{}{
			"year": year,
		})
		return 0, fmt.Errorf("failed to assess year %d: %w", year, err)
	}

	s.log.Info("Year assessed", map[string]interface{}{
		"year":    year,
		"created": created,
	})
	return created, nil
}

// ListAssessments returns every assessment with its property address and
// owner name attached, newest assessment years first.
func (s *taxService) ListAssessments() []models.AssessmentWithProperty {
	var out []models.AssessmentWithProperty
	s.repo.View(func(doc *models.Document) {
		out = make([]models.AssessmentWithProperty, 0, len(doc.Taxes))
		for _, t := range doc.Taxes {
			item := models.AssessmentWithProperty{TaxAssessment: t, Address: "Unknown"}
			if p := doc.PropertyByID(t.PropertyID); p != nil {
				item.Address = p.Address
				item.OwnerName = doc.OwnerName(p.OwnerID)
			}
			out = append(out, item)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// ListAssessmentsByUser returns the assessments for the user's properties,
// newest assessment years first.
func (s *taxService) ListAssessmentsByUser(userID string) []models.AssessmentWithProperty {
	out := []models.AssessmentWithProperty{}
	s.repo.View(func(doc *models.Document) {
		owned := doc.PropertyIDsOwnedBy(userID)
		for _, t := range doc.Taxes {
			if !owned[t.PropertyID] {
				continue
			}
			item := models.AssessmentWithProperty{TaxAssessment: t, Address: "Unknown"}
			if p := doc.PropertyByID(t.PropertyID); p != nil {
				item.Address = p.Address
			}
			out = append(out, item)
		}
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}
