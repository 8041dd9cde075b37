package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stwalsh4118/civitas/api/internal/logger"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/repository"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrOwnerNotFound    = errors.New("owner not found")
	ErrInvalidProperty  = errors.New("invalid property")
)

// PropertyInput carries the fields of a new property registration.
type PropertyInput struct {
	OwnerID   string
	Address   string
	FloorArea float64
	Type      models.PropertyType
}

// PropertyUpdate carries the mutable fields of a property. Nil fields are
// left unchanged; ownership and identity are immutable.
type PropertyUpdate struct {
	Address   *string
	FloorArea *float64
	Type      *models.PropertyType
}

// PropertyService defines property registration logic.
type PropertyService interface {
	// Add registers a property for an existing owner.
	Add(ctx context.Context, in PropertyInput) (*models.Property, error)

	// Update modifies a property's address, floor area or type.
	Update(ctx context.Context, id string, up PropertyUpdate) (*models.Property, error)

	// Get returns one property with the owner's name attached.
	Get(id string) (*models.PropertyWithOwner, error)

	// ListProperties returns all properties with owner names attached.
	ListProperties() []models.PropertyWithOwner

	// ListPropertiesByOwner returns the owner's properties.
	ListPropertiesByOwner(ownerID string) []models.PropertyWithOwner
}

type propertyService struct {
	repo *repository.Repository
	log  *logger.Logger
}

// NewPropertyService creates a new instance of PropertyService.
func NewPropertyService(repo *repository.Repository, log *logger.Logger) PropertyService {
	return &propertyService{
		repo: repo,
		log:  log,
	}
}

func (s *propertyService) Add(ctx context.Context, in PropertyInput) (*models.Property, error) {
	if in.FloorArea <= 0 {
		return nil, fmt.Errorf("%w: floor area must be positive", ErrInvalidProperty)
	}
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidProperty, in.Type)
	}

	property := models.Property{
		ID:        uuid.NewString(),
		OwnerID:   in.OwnerID,
		Address:   in.Address,
		FloorArea: in.FloorArea,
		Type:      in.Type,
		CreatedAt: time.Now().UTC(),
	}

	err := s.repo.Update(ctx, func(doc *models.Document) error {
		if doc.UserByID(in.OwnerID) == nil {
			return ErrOwnerNotFound
		}
		doc.Properties = append(doc.Properties, property)
		doc.AppendAudit(models.AuditAddProperty, map[string]string{
			"property_id": property.ID,
			"user_id":     in.OwnerID,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrOwnerNotFound) {
			return nil, err
		}
		s.log.Error("Failed to add property", err, map[string]interface{}{
			"owner_id": in.OwnerID,
		})
		return nil, fmt.Errorf("failed to add property: %w", err)
	}

	s.log.Info("Property added", map[string]interface{}{
		"property_id": property.ID,
		"type":        string(property.Type),
	})
	return &property, nil
}

func (s *propertyService) Update(ctx context.Context, id string, up PropertyUpdate) (*models.Property, error) {
	if up.FloorArea != nil && *up.FloorArea <= 0 {
		return nil, fmt.Errorf("%w: floor area must be positive", ErrInvalidProperty)
	}
	if up.Type != nil && !up.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidProperty, *up.Type)
	}

	var updated models.Property
	err := s.repo.Update(ctx, func(doc *models.Document) error {
		p := doc.PropertyByID(id)
		if p == nil {
			return ErrPropertyNotFound
		}
		if up.Address != nil {
			p.Address = *up.Address
		}
		if up.FloorArea != nil {
			p.FloorArea = *up.FloorArea
		}
		if up.Type != nil {
			p.Type = *up.Type
		}
		updated = *p
		doc.AppendAudit(models.AuditUpdateProperty, map[string]string{
			"property_id": id,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			return nil, err
		}
		s.log.Error("Failed to update property", err, map[string]interface{}{
			"property_id": id,
		})
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	return &updated, nil
}

func (s *propertyService) Get(id string) (*models.PropertyWithOwner, error) {
	var result *models.PropertyWithOwner
	s.repo.View(func(doc *models.Document) {
		if p := doc.PropertyByID(id); p != nil {
			result = &models.PropertyWithOwner{
				Property:  *p,
				OwnerName: doc.OwnerName(p.OwnerID),
			}
		}
	})
	if result == nil {
		return nil, ErrPropertyNotFound
	}
	return result, nil
}

func (s *propertyService) ListProperties() []models.PropertyWithOwner {
	out := []models.PropertyWithOwner{}
	s.repo.View(func(doc *models.Document) {
		for _, p := range doc.Properties {
			out = append(out, models.PropertyWithOwner{
				Property:  p,
				OwnerName: doc.OwnerName(p.OwnerID),
			})
		}
	})
	return out
}

func (s *propertyService) ListPropertiesByOwner(ownerID string) []models.PropertyWithOwner {
	out := []models.PropertyWithOwner{}
	s.repo.View(func(doc *models.Document) {
		for _, p := range doc.Properties {
			if p.OwnerID != ownerID {
				continue
			}
			out = append(out, models.PropertyWithOwner{
				Property:  p,
				OwnerName: doc.OwnerName(p.OwnerID),
			})
		}
	})
	return out
}
