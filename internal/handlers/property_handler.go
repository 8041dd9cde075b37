package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/civitas/api/internal/errors"
	"github.com/stwalsh4118/civitas/api/internal/middleware"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/services"
)

// PropertyHandler handles property registration HTTP requests.
type PropertyHandler struct {
	service services.PropertyService
}

// NewPropertyHandler creates a new PropertyHandler instance.
func NewPropertyHandler(service services.PropertyService) *PropertyHandler {
	return &PropertyHandler{service: service}
}

// AddPropertyRequest is the body for POST /properties. OwnerID may only be
// set by staff; citizens always register properties for themselves.
type AddPropertyRequest struct {
	OwnerID   string  `json:"owner_id"`
	Address   string  `json:"address" binding:"required,min=5,max=200"`
	FloorArea float64 `json:"floor_area" binding:"required,gt=0"`
	Type      string  `json:"type" binding:"required,oneof=residential commercial industrial vacant"`
}

// UpdatePropertyRequest is the body for PATCH /properties/:id.
type UpdatePropertyRequest struct {
	Address   *string  `json:"address" binding:"omitempty,min=5,max=200"`
	FloorArea *float64 `json:"floor_area" binding:"omitempty,gt=0"`
	Type      *string  `json:"type" binding:"omitempty,oneof=residential commercial industrial vacant"`
}

// Add handles POST /api/v1/properties.
func (h *PropertyHandler) Add(c *gin.Context) {
	var req AddPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)

	ownerID := userID
	if req.OwnerID != "" && req.OwnerID != userID {
		if role != models.RoleStaff && role != models.RoleAdmin {
			apierrors.Forbidden(c, "Citizens may only register their own properties")
			return
		}
		ownerID = req.OwnerID
	}

	property, err := h.service.Add(c.Request.Context(), services.PropertyInput{
		OwnerID:   ownerID,
		Address:   req.Address,
		FloorArea: req.FloorArea,
		Type:      models.PropertyType(req.Type),
	})
	if err != nil {
		if errors.Is(err, services.ErrOwnerNotFound) {
			apierrors.NotFound(c, "Owner not found")
			return
		}
		if errors.Is(err, services.ErrInvalidProperty) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to add property", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// Update handles PATCH /api/v1/properties/:id.
func (h *PropertyHandler) Update(c *gin.Context) {
	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	update := services.PropertyUpdate{
		Address:   req.Address,
		FloorArea: req.FloorArea,
	}
	if req.Type != nil {
		t := models.PropertyType(*req.Type)
		update.Type = &t
	}

	property, err := h.service.Update(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		if errors.Is(err, services.ErrInvalidProperty) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to update property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Get handles GET /api/v1/properties/:id. Citizens may only view their own
// properties.
func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.service.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPropertyNotFound) {
			apierrors.NotFound(c, "Property not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch property", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	if role == models.RoleCitizen && property.OwnerID != userID {
		apierrors.Forbidden(c, "Not your property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// List handles GET /api/v1/properties (staff view, all properties).
func (h *PropertyHandler) List(c *gin.Context) {
	properties := h.service.ListProperties()
	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}

// ListMine handles GET /api/v1/properties/mine (citizen view).
func (h *PropertyHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	properties := h.service.ListPropertiesByOwner(userID)
	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"count":      len(properties),
	})
}
