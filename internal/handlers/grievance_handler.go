package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/civitas/api/internal/errors"
	"github.com/stwalsh4118/civitas/api/internal/middleware"
	"github.com/stwalsh4118/civitas/api/internal/services"
)

// GrievanceHandler handles grievance ticket HTTP requests.
type GrievanceHandler struct {
	service services.GrievanceService
}

// NewGrievanceHandler creates a new GrievanceHandler instance.
func NewGrievanceHandler(service services.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{service: service}
}

// SubmitGrievanceRequest is the body for POST /grievances.
type SubmitGrievanceRequest struct {
	Title       string `json:"title" binding:"required,min=3,max=120"`
	Category    string `json:"category" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"required,min=10,max=2000"`
}

// ResolveGrievanceRequest is the body for PATCH /grievances/:id/resolve.
type ResolveGrievanceRequest struct {
	Resolution string `json:"resolution" binding:"required,min=3,max=1000"`
}

// Submit handles POST /api/v1/grievances.
func (h *GrievanceHandler) Submit(c *gin.Context) {
	var req SubmitGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	userID, _ := middleware.GetUserID(c)
	grievance, err := h.service.Submit(c.Request.Context(), userID, services.GrievanceInput{
		Title:       req.Title,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrGrievanceUserGone) {
			apierrors.NotFound(c, "Submitting user not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to submit grievance", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"grievance": grievance})
}

// MarkInProgress handles PATCH /api/v1/grievances/:id/progress.
func (h *GrievanceHandler) MarkInProgress(c *gin.Context) {
	err := h.service.MarkInProgress(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrGrievanceNotFound) {
			apierrors.NotFound(c, "Grievance not found")
			return
		}
		if errors.Is(err, services.ErrInvalidTransition) {
			apierrors.Conflict(c, err.Error())
			return
		}
		apierrors.InternalServerError(c, "Failed to update grievance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "in-progress"})
}

// Resolve handles PATCH /api/v1/grievances/:id/resolve.
func (h *GrievanceHandler) Resolve(c *gin.Context) {
	var req ResolveGrievanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	err := h.service.Resolve(c.Request.Context(), c.Param("id"), req.Resolution)
	if err != nil {
		if errors.Is(err, services.ErrGrievanceNotFound) {
			apierrors.NotFound(c, "Grievance not found")
			return
		}
		if errors.Is(err, services.ErrGrievanceResolved) {
			apierrors.Conflict(c, "Grievance is already resolved")
			return
		}
		if errors.Is(err, services.ErrMissingResolution) {
			apierrors.BadRequest(c, "Resolution text is required", nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to resolve grievance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}

// List handles GET /api/v1/grievances (staff view, all tickets).
func (h *GrievanceHandler) List(c *gin.Context) {
	grievances := h.service.ListGrievances()
	c.JSON(http.StatusOK, gin.H{
		"grievances": grievances,
		"count":      len(grievances),
	})
}

// ListMine handles GET /api/v1/grievances/mine (citizen view).
func (h *GrievanceHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	grievances := h.service.ListGrievancesByUser(userID)
	c.JSON(http.StatusOK, gin.H{
		"grievances": grievances,
		"count":      len(grievances),
	})
}
