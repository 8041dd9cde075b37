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

// TaxHandler handles tax assessment HTTP requests.
type TaxHandler struct {
	service services.TaxService
}

// NewTaxHandler creates a new TaxHandler instance.
func NewTaxHandler(service services.TaxService) *TaxHandler {
	return &TaxHandler{service: service}
}

// AssessYearRequest is the body for POST /taxes/assess.
type AssessYearRequest struct {
	Year int `json:"year" binding:"required,min=1900,max=3000"`
}

// AssessYear handles POST /api/v1/taxes/assess. Creates assessments for
// every property that lacks one for the year; safe to call repeatedly.
func (h *TaxHandler) AssessYear(c *gin.Context) {
	var req AssessYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	created, err := h.service.AssessYear(c.Request.Context(), req.Year)
	if err != nil {
		if errors.Is(err, services.ErrInvalidYear) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to assess year", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":    req.Year,
		"created": created,
	})
}

// List handles GET /api/v1/taxes (staff view, all assessments).
func (h *TaxHandler) List(c *gin.Context) {
	taxes := h.service.ListAssessments()
	c.JSON(http.StatusOK, gin.H{
		"taxes": taxes,
		"count": len(taxes),
	})
}

// ListMine handles GET /api/v1/taxes/mine (citizen view).
func (h *TaxHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	taxes := h.service.ListAssessmentsByUser(userID)
	c.JSON(http.StatusOK, gin.H{
		"taxes": taxes,
		"count": len(taxes),
	})
}
