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

// PaymentHandler handles payment HTTP requests.
type PaymentHandler struct {
	service services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler instance.
func NewPaymentHandler(service services.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// PayRequest is the body for POST /payments.
type PayRequest struct {
	TaxID  string `json:"tax_id" binding:"required"`
	Method string `json:"method" binding:"required,oneof=card upi bank"`
}

// Pay handles POST /api/v1/payments.
func (h *PaymentHandler) Pay(c *gin.Context) {
	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	payment, err := h.service.Pay(c.Request.Context(), req.TaxID, models.PaymentMethod(req.Method))
	if err != nil {
		if errors.Is(err, services.ErrAssessmentNotFound) {
			apierrors.NotFound(c, "Assessment not found")
			return
		}
		if errors.Is(err, services.ErrAlreadyPaid) {
			apierrors.Conflict(c, "Assessment is already paid")
			return
		}
		if errors.Is(err, services.ErrInvalidMethod) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to process payment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

// List handles GET /api/v1/payments (staff view, all payments).
func (h *PaymentHandler) List(c *gin.Context) {
	payments := h.service.ListPayments()
	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// ListMine handles GET /api/v1/payments/mine (citizen view).
func (h *PaymentHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	payments := h.service.ListPaymentsByUser(userID)
	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// Receipt handles GET /api/v1/payments/:id/receipt. Citizens may only view
// receipts for their own properties.
func (h *PaymentHandler) Receipt(c *gin.Context) {
	receipt, err := h.service.Receipt(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrPaymentNotFound) {
			apierrors.NotFound(c, "Payment not found")
			return
		}
		apierrors.InternalServerError(c, "Failed to fetch receipt", err)
		return
	}

	userID, _ := middleware.GetUserID(c)
	role, _ := middleware.GetUserRole(c)
	if role == models.RoleCitizen {
		owned := false
		for _, p := range h.service.ListPaymentsByUser(userID) {
			if p.ID == receipt.ID {
				owned = true
				break
			}
		}
		if !owned {
			apierrors.Forbidden(c, "Not your receipt")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}
