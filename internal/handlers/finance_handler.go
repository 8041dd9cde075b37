package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/civitas/api/internal/errors"
	"github.com/stwalsh4118/civitas/api/internal/services"
)

// FinanceHandler handles ledger HTTP requests.
type FinanceHandler struct {
	service services.FinanceService
}

// NewFinanceHandler creates a new FinanceHandler instance.
func NewFinanceHandler(service services.FinanceService) *FinanceHandler {
	return &FinanceHandler{service: service}
}

// RecordExpenseRequest is the body for POST /finance/expenses.
type RecordExpenseRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description" binding:"required,min=3,max=200"`
}

// Summary handles GET /api/v1/finance/summary.
func (h *FinanceHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Summary())
}

// Transactions handles GET /api/v1/finance/transactions.
func (h *FinanceHandler) Transactions(c *gin.Context) {
	transactions := h.service.ListTransactions()
	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// Monthly handles GET /api/v1/finance/monthly. The series is synthetic chart
// fodder derived from the running totals, not stored history.
func (h *FinanceHandler) Monthly(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"series": h.service.MonthlySeries()})
}

// RecordExpense handles POST /api/v1/finance/expenses.
func (h *FinanceHandler) RecordExpense(c *gin.Context) {
	var req RecordExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	tx, err := h.service.RecordExpense(c.Request.Context(), req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, services.ErrInvalidAmount) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		apierrors.InternalServerError(c, "Failed to record expense", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}
