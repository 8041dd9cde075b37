package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/civitas/api/internal/services"
)

// AuditHandler handles audit log HTTP requests.
type AuditHandler struct {
	service services.AuditService
}

// NewAuditHandler creates a new AuditHandler instance.
func NewAuditHandler(service services.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /api/v1/audit with optional ?action= and ?q= filters.
func (h *AuditHandler) List(c *gin.Context) {
	entries := h.service.ListEntries(services.AuditFilter{
		Action: c.Query("action"),
		Query:  c.Query("q"),
	})
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"count":   len(entries),
	})
}
