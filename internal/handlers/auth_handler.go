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

// AuthHandler handles registration and session HTTP requests.
type AuthHandler struct {
	service services.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/v1/auth/register. Self-registration always
// creates a citizen account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	user, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			apierrors.Conflict(c, "Email is already registered")
			return
		}
		apierrors.InternalServerError(c, "Failed to register user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid request body", nil)
		return
	}

	session, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Invalid email or password")
			return
		}
		apierrors.InternalServerError(c, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// Logout handles POST /api/v1/auth/logout. Requires authentication.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		apierrors.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		apierrors.InternalServerError(c, "Failed to log out", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}
