package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/civitas/api/internal/middleware"
	"github.com/stwalsh4118/civitas/api/internal/models"
	"github.com/stwalsh4118/civitas/api/internal/token"
)

// RouterDeps bundles everything route registration needs.
type RouterDeps struct {
	Tokens   *token.Manager
	Denylist *token.Denylist

	Health        *HealthHandler
	Auth          *AuthHandler
	Properties    *PropertyHandler
	Taxes         *TaxHandler
	Payments      *PaymentHandler
	Finance       *FinanceHandler
	Grievances    *GrievanceHandler
	Audit         *AuditHandler
	Notifications *NotificationHandler
}

// RegisterRoutes wires all API routes onto the router. The role gates
// mirror the portal's dashboards: any authenticated user is a citizen at
// minimum, staff endpoints admit staff and admin, admin endpoints admit
// admin only.
func RegisterRoutes(router *gin.Engine, d RouterDeps) {
	router.GET("/health", d.Health.Health)
	router.GET("/health/ready", d.Health.Ready)

	v1 := router.Group("/api/v1")
	v1.GET("/info", d.Health.Info)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", d.Auth.Register)
		auth.POST("/login", d.Auth.Login)
	}

	authed := v1.Group("")
	authed.Use(middleware.Auth(d.Tokens, d.Denylist))
	staffOnly := middleware.RequireRole(models.RoleStaff, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	authed.POST("/auth/logout", d.Auth.Logout)
	authed.GET("/notifications", d.Notifications.List)

	properties := authed.Group("/properties")
	{
		properties.GET("", staffOnly, d.Properties.List)
		properties.GET("/mine", d.Properties.ListMine)
		properties.GET("/:id", d.Properties.Get)
		properties.POST("", d.Properties.Add)
		properties.PATCH("/:id", staffOnly, d.Properties.Update)
	}

	taxes := authed.Group("/taxes")
	{
		taxes.POST("/assess", staffOnly, d.Taxes.AssessYear)
		taxes.GET("", staffOnly, d.Taxes.List)
		taxes.GET("/mine", d.Taxes.ListMine)
	}

	payments := authed.Group("/payments")
	{
		payments.POST("", d.Payments.Pay)
		payments.GET("", staffOnly, d.Payments.List)
		payments.GET("/mine", d.Payments.ListMine)
		payments.GET("/:id/receipt", d.Payments.Receipt)
	}

	finance := authed.Group("/finance")
	{
		finance.GET("/summary", staffOnly, d.Finance.Summary)
		finance.GET("/transactions", staffOnly, d.Finance.Transactions)
		finance.GET("/monthly", staffOnly, d.Finance.Monthly)
		finance.POST("/expenses", adminOnly, d.Finance.RecordExpense)
	}

	grievances := authed.Group("/grievances")
	{
		grievances.POST("", d.Grievances.Submit)
		grievances.GET("", staffOnly, d.Grievances.List)
		grievances.GET("/mine", d.Grievances.ListMine)
		grievances.PATCH("/:id/progress", staffOnly, d.Grievances.MarkInProgress)
		grievances.PATCH("/:id/resolve", staffOnly, d.Grievances.Resolve)
	}

	authed.GET("/audit", adminOnly, d.Audit.List)
}
