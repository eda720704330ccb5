package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/httpapi"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/rbac"
	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/utils"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, manager *auth.Manager, db *sql.DB) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		if err := utils.HealthCheck(c.Request.Context(), db, 2*time.Second); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)

	// Everything below requires a valid access token.
	protected := r.Group("")
	protected.Use(auth.Authenticate(manager))

	protected.GET("/auth/me", h.Me)

	v1 := protected.Group("/v1")

	// EVENTS: members read, tenant admins mutate.
	ev := v1.Group("/events")
	ev.Use(rbac.RequireTenant())
	ev.GET("", h.ListEvents)
	ev.GET("/:event_id", h.GetEvent)

	evAdmin := ev.Group("")
	evAdmin.Use(rbac.RequireTenantRole(rbac.RoleTenantAdmin))
	evAdmin.POST("", h.CreateEvent)
	evAdmin.POST("/:event_id/publish", h.PublishEvent)
	evAdmin.POST("/:event_id/close", h.CloseEvent)

	// PAYMENTS: staff record at the till, admins see everything.
	pay := v1.Group("/payments")
	pay.Use(rbac.RequireTenant())
	pay.Use(rbac.RequireAnyTenantRole(rbac.RoleTenantAdmin, rbac.RoleTenantStaff))
	pay.POST("", h.RecordPayment)
	pay.GET("", h.ListPayments)
	pay.GET("/:payment_id", h.GetPayment)

	// CATALOG: members read packages and prices, tenant admins manage.
	cat := v1.Group("/catalog")
	cat.Use(rbac.RequireTenant())
	cat.GET("/packages", h.ListPackages)
	cat.GET("/packages/:package_id/price", h.PackagePrice)

	catAdmin := cat.Group("")
	catAdmin.Use(rbac.RequireTenantRole(rbac.RoleTenantAdmin))
	catAdmin.POST("/packages", h.CreatePackage)
	catAdmin.POST("/packages/:package_id/deactivate", h.DeactivatePackage)
	catAdmin.POST("/offers", h.CreateOffer)

	// REPORTS: tenant admins only.
	rep := v1.Group("/reports")
	rep.Use(rbac.RequireTenant())
	rep.Use(rbac.RequireTenantRole(rbac.RoleTenantAdmin))
	rep.GET("/payments", h.PaymentsReport)
	rep.GET("/events", h.EventTakingsReport)
}
