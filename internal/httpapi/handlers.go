package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/audit"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/catalog"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/events"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/identity"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/reporting"
	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Identity *identity.Service
	Events   *events.Service
	Payments *payments.Service
	Catalog  *catalog.Service
	Reports  *reporting.Service
	Audit    *audit.Service

	// Throttle is optional; nil disables login rate limiting.
	Throttle *LoginThrottle

	// Debug echoes internal error detail in 500 bodies. Local use only.
	Debug bool
}

// --- Auth ---

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TenantID string `json:"tenantId,omitempty"`
}

type loginResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	User         identity.User    `json:"user"`
	Tenant       *identity.Tenant `json:"tenant,omitempty"`
	TenantRole   string           `json:"tenantRole,omitempty"`
}

// Login authenticates credentials and returns a token pair. The tenant
// field is present only when the resolver found a usable membership.
func (h Handlers) Login(c *gin.Context) {
	if h.Identity == nil {
		abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "identity not configured")
		return
	}
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "email and password are required")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	ip := c.ClientIP()

	// The throttle fails open: an unreachable Redis must not lock
	// everyone out.
	ok, err := h.Throttle.Allow(c.Request.Context(), email, ip)
	if err != nil {
		logger.FromGin(c).Warn("login throttle unavailable", "err", err)
	} else if !ok {
		abortError(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many login attempts")
		return
	}

	res, err := h.Identity.Login(c.Request.Context(), req.Email, req.Password, req.TenantID)
	if err != nil {
		if h.Audit != nil {
			if aerr := h.Audit.LogLogin(c.Request.Context(), false, "", email, req.TenantID, ip); aerr != nil {
				logger.FromGin(c).Warn("audit append failed", "err", aerr)
			}
		}
		h.respondError(c, err)
		return
	}

	if rerr := h.Throttle.Reset(c.Request.Context(), email, ip); rerr != nil {
		logger.FromGin(c).Warn("login throttle reset failed", "err", rerr)
	}

	out := loginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
		Tenant:       res.Tenant,
		TenantRole:   res.TenantRole,
	}
	if h.Audit != nil {
		tid := ""
		if res.Tenant != nil {
			tid = res.Tenant.ID
		}
		if aerr := h.Audit.LogLogin(c.Request.Context(), true, res.User.ID, res.User.Email, tid, ip); aerr != nil {
			logger.FromGin(c).Warn("audit append failed", "err", aerr)
		}
	}
	c.JSON(http.StatusOK, out)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a refresh token for a new access token. Tenant
// context is re-resolved from current membership state; no new refresh
// token is issued.
func (h Handlers) Refresh(c *gin.Context) {
	if h.Identity == nil {
		abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "identity not configured")
		return
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if req.RefreshToken == "" {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "refreshToken is required")
		return
	}

	res, err := h.Identity.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if h.Audit != nil {
			if aerr := h.Audit.LogRefresh(c.Request.Context(), false, "", "", c.ClientIP()); aerr != nil {
				logger.FromGin(c).Warn("audit append failed", "err", aerr)
			}
		}
		h.respondError(c, err)
		return
	}

	if h.Audit != nil {
		tid := ""
		if res.Tenant != nil {
			tid = res.Tenant.ID
		}
		if aerr := h.Audit.LogRefresh(c.Request.Context(), true, res.UserID, tid, c.ClientIP()); aerr != nil {
			logger.FromGin(c).Warn("audit append failed", "err", aerr)
		}
	}
	c.JSON(http.StatusOK, gin.H{"accessToken": res.AccessToken})
}

type meResponse struct {
	User        identity.User             `json:"user"`
	Memberships []identity.MembershipInfo `json:"memberships"`
	TenantID    string                    `json:"tenantId,omitempty"`
	TenantRole  string                    `json:"tenantRole,omitempty"`
}

// Me returns the caller's profile plus the full membership list. The
// tenantId/tenantRole fields echo the session carried by the token.
func (h Handlers) Me(c *gin.Context) {
	if h.Identity == nil {
		abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "identity not configured")
		return
	}
	ac, ok := auth.FromGin(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "TOKEN_MISSING", "authentication required")
		return
	}

	u, memberships, err := h.Identity.Profile(c.Request.Context(), ac.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meResponse{
		User:        u,
		Memberships: memberships,
		TenantID:    ac.TenantID,
		TenantRole:  ac.TenantRole,
	})
}

// --- Events ---

func (h Handlers) CreateEvent(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	var req events.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	e, err := h.Events.Create(c.Request.Context(), ac.TenantID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h Handlers) ListEvents(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	list, err := h.Events.List(c.Request.Context(), ac.TenantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": list})
}

func (h Handlers) GetEvent(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	e, err := h.Events.Get(c.Request.Context(), ac.TenantID, c.Param("event_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h Handlers) PublishEvent(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	e, err := h.Events.Publish(c.Request.Context(), ac.TenantID, c.Param("event_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.Audit != nil {
		if aerr := h.Audit.LogAdminAction(c.Request.Context(), ac.TenantID, ac.UserID, ac.Email, c.ClientIP(), "event published", e.ID); aerr != nil {
			logger.FromGin(c).Warn("audit append failed", "err", aerr)
		}
	}
	c.JSON(http.StatusOK, e)
}

func (h Handlers) CloseEvent(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	e, err := h.Events.Close(c.Request.Context(), ac.TenantID, c.Param("event_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.Audit != nil {
		if aerr := h.Audit.LogAdminAction(c.Request.Context(), ac.TenantID, ac.UserID, ac.Email, c.ClientIP(), "event closed", e.ID); aerr != nil {
			logger.FromGin(c).Warn("audit append failed", "err", aerr)
		}
	}
	c.JSON(http.StatusOK, e)
}

// --- Payments ---

func (h Handlers) RecordPayment(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	var req payments.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	p, err := h.Payments.Record(c.Request.Context(), ac.TenantID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h Handlers) ListPayments(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	from, ok := timeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(c, "to")
	if !ok {
		return
	}
	list, err := h.Payments.List(c.Request.Context(), ac.TenantID, payments.ListFilter{
		EventID: c.Query("eventId"),
		Method:  payments.Method(c.Query("method")),
		From:    from,
		To:      to,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": list})
}

func (h Handlers) GetPayment(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	p, err := h.Payments.Get(c.Request.Context(), ac.TenantID, c.Param("payment_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- Catalog ---

func (h Handlers) CreatePackage(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	var req catalog.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	p, err := h.Catalog.CreatePackage(c.Request.Context(), ac.TenantID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h Handlers) ListPackages(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	list, err := h.Catalog.ListPackages(c.Request.Context(), ac.TenantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": list})
}

func (h Handlers) DeactivatePackage(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	p, err := h.Catalog.DeactivatePackage(c.Request.Context(), ac.TenantID, c.Param("package_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if h.Audit != nil {
		if aerr := h.Audit.LogAdminAction(c.Request.Context(), ac.TenantID, ac.UserID, ac.Email, c.ClientIP(), "package deactivated", p.ID); aerr != nil {
			logger.FromGin(c).Warn("audit append failed", "err", aerr)
		}
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) CreateOffer(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	var req catalog.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	o, err := h.Catalog.CreateOffer(c.Request.Context(), ac.TenantID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// PackagePrice resolves the effective price of a package, applying the
// best covering offer. Optional ?at= takes RFC3339; default is now.
func (h Handlers) PackagePrice(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	at, ok := timeQuery(c, "at")
	if !ok {
		return
	}
	ep, err := h.Catalog.ResolvePrice(c.Request.Context(), ac.TenantID, c.Param("package_id"), at)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ep)
}

// --- Reports ---

func (h Handlers) PaymentsReport(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	from, ok := timeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(c, "to")
	if !ok {
		return
	}
	out, err := h.Reports.PaymentsSummary(c.Request.Context(), reporting.PaymentsSummaryRequest{
		TenantID: ac.TenantID,
		EventID:  c.Query("eventId"),
		Range:    reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) EventTakingsReport(c *gin.Context) {
	ac, ok := tenantContext(c)
	if !ok {
		return
	}
	from, ok := timeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(c, "to")
	if !ok {
		return
	}
	out, err := h.Reports.EventTakings(c.Request.Context(), reporting.EventTakingsRequest{
		TenantID: ac.TenantID,
		Range:    reporting.TimeRange{From: from, To: to},
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// --- helpers ---

// tenantContext pulls the authorization snapshot and requires a tenant.
// The guard chain normally enforces this already; handlers still refuse
// to run without it.
func tenantContext(c *gin.Context) (auth.Context, bool) {
	ac, ok := auth.FromGin(c)
	if !ok {
		abortError(c, http.StatusUnauthorized, "TOKEN_MISSING", "authentication required")
		return auth.Context{}, false
	}
	if !ac.HasTenant() {
		abortError(c, http.StatusForbidden, "TENANT_CONTEXT_REQUIRED", "tenant context required")
		return auth.Context{}, false
	}
	return ac, true
}

// timeQuery parses an optional RFC3339 query parameter. Absent means
// the zero time.
func timeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", name+" must be RFC3339")
		return time.Time{}, false
	}
	return t, true
}
