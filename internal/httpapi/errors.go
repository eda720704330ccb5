package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/auth"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/catalog"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/events"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/identity"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/payments"
	"github.com/jonoyanguren/smartcashlesshub-sub000/internal/reporting"
	"github.com/jonoyanguren/smartcashlesshub-sub000/pkg/logger"
)

// Error is the wire envelope every failure uses.
type Error struct {
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// respondError translates service failures into the transport envelope.
// Unclassified errors answer 500 with the detail withheld from the body
// unless debug mode is on; the detail still reaches the server log.
func (h Handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		abortError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		abortError(c, http.StatusUnauthorized, "INVALID_TOKEN", "invalid or expired token")
	case errors.Is(err, identity.ErrNotAuthorizedForTenant):
		abortError(c, http.StatusForbidden, "NOT_AUTHORIZED_FOR_TENANT", "no membership for the requested tenant")
	case errors.Is(err, identity.ErrTenantInactive):
		abortError(c, http.StatusForbidden, "TENANT_INACTIVE", "tenant is inactive")
	case errors.Is(err, identity.ErrUserNotFound):
		abortError(c, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
	case errors.Is(err, identity.ErrTenantNotFound):
		abortError(c, http.StatusNotFound, "TENANT_NOT_FOUND", "tenant not found")
	case errors.Is(err, events.ErrNotFound),
		errors.Is(err, payments.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound):
		abortError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, events.ErrInvalidStatus):
		abortError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, events.ErrInvalidArgument),
		errors.Is(err, payments.ErrInvalidArgument),
		errors.Is(err, catalog.ErrInvalidArgument),
		errors.Is(err, reporting.ErrInvalidRequest):
		abortError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		logger.FromGin(c).Error("request failed", "err", err)
		msg := "internal error"
		if h.Debug {
			msg = err.Error()
		}
		abortError(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
}

func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, Error{ErrorCode: code, Message: message})
}
