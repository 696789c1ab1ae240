package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"backoffice/internal/auth"
	"backoffice/internal/catalog"
	"backoffice/internal/export"
	"backoffice/internal/ledger"
	"backoffice/internal/logging"
	"backoffice/internal/sales"
	"backoffice/internal/users"
)

// ok writes the success envelope.
func ok(c *gin.Context, status int, message string, data any) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

// fail writes the failure envelope and aborts the chain.
func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// failErr maps err onto a status code. Unexpected errors are logged and
// hidden behind a generic message.
func failErr(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed", zap.Error(err), zap.Int("status", status))
	}
	if status == http.StatusInternalServerError {
		fail(c, status, "internal server error")
		return
	}
	fail(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case isAny(err, sales.ErrProductNotFound, sales.ErrSaleNotFound,
		catalog.ErrNotFound, ledger.ErrNotFound, users.ErrNotFound):
		return http.StatusNotFound
	case isAny(err, sales.ErrInsufficientStock, sales.ErrInvalidQuantity, sales.ErrInvalidTotal,
		catalog.ErrNegativeStock, catalog.ErrNegativePrice, catalog.ErrInvalid, catalog.ErrNoChanges,
		ledger.ErrNoChanges, users.ErrInvalid, users.ErrNoChanges,
		export.ErrUnknownFormat, export.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrDuplicate):
		return http.StatusConflict
	case isAny(err, users.ErrInvalidCredentials, auth.ErrInvalidToken, auth.ErrRevoked):
		return http.StatusUnauthorized
	case errors.Is(err, sales.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryUint parses an optional positive integer query parameter; absent is 0.
func queryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(v), true
}

// queryInt parses an optional integer query parameter.
func queryInt(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return nil, false
	}
	return &v, true
}
