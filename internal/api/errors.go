package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/validation"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError maps a service error onto its HTTP status. Unknown errors are
// logged and reported as 500 without detail.
func respondError(c *gin.Context, err error) {
	var (
		fieldErrs validation.Errors
		ruleErr   *service.ValidationError
	)

	switch {
	case errors.As(err, &fieldErrs):
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field] = fe.Message
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: fieldErrs.Error(), Code: "invalid", Fields: fields})
	case errors.As(err, &ruleErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ruleErr.Message, Code: ruleErr.Rule})
	case errors.Is(err, service.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "not_authenticated"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "invalid_token"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "permission_denied"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "conflict"})
	default:
		_ = c.Error(err)
		logging.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"})
	}
}

// bindJSON decodes and validates the request body, answering 400 itself
// when that fails.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if translated := validation.Translate(err); errors.As(translated, new(validation.Errors)) {
			respondError(c, translated)
			return false
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "malformed request body", Code: "invalid_body"})
		return false
	}
	return true
}
