package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/scicatalog/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// errorStatus maps a service error to an HTTP status and an error kind.
// Order matters: the more specific sentinels wrap the generic ones.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidTerm):
		return http.StatusUnprocessableEntity, "invalid_term"
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, common.ErrDuplicateUser):
		return http.StatusConflict, "duplicate_user"
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired"
	case errors.Is(err, common.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// abortWithError writes the error body and stops the handler chain.
// Internal errors are logged and hidden from the client.
func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status, kind := errorStatus(err)
	detail := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", c.GetString(requestIDKey), "error", err)
		detail = "internal server error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: kind, Detail: detail})
}

// bindingError classifies a gin binding failure. A rejected vocabulary
// value keeps its own kind so clients can tell it from malformed input.
func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == termTag {
				return fmt.Errorf("%w: field %s: %v", common.ErrInvalidTerm, fe.Field(), fe.Value())
			}
		}
	}
	return fmt.Errorf("%w: %v", common.ErrValidation, err)
}
