package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// writeError maps a service error onto its HTTP status and envelope
func writeError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var conflict *service.ConflictError

	switch {
	case errors.As(err, &vErr):
		details := make([]utils.FieldError, 0, len(vErr.Violations))
		for _, v := range vErr.Violations {
			details = append(details, utils.FieldError{Field: v.Field, Message: v.Message})
		}
		utils.ValidationErrorResponse(c, "Validation failed", details)
	case errors.As(err, &conflict):
		utils.ErrorResponse(c, http.StatusBadRequest, conflict.Error())
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		c.Header("WWW-Authenticate", "Bearer")
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountInactive):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		utils.ErrorResponse(c, http.StatusServiceUnavailable, err.Error())
	default:
		utils.ErrorResponse(c, http.StatusInternalServerError, service.ErrInternal.Error())
	}
}

// writeBindError reports a request that could not be decoded or bound
func writeBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make([]utils.FieldError, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			details = append(details, utils.FieldError{Field: lowerFirst(fe.Field()), Message: "is required"})
		}
		utils.ValidationErrorResponse(c, "Validation failed", details)
		return
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		utils.ValidationErrorResponse(c, "Validation failed", []utils.FieldError{
			{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()},
		})
		return
	}
	utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request: "+err.Error())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
