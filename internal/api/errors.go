package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/apridachin/girya-storekeeper/internal/demand"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/service"
	"github.com/apridachin/girya-storekeeper/internal/task"
	"github.com/apridachin/girya-storekeeper/internal/warehouse"
	"github.com/go-playground/validator/v10"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var apiErr *warehouse.APIError
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, service.ErrMissingCredential):
		return http.StatusUnauthorized

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrEmptyProductGroupID),
		errors.Is(err, demand.ErrNoValidRows),
		errors.Is(err, demand.ErrNothingToImport),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, warehouse.ErrProductNotFound):
		return http.StatusNotFound

	// Runner saturated or shutting down
	case errors.Is(err, service.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	// Upstream warehouse failures
	case errors.As(err, &apiErr):
		return http.StatusBadGateway

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var apiErr *warehouse.APIError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrMissingCredential):
		return "Warehouse credential required"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrEmptyProductGroupID):
		return "Product group ID is required"

	case errors.Is(err, demand.ErrNoValidRows):
		return "No valid rows to import"

	case errors.Is(err, demand.ErrNothingToImport):
		return "No rows matched warehouse products"

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, warehouse.ErrProductNotFound):
		return "Product not found"

	case errors.Is(err, service.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return "Search capacity exhausted, try again later"

	case errors.As(err, &apiErr):
		if apiErr.IsAuth() {
			return "Warehouse rejected the credential"
		}
		return "Warehouse request failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte":
		return "must not be negative"
	case "dive":
		return "invalid item"
	default:
		return "validation failed"
	}
}
