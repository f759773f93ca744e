package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/notefuse/internal/core/domain"
	"github.com/custodia-labs/notefuse/internal/logger"
)

// Error is the JSON body of a failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
}

// Error implements the error interface.
func (e Error) Error() string {
	return e.Message
}

// NewError creates an API error with the given status code.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// ValidationError lists the request fields that failed validation.
type ValidationError struct {
	Status int               `json:"status"`
	Errors map[string]string `json:"errors"`
}

func (e ValidationError) Error() string {
	return "validation failed"
}

// NewValidationError creates a 422 validation error.
func NewValidationError(errs map[string]string) ValidationError {
	return ValidationError{
		Status: fiber.StatusUnprocessableEntity,
		Errors: errs,
	}
}

// ErrBadRequest is returned for bodies that are not valid JSON.
func ErrBadRequest() Error {
	return NewError(fiber.StatusBadRequest, "invalid JSON request")
}

// ErrorHandler renders every handler error as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(valErr.Status).JSON(valErr)
	}

	var apiErr Error
	if !errors.As(err, &apiErr) {
		apiErr = NewError(statusFor(err), err.Error())
	}
	if apiErr.Code >= fiber.StatusInternalServerError {
		logger.Warn("%s %s failed with %d: %s", c.Method(), c.Path(), apiErr.Code, apiErr.Message)
	}
	return c.Status(apiErr.Code).JSON(apiErr)
}

func statusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnsupportedType):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrDimensionMismatch),
		errors.Is(err, domain.ErrInvalidConfiguration):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, domain.ErrEmbeddingProvider),
		errors.Is(err, domain.ErrEmbeddingUnavailable),
		errors.Is(err, domain.ErrEmbeddingGenerationFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrNotImplemented):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusInternalServerError
	}
}
