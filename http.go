package auth

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

const genericServerError = "an unexpected server error occurred"

// PublicError is the response body for every failed request. It never
// carries stack traces or validator diagnostics.
type PublicError struct {
	Error    string            `json:"error"`
	TextCode string            `json:"text_code,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// PublicErrorFrom maps err to a status code and a client safe body
func PublicErrorFrom(err error) (int, PublicError) {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for name, fe := range fieldErrs {
			if fe != nil {
				fields[name] = fe.Error()
			}
		}
		return http.StatusBadRequest, PublicError{
			Error:    "validation failed",
			TextCode: "VALIDATION_ERROR",
			Fields:   fields,
		}
	}

	// deactivated accounts look like any other failed login to the caller
	if errors.Is(err, ErrAccountNotActivated) {
		return ErrInvalidCredentials.Code, PublicError{
			Error:    ErrInvalidCredentials.Message,
			TextCode: ErrInvalidCredentials.TextCode,
		}
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		status := richErr.Code
		if status == 0 {
			status = statusFromCategory(richErr)
		}
		if status >= http.StatusInternalServerError {
			return status, PublicError{Error: genericServerError}
		}
		return status, PublicError{
			Error:    richErr.Message,
			TextCode: richErr.TextCode,
		}
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		if fiberErr.Code >= http.StatusInternalServerError {
			return fiberErr.Code, PublicError{Error: genericServerError}
		}
		return fiberErr.Code, PublicError{Error: fiberErr.Message}
	}

	return http.StatusInternalServerError, PublicError{Error: genericServerError}
}

func statusFromCategory(richErr *errors.Error) int {
	switch richErr.Category {
	case errors.CategoryAuth:
		return http.StatusUnauthorized
	case errors.CategoryAuthz:
		return http.StatusForbidden
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryConflict:
		return http.StatusConflict
	case errors.CategoryValidation, errors.CategoryBadInput:
		return http.StatusBadRequest
	case errors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as a PublicError response
func WriteError(c *fiber.Ctx, err error) error {
	status, body := PublicErrorFrom(err)
	return c.Status(status).JSON(body)
}

// ErrorHandler returns a fiber error handler. Server side failures are
// logged with their metadata, client failures at debug level.
func ErrorHandler(logger Logger) fiber.ErrorHandler {
	logger = normalizeLogger(logger)
	return func(c *fiber.Ctx, err error) error {
		status, _ := PublicErrorFrom(err)

		if status >= http.StatusInternalServerError {
			var richErr *errors.Error
			details := "{}"
			if errors.As(err, &richErr) {
				details = print.MaybePrettyJSON(richErr.Metadata)
			}
			logger.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
				"details", details,
			)
		} else {
			logger.Debug("request rejected",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		return WriteError(c, err)
	}
}
