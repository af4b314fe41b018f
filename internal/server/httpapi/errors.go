// Package httpapi exposes the auth server over HTTP: routing, cookie
// handling, request validation, rate limiting, and the single place where
// engine errors become status codes and response bodies.
package httpapi

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mzaytsev/authd/internal/logging"
	"github.com/mzaytsev/authd/internal/shared"
)

func statusOf(k shared.Kind) int {
	switch k {
	case shared.KindValidation:
		return fiber.StatusBadRequest
	case shared.KindUnauthorized:
		return fiber.StatusUnauthorized
	case shared.KindForbidden:
		return fiber.StatusForbidden
	case shared.KindNotFound:
		return fiber.StatusNotFound
	case shared.KindTooManyRequests:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func titleOf(k shared.Kind) string {
	switch k {
	case shared.KindValidation:
		return "Validation Failed"
	case shared.KindUnauthorized:
		return "Unauthorized"
	case shared.KindForbidden:
		return "Forbidden"
	case shared.KindNotFound:
		return "Not Found"
	case shared.KindTooManyRequests:
		return "Too Many Requests"
	default:
		return "Server Error"
	}
}

// newErrorHandler returns the fiber error handler mapping *shared.Error to
// its {title, message} envelope. Outside production the body also carries a
// stackTrace field with the wrapped cause.
func newErrorHandler(production bool, logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		appErr := toAppError(err)

		if appErr.Kind == shared.KindInternal {
			logger.Error(context.Background(), "request failed",
				"method", c.Method(), "path", c.Path(), "error", err)
		}

		body := fiber.Map{
			"title":   titleOf(appErr.Kind),
			"message": appErr.Message,
		}
		if !production {
			if cause := appErr.Unwrap(); cause != nil {
				body["stackTrace"] = cause.Error()
			}
		}
		if appErr.RetryAfter > 0 {
			body["secondsRemaining"] = appErr.RetryAfter
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(appErr.RetryAfter))
		}

		return c.Status(statusOf(appErr.Kind)).JSON(body)
	}
}

func toAppError(err error) *shared.Error {
	var appErr *shared.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	// fiber raises *fiber.Error for unmatched routes and body-size limits.
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		switch fiberErr.Code {
		case fiber.StatusNotFound:
			return shared.NotFound("Resource not found")
		case fiber.StatusMethodNotAllowed:
			return shared.NotFound("Resource not found")
		default:
			if fiberErr.Code < 500 {
				return shared.Validation(fiberErr.Message)
			}
		}
	}

	return shared.Internal("Something went wrong", err)
}
