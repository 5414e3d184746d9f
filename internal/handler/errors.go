package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"funstar-catalog/internal/models"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// MessageResponse is returned by operations with no resource to echo.
type MessageResponse struct {
	Message string `json:"message"`
}

// Error messages are part of the API contract; clients match on them.
const (
	msgNotFound         = "Movie not found"
	msgMissingFields    = "Missing required fields"
	msgQueryRequired    = "Search query is required"
	msgMethodNotAllowed = "Method not allowed"
	msgInvalidBody      = "Invalid request body"
	msgInternal         = "Internal server error"
	msgDeleted          = "Movie deleted successfully"
)

// NewConfig returns the fiber configuration the catalog runs with. Immutable
// makes Params and Query return copies, since ids from the path end up as
// keys in the memory stores and outlive the request buffer.
func NewConfig(appName string) fiber.Config {
	return fiber.Config{
		AppName:      appName,
		ServerHeader: "Catalog-Service",
		ErrorHandler: ErrorHandler,
		Immutable:    true,
	}
}

// ErrorHandler converts errors that escape handlers into the JSON error shape.
// Server-side detail is logged, never returned.
func ErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := msgInternal

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusMethodNotAllowed:
			msg = msgMethodNotAllowed
		case fiber.StatusNotFound:
			msg = "Not found"
		default:
			if code < fiber.StatusInternalServerError {
				msg = fe.Message
			}
		}
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled error", "error", err, "status", code, "path", c.Path())
	}
	return c.Status(code).JSON(ErrorResponse{Error: msg})
}

// MethodNotAllowed answers verbs a route does not support.
func MethodNotAllowed(c fiber.Ctx) error {
	return c.Status(fiber.StatusMethodNotAllowed).JSON(ErrorResponse{Error: msgMethodNotAllowed})
}

// serviceError maps service errors onto HTTP responses. Unknown errors are
// logged with op and reported generically.
func serviceError(c fiber.Ctx, op string, err error) error {
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: msgNotFound})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgMissingFields, Fields: verr.Fields})
	case errors.Is(err, models.ErrMissingFields):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgMissingFields})
	case errors.Is(err, models.ErrQueryRequired):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgQueryRequired})
	default:
		slog.Error(op+" failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgInternal})
	}
}
