package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"funstar-catalog/internal/auth"
)

type userKey struct{}

// Authenticate identifies the caller and stores the result for CurrentUser.
// It never rejects a request; an invalid credential is treated as anonymous.
func Authenticate(a auth.Authenticator) fiber.Handler {
	return func(c fiber.Ctx) error {
		user, err := a.Identify(c.Context(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			slog.Debug("credential not accepted, continuing anonymously", "path", c.Path(), "error", err)
		}
		c.Locals(userKey{}, user)
		return c.Next()
	}
}

// CurrentUser returns the identity stored by Authenticate, or auth.Anonymous.
func CurrentUser(c fiber.Ctx) auth.User {
	if u, ok := c.Locals(userKey{}).(auth.User); ok {
		return u
	}
	return auth.Anonymous
}
