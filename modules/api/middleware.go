package api

import (
	"strings"

	"github.com/example/task-tracker/modules/session"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionContextKey is the key used to store the session in the Fiber context.
	SessionContextKey = "session"
)

// AuthMiddleware rejects requests without a token for the current session.
func AuthMiddleware(sessionPort session.SessionPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Authorization header is required",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid authorization header format. Use: Bearer <token>",
			})
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Token is required",
			})
		}

		sess, err := sessionPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired session token",
			})
		}

		c.Locals(SessionContextKey, sess)
		return c.Next()
	}
}
