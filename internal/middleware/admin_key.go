package middleware

import (
	"fenix-certificates/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// RequireAdminKey checks X-Admin-Key against a bcrypt hash. An empty hash
// disables the check. OPTIONS requests pass through.
func RequireAdminKey(hash string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if hash == "" || c.Method() == fiber.MethodOptions {
			return c.Next()
		}
		key := c.Get(AdminKeyHeader)
		if key == "" {
			return response.Unauthorized(c, "Unauthorized")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)); err != nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// HashAdminKey returns the value to put in ADMIN_KEY_HASH for key.
func HashAdminKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
