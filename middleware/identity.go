package middleware

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

const userHeader = "X-User-ID"

// RequireIdentity extracts the caller's user id forwarded by the
// upstream auth layer. Authentication itself happens outside this
// service; requests reaching mutating routes must carry the header.
func RequireIdentity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(userHeader)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "You are not authorized!",
				"data":    nil,
			})
		}

		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid user identity",
				"data":    nil,
			})
		}

		c.Locals("userID", uint(id))
		return c.Next()
	}
}

// UserID returns the identity stored by RequireIdentity.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}
