package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by JWTProtected.
const (
	localCallerID   = "user_id"
	localCallerRole = "user_role"
)

// CallerID returns the authenticated caller's id. The second result is false for anonymous
// requests and for tokens whose subject could not be read as a positive integer.
func CallerID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(localCallerID).(uint)
	if !ok || id == 0 {
		return 0, false
	}
	return id, true
}

// CallerRole returns the caller's lower-cased role, or "" when none was asserted.
func CallerRole(c *fiber.Ctx) string {
	role, _ := c.Locals(localCallerRole).(string)
	return strings.ToLower(strings.TrimSpace(role))
}

func setCaller(c *fiber.Ctx, id uint, role string) {
	if id != 0 {
		c.Locals(localCallerID, id)
	}
	if role != "" {
		c.Locals(localCallerRole, role)
	}
}
