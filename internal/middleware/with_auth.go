package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/gema-exam-api/internal/utils"
)

// Auth role constants used by WithAuth helper. AuthRoleStaff admits admins and teachers.
const (
	AuthRoleAny     = "any"
	AuthRoleStaff   = "staff"
	AuthRoleStudent = "student"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth wraps a handler with basic authentication/authorization guards.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	role := normalizeRole(opts.Role)
	if role == "" {
		role = AuthRoleAny
	}

	requireUser := opts.RequireUser
	if !requireUser && role != AuthRoleAny {
		requireUser = true
	}

	return func(c *fiber.Ctx) error {
		_, authenticated := CallerID(c)
		if requireUser && !authenticated {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if role == AuthRoleAny {
			return handler(c)
		}

		currentRole := CallerRole(c)
		switch role {
		case AuthRoleStudent:
			if currentRole != "student" {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		case AuthRoleStaff:
			if !IsStaffRole(currentRole) {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		default:
			if currentRole != role {
				return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
			}
		}

		return handler(c)
	}
}

// IsStaffRole reports whether the role may read every student's submissions.
func IsStaffRole(role string) bool {
	switch normalizeRole(role) {
	case "admin", "teacher":
		return true
	default:
		return false
	}
}
