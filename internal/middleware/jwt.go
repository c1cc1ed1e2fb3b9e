package middleware

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/gema-exam-api/internal/utils"
)

var errInvalidSubject = errors.New("invalid subject")

// JWTProtected verifies HS256/384/512 bearer tokens issued by the identity service and exposes
// the caller through CallerID and CallerRole. Tokens are never minted here.
func JWTProtected(secret string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))

	return func(c *fiber.Ctx) error {
		raw, err := bearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return utils.SendError(c, fiber.StatusUnauthorized, err.Error())
		}

		claims := jwt.MapClaims{}
		token, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		setCaller(c, callerIDFromClaims(claims), callerRoleFromClaims(claims))
		return c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header missing")
	}
	const scheme = "bearer "
	if len(header) < len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", errors.New("invalid authorization header")
	}
	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", errors.New("invalid token")
	}
	return token, nil
}

// callerIDFromClaims reads the student or staff id from sub, user_id or id, in that order.
func callerIDFromClaims(claims jwt.MapClaims) uint {
	for _, key := range []string{"sub", "user_id", "id"} {
		value, ok := claims[key]
		if !ok {
			continue
		}
		if id, err := parseSubject(value); err == nil {
			return id
		}
	}
	return 0
}

func parseSubject(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v <= 0 || v != float64(uint64(v)) {
			return 0, errInvalidSubject
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil || parsed == 0 {
			return 0, errInvalidSubject
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("%w: unsupported type %T", errInvalidSubject, value)
	}
}

// callerRoleFromClaims accepts either a role string or the first non-empty entry of roles.
func callerRoleFromClaims(claims jwt.MapClaims) string {
	if role, ok := claims["role"].(string); ok {
		if normalized := normalizeRole(role); normalized != "" {
			return normalized
		}
	}
	if roles, ok := claims["roles"].([]interface{}); ok {
		for _, item := range roles {
			if role, ok := item.(string); ok {
				if normalized := normalizeRole(role); normalized != "" {
					return normalized
				}
			}
		}
	}
	return ""
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
