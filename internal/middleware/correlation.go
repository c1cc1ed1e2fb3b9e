package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	headerCorrelationID = "X-Correlation-ID"
	headerRequestID     = "X-Request-ID"
	localCorrelationID  = "correlation_id"
)

type correlationKey struct{}

// CorrelationID tags each request with an id taken from X-Correlation-ID, then X-Request-ID,
// or freshly generated. The id is echoed back and travels in the request's user context so
// service logs for one submission can be joined with its access log line.
func CorrelationID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := firstNonBlank(c.Get(headerCorrelationID), c.Get(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}

		c.Locals(localCorrelationID, id)
		c.Set(headerCorrelationID, id)
		c.SetUserContext(context.WithValue(c.UserContext(), correlationKey{}, id))

		return c.Next()
	}
}

// CorrelationIDFromContext returns the id stored by CorrelationID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}

// GetCorrelationID returns the correlation id of the active request.
func GetCorrelationID(c *fiber.Ctx) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Locals(localCorrelationID).(string); ok {
		return id
	}
	return CorrelationIDFromContext(c.UserContext())
}

func firstNonBlank(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
