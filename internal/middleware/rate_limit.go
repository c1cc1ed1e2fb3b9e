package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/noah-isme/gema-exam-api/internal/utils"
)

const (
	defaultRateLimit  = 10
	defaultRateWindow = time.Minute
)

// RateLimit caps requests per caller within window. Authenticated callers are keyed by id so a
// student cannot dodge the cap by changing networks; anonymous requests fall back to client IP.
func RateLimit(scope string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = defaultRateLimit
	}
	if window <= 0 {
		window = defaultRateWindow
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return scope + ":" + rateLimitSubject(c)
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.SendError(c, fiber.StatusTooManyRequests, "too many requests, retry later")
		},
	})
}

func rateLimitSubject(c *fiber.Ctx) string {
	if id, ok := CallerID(c); ok {
		return "caller:" + strconv.FormatUint(uint64(id), 10)
	}
	return "ip:" + c.IP()
}
