package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"userdesk/internal/logging"
)

// Logger is a middleware that logs each HTTP request as one JSON line.
// Fields: request_id (from RequestID), method, path, status, latency (ms), ts.
func Logger(l *logging.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		l.Write(map[string]any{
			"request_id": RequestIDFromCtx(c),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"latency":    float64(time.Since(start).Microseconds()) / 1000,
		})

		return err
	}
}
