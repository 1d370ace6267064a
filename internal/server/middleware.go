package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wichananm65/nursery-shop-backend/internal/obs"
)

const requestIDHeader = "X-Request-Id"

// withRequestID reuses the caller's X-Request-Id or makes a new one, and
// echoes it on the response.
func withRequestID(c *fiber.Ctx) error {
	id := c.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Locals("request_id", id)
	c.Set(requestIDHeader, id)
	return c.Next()
}

func requestIDFromCtx(c *fiber.Ctx) string {
	id, _ := c.Locals("request_id").(string)
	return id
}

// withLogging writes one http_request line per request after the handler
// (and the error handler) ran.
func withLogging(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}
	obs.Logger.Info("http_request",
		"method", c.Method(),
		"path", c.Path(),
		"status", c.Response().StatusCode(),
		"latency_ms", float64(time.Since(start).Microseconds())/1000.0,
		"request_id", requestIDFromCtx(c),
	)
	return nil
}

// errorHandler renders framework errors (unknown route, bad method, panics)
// as JSON like the handlers do.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal Server Error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		msg = e.Message
	} else {
		obs.Logger.Error("unhandled_error", "path", c.Path(), "error", err, "request_id", requestIDFromCtx(c))
	}
	return c.Status(code).JSON(fiber.Map{"message": msg})
}
