package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

// WithRecover converts handler panics into errors and reports them through
// the runtime package (log, span event, metric, error reporter).
func WithRecover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e any) {
			ctx := c.UserContext()
			runtime.HandlePanicValue(ctx, openhours.NewLoggerFromContext(ctx), e, "http", c.Method()+" "+c.Path())
		},
	})
}
