package middleware

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

// Tracing opens a server span per request using the globally registered
// tracer provider. Register it before Context so downstream middleware and
// handlers see the span in the request context.
func Tracing(serviceName string) echo.MiddlewareFunc {
	return otelecho.Middleware(serviceName)
}
