package middleware

import "github.com/labstack/echo/v4"

// Context keys set by the middleware chain.
const (
	ContextKeyOperator  = "operator"
	ContextKeyRole      = "role"
	ContextKeyRequestID = "request_id"
)

// OperatorFromContext returns the authenticated operator email, if any.
func OperatorFromContext(c echo.Context) string {
	v, _ := c.Get(ContextKeyOperator).(string)
	return v
}

func deny(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}
