package middleware

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/happytweet/feedback-api/internal/errors"
)

// RBAC enforces role-based access control using the role set by Identity.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(ContextRole).(string)
			if _, ok := allowed[role]; !ok {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}
