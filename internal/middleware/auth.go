package middleware

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/happytweet/feedback-api/internal/auth"
	apperrors "github.com/happytweet/feedback-api/internal/errors"
)

// Context keys populated by Identity for downstream handlers.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWT validates the bearer token on protected routes. Any failure mode
// (missing header, malformed, expired, bad signature) surfaces as the same
// 401.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return apperrors.ErrInvalidToken
		},
	})
}

// Identity copies the verified token claims into plain context keys so
// handlers do not touch jwt types.
func Identity() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return apperrors.ErrInvalidToken
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return apperrors.ErrInvalidToken
			}
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c echo.Context) uint {
	id, _ := c.Get(ContextUserID).(uint)
	return id
}

// Role returns the authenticated user's role from the request context.
func Role(c echo.Context) string {
	role, _ := c.Get(ContextRole).(string)
	return role
}
