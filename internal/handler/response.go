package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	apperrors "github.com/happytweet/feedback-api/internal/errors"
)

// Envelope is the canonical response shape for every endpoint.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// respond writes a success envelope.
func respond(c echo.Context, code int, message string, data interface{}) error {
	return c.JSON(code, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// paramUint parses a positive integer path parameter.
func paramUint(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperrors.NewValidation("Invalid " + name)
	}
	return uint(v), nil
}

// queryInt parses an integer query parameter, falling back to def when
// absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
