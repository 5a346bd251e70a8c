package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	// The same error covers unknown email and wrong password so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrAccountInactive is returned when a deactivated account logs in.
	ErrAccountInactive = errors.New("Account is inactive")
	// ErrUserExists is returned when email or username is already taken.
	ErrUserExists = errors.New("Email or username already registered")
	// ErrUserNotFound is returned when a user row is missing.
	ErrUserNotFound = errors.New("User not found")
	// ErrSuggestionNotFound is returned when a suggestion row is missing.
	ErrSuggestionNotFound = errors.New("Suggestion not found")
	// ErrNoteNotFound is returned when a developer note row is missing.
	ErrNoteNotFound = errors.New("Developer note not found")
	// ErrForbidden is returned on ownership or role violations.
	ErrForbidden = errors.New("Insufficient permissions")
	// ErrWrongPassword is returned when the old password check fails on a
	// password change.
	ErrWrongPassword = errors.New("Old password is incorrect")
	// ErrCannotDeleteAdmin is returned when an admin tries to delete
	// another admin's account.
	ErrCannotDeleteAdmin = errors.New("Cannot delete admin users")
	// ErrInvalidToken is returned for any malformed, expired, or badly
	// signed bearer token.
	ErrInvalidToken = errors.New("Invalid or expired token")
)

// ValidationError carries a user-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a validation error surfaced as 400 Bad Request.
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

// MapErrorToHTTP maps domain errors to an HTTP status and client message.
// Unknown errors map to a generic 500; the real cause is only logged.
func MapErrorToHTTP(err error) (int, string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrWrongPassword):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrForbidden),
		errors.Is(err, ErrCannotDeleteAdmin):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrSuggestionNotFound),
		errors.Is(err, ErrNoteNotFound):
		return http.StatusNotFound, err.Error()
	}

	return http.StatusInternalServerError, "Internal server error"
}
