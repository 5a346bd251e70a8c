// Package validation holds the pure input checks shared by the auth,
// suggestion, and admin services. No I/O, no side effects.
package validation

import (
	"regexp"
	"strings"
)

const (
	// MinPasswordLength is the only password strength rule enforced
	// server-side.
	MinPasswordLength = 6
	// MaxTextLength caps every free-text field before storage.
	MaxTextLength = 1000
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
)

// ValidateEmail reports whether email has a local@domain.tld shape.
func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

// ValidateUsername reports whether username is 3-30 characters of
// alphanumerics, hyphens, and underscores.
func ValidateUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// ValidatePassword reports whether password meets the minimum length.
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// IsValidCategory reports whether category is one of the known values.
func IsValidCategory(category string) bool {
	switch category {
	case "bug", "feature", "improvement", "other":
		return true
	}
	return false
}

// IsValidPriority reports whether priority is one of the known values.
func IsValidPriority(priority string) bool {
	switch priority {
	case "low", "medium", "high", "critical":
		return true
	}
	return false
}

// IsValidStatus reports whether status is one of the user-facing values.
// The admin moderation path additionally accepts "rejected"; see
// IsValidAdminStatus.
func IsValidStatus(status string) bool {
	switch status {
	case "new", "in_progress", "resolved":
		return true
	}
	return false
}

// IsValidAdminStatus reports whether status is acceptable on the admin
// status-update path, which allows "rejected" on top of the shared set.
func IsValidAdminStatus(status string) bool {
	return IsValidStatus(status) || status == "rejected"
}

// Sanitize trims whitespace, strips angle brackets, and caps the result at
// MaxTextLength. Applied to all free-text user input before storage.
func Sanitize(input string) string {
	s := strings.TrimSpace(input)
	s = strings.ReplaceAll(s, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	if len(s) > MaxTextLength {
		s = s[:MaxTextLength]
	}
	return s
}
