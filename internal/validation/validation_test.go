package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.domain.io", true},
		{"no-at-sign", false},
		{"spaces in@example.com", false},
		{"missing@tld", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEmail(tt.email))
		})
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"al", false},
		{"a_b-c123", true},
		{strings.Repeat("a", 30), true},
		{strings.Repeat("a", 31), false},
		{"has space", false},
		{"bad!char", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateUsername(tt.username))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.False(t, ValidatePassword("12345"))
	assert.True(t, ValidatePassword("123456"))
}

func TestEnumValidators(t *testing.T) {
	assert.True(t, IsValidCategory("bug"))
	assert.True(t, IsValidCategory("other"))
	assert.False(t, IsValidCategory("spam"))

	assert.True(t, IsValidPriority("critical"))
	assert.False(t, IsValidPriority("urgent"))

	assert.True(t, IsValidStatus("in_progress"))
	assert.False(t, IsValidStatus("rejected"))

	assert.True(t, IsValidAdminStatus("rejected"))
	assert.True(t, IsValidAdminStatus("resolved"))
	assert.False(t, IsValidAdminStatus("archived"))
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "strips angle brackets", input: "<script>alert(1)</script>", want: "scriptalert(1)/script"},
		{name: "plain text untouched", input: "just text", want: "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}

	t.Run("caps at max length", func(t *testing.T) {
		long := strings.Repeat("x", MaxTextLength+50)
		assert.Len(t, Sanitize(long), MaxTextLength)
	})
}
