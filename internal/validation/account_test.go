package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Short Is Fine", "pw", false},
		{"Exactly Max Bytes", strings.Repeat("a", 72), false},
		{"Empty", "", true},
		{"Too Long", strings.Repeat("a", 73), true},
		{"Multibyte Over Limit", strings.Repeat("å", 37), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Single Char", "a", false},
		{"Dots And Dashes", "jane.doe-2", false},
		{"Exactly Max Length", strings.Repeat("u", 20), false},
		{"Empty", "", true},
		{"Too Long", strings.Repeat("u", 21), true},
		{"Illegal Chars", "user@123", true},
		{"Contains Space", "user name", true},
		{"Slash Breaks Routes", "a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()
	// 120 chars total: 64 local + @ + 51 domain label + ".com" (4)
	emailAt120 := strings.Repeat("a", 64) + "@" + strings.Repeat("b", 51) + ".com"
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"Valid", "test@example.com", false},
		{"Exactly 120 Characters", emailAt120, false},
		{"Too Long", "x" + emailAt120, true},
		{"Empty", "", true},
		{"Invalid Format", "not-an-email", true},
		{"Missing Domain", "user@", true},
		{"Multiple At Symbols", "user@@example.com", true},
		{"Space In Local Part", "user @example.com", true},
		{"Trailing Dot In Domain", "user@example.com.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
