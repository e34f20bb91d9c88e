package validation

import (
	"errors"
	"strings"
	"unicode"
)

// ValidateUsername validates an administrator username
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if trimmed == "" {
		return errors.New("username is required")
	}

	if len(trimmed) > 64 {
		return errors.New("username is too long (max 64 characters)")
	}

	if strings.IndexFunc(trimmed, unicode.IsSpace) >= 0 {
		return errors.New("username must not contain spaces")
	}

	return nil
}
