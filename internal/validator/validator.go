// Package validator provides input validation and sanitization functions
// for the Eluvium backend API layer.
package validator

import (
	"errors"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/frknlke/eluvium-backend/internal/models"
)

// Validation errors
var (
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrInvalidProvider   = errors.New("invalid provider")
	ErrInvalidSyncMethod = errors.New("invalid sync method")
	ErrInputTooLong      = errors.New("input exceeds maximum length")
	ErrEmptyInput        = errors.New("input cannot be empty")
)

// ValidateEmail validates email address format according to RFC 5322.
// Returns nil if valid, or an appropriate error.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" {
		return ErrEmptyInput
	}

	// RFC 5321 specifies max email length of 254 characters
	if utf8.RuneCountInString(email) > 254 {
		return ErrInputTooLong
	}

	// Use Go's mail package for RFC 5322 validation
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateProvider checks the provider against the supported set.
func ValidateProvider(provider string) error {
	if strings.TrimSpace(provider) == "" {
		return ErrEmptyInput
	}
	if !models.ValidProvider(models.Provider(provider)) {
		return ErrInvalidProvider
	}
	return nil
}

// ValidateSyncMethod checks the sync method against the supported set.
func ValidateSyncMethod(method string) error {
	if strings.TrimSpace(method) == "" {
		return ErrEmptyInput
	}
	if !models.ValidSyncMethod(models.SyncMethod(method)) {
		return ErrInvalidSyncMethod
	}
	return nil
}

// Pagination constants
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidatePagination validates and sanitizes pagination parameters.
// Returns sanitized limit and offset values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// SanitizeString removes potentially dangerous characters and enforces length limits.
// Removes control characters and trims whitespace.
func SanitizeString(input string, maxLength int) string {
	// Remove control characters (ASCII 0-31 and 127)
	input = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	// Trim whitespace
	input = strings.TrimSpace(input)

	// Enforce maximum length if specified
	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}
