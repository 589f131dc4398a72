package application

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/microshop/admin-gateway/internal/domain"
)

// normalizeEmail canonicalizes and validates email format before persistence.
func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

func invalidInput(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, reason)
}
