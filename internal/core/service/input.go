package service

import (
	"strings"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// cleanName trims name and rejects what is left when it is blank.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name", "Name is required")
	}
	return name, nil
}

func checkPassword(password string) error {
	if len(password) > domain.MaxPasswordBytes {
		return domain.NewValidationError("password", "Password must be at most 72 bytes")
	}
	return nil
}
