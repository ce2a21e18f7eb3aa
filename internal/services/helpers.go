package services

import (
	"strings"

	"github.com/shadiptomojumder/skb-backend/internal/utils"
)

// invalidInput turns a validator failure into InvalidInput carrying every
// field message, comma separated.
func invalidInput(err error) error {
	appErr := utils.NewInvalidInput(utils.JoinValidationMessages(err))
	appErr.Err = err
	return appErr
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
