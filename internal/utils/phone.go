package utils

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is assumed for numbers given without a country code.
const DefaultPhoneRegion = "BD"

var ErrInvalidPhone = errors.New("invalid_phone")

// NormalizePhone parses a user supplied number and returns it in E.164 form.
func NormalizePhone(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", ErrInvalidPhone
	}

	parsed, err := phonenumbers.Parse(input, DefaultPhoneRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsValidNumber(parsed) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(parsed, phonenumbers.E164), nil
}
