package validate

import (
	"net/mail"
	"strings"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

func Email(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

// Phone accepts E.164-shaped numbers: optional leading plus, 7 to 15 digits.
func Phone(value string) bool {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "+")
	if len(value) < 7 || len(value) > 15 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
