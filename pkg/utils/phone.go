package utils

import (
	"regexp"
)

var (
	// Regex to remove non-digit characters
	digitsOnlyRegex = regexp.MustCompile(`[^0-9]`)
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// PhoneDigits strips every non-digit character from phone.
func PhoneDigits(phone string) string {
	return digitsOnlyRegex.ReplaceAllString(phone, "")
}

// IsValidPhone accepts a number with 7 to 15 digits once formatting is removed.
func IsValidPhone(phone string) bool {
	if phone == "" {
		return false
	}
	n := len(PhoneDigits(phone))
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

// FormatPhone formats a 10-digit number for display
// Example: "5551234567" -> "(555) 123-4567"
// Anything else is returned as given.
func FormatPhone(phone string) string {
	if phone == "" {
		return ""
	}
	digits := PhoneDigits(phone)
	if len(digits) != 10 {
		return phone
	}
	return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
}
