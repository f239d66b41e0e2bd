package utils

// MinPasswordLength is the shortest password the sign-up and sign-in forms accept.
const MinPasswordLength = 6

// IsValidPassword reports whether password is long enough.
func IsValidPassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// PasswordsMatch is a UX check on the confirmation field, not a security boundary.
func PasswordsMatch(password, confirm string) bool {
	return password == confirm
}
