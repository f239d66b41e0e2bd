package provider

import (
	"strings"

	"signup-gateway/internal/domain"
)

// Adapter converts one provider's raw output into the common Identity
// record. Adapters report facts only; validation and authorization
// happen in the pipeline.
type Adapter interface {
	// Method returns the auth method recorded on the resulting profile.
	Method() domain.AuthMethod

	// Identity extracts the intermediate record. An error means the raw
	// data could not be read at all (for example a malformed token).
	Identity() (*domain.Identity, error)
}

// SplitDisplayName splits a single display name on whitespace. The first
// token is the first name and the rest, joined by single spaces, is the
// last name.
func SplitDisplayName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}
