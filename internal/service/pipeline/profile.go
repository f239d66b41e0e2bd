package pipeline

import (
	"strings"
	"time"

	"signup-gateway/internal/domain"
	"signup-gateway/internal/service"
	"signup-gateway/pkg/errors"
)

// BuildProfile is the only way a UserProfile is made. It validates the
// identity for method and checks the allow-list before constructing
// anything, so every profile it returns holds an authorized, well-formed
// email.
func BuildProfile(policy service.EmailPolicy, method domain.AuthMethod, id *domain.Identity, now time.Time) (*domain.UserProfile, error) {
	if id == nil {
		return nil, errors.NewValidationError(msgRequiredFields, nil)
	}
	if err := validateIdentity(method, id); err != nil {
		return nil, err
	}
	if !policy.IsAuthorized(id.Email) {
		return nil, errors.NewAuthorizationError()
	}

	profile := &domain.UserProfile{
		FirstName:  id.FirstName,
		LastName:   id.LastName,
		Email:      strings.TrimSpace(id.Email),
		AuthMethod: method,
		Timestamp:  domain.FormatTimestamp(now),
	}
	if method == domain.AuthMethodManual {
		profile.Phone = id.Phone
		profile.BirthDate = id.BirthDate
		profile.Gender = id.Gender
	}
	return profile, nil
}
