package provider

import (
	"errors"

	"signup-gateway/internal/domain"
)

// GoogleCredential is the callback payload of Google Identity Services.
type GoogleCredential struct {
	Credential string `json:"credential"`
}

func (g GoogleCredential) Method() domain.AuthMethod {
	return domain.AuthMethodGoogle
}

// Identity decodes the ID token claims. given_name and family_name are
// used when present; otherwise the display name is split.
func (g GoogleCredential) Identity() (*domain.Identity, error) {
	if g.Credential == "" {
		return nil, errors.New("no credential received from Google")
	}

	claims, err := decodeClaims(g.Credential)
	if err != nil {
		return nil, err
	}

	identity := &domain.Identity{
		Email:     stringClaim(claims, "email"),
		FirstName: stringClaim(claims, "given_name"),
		LastName:  stringClaim(claims, "family_name"),
	}
	if identity.FirstName == "" && identity.LastName == "" {
		identity.FirstName, identity.LastName = SplitDisplayName(stringClaim(claims, "name"))
	}
	return identity, nil
}
