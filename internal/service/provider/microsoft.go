package provider

import (
	"signup-gateway/internal/domain"
)

// MicrosoftAccount is the account object MSAL returns after a popup or
// redirect login, optionally with the raw ID token.
type MicrosoftAccount struct {
	Account struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"account"`
	IDToken string `json:"idToken,omitempty"`
}

func (m MicrosoftAccount) Method() domain.AuthMethod {
	return domain.AuthMethodMicrosoft
}

// Identity uses the account username as the email and splits the display
// name. Missing account fields are filled from the ID token claims.
func (m MicrosoftAccount) Identity() (*domain.Identity, error) {
	email := m.Account.Username
	name := m.Account.Name

	if m.IDToken != "" && (email == "" || name == "") {
		claims, err := decodeClaims(m.IDToken)
		if err != nil {
			return nil, err
		}
		if email == "" {
			email = stringClaim(claims, "preferred_username")
		}
		if email == "" {
			email = stringClaim(claims, "email")
		}
		if name == "" {
			name = stringClaim(claims, "name")
		}
	}

	first, last := SplitDisplayName(name)
	return &domain.Identity{
		Email:     email,
		FirstName: first,
		LastName:  last,
	}, nil
}
