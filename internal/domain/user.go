package domain

import "encoding/json"

// AuthMethod identifies the channel a profile was collected through
type AuthMethod string

const (
	AuthMethodGoogle       AuthMethod = "google"
	AuthMethodMicrosoft    AuthMethod = "microsoft"
	AuthMethodManual       AuthMethod = "manual"
	AuthMethodManualSignin AuthMethod = "manual-signin"
	AuthMethodSSO          AuthMethod = "sso"
)

// Valid reports whether m is one of the known methods.
func (m AuthMethod) Valid() bool {
	switch m {
	case AuthMethodGoogle, AuthMethodMicrosoft, AuthMethodManual, AuthMethodManualSignin, AuthMethodSSO:
		return true
	}
	return false
}

// CollectsName reports whether payloads for m always carry both name keys.
func (m AuthMethod) CollectsName() bool {
	switch m {
	case AuthMethodGoogle, AuthMethodMicrosoft, AuthMethodManual:
		return true
	}
	return false
}

// Identity is the provider-neutral record every adapter produces before
// the submission pipeline runs. It carries raw facts; nothing in it has
// been validated or authorized yet.
type Identity struct {
	Email     string
	FirstName string
	LastName  string

	// Manual form only
	Phone           string
	BirthDate       string
	Gender          string
	Password        string
	ConfirmPassword string
}

// UserProfile is the record delivered to the webhook. Only the pipeline
// and the verification session construct it, after the email has passed
// format validation and the allow-list.
type UserProfile struct {
	FirstName        string     `json:"firstName,omitempty"`
	LastName         string     `json:"lastName,omitempty"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone,omitempty"`
	BirthDate        string     `json:"birthDate,omitempty"`
	Gender           string     `json:"gender,omitempty"`
	AuthMethod       AuthMethod `json:"authMethod"`
	Timestamp        string     `json:"timestamp,omitempty"`
	VerificationCode string     `json:"verificationCode,omitempty"`
}

// MarshalJSON writes firstName and lastName for every method that
// collects a name, as "" when the provider had none. Sign-in and SSO
// payloads leave them out.
func (p UserProfile) MarshalJSON() ([]byte, error) {
	type plain UserProfile
	if !p.AuthMethod.CollectsName() {
		return json.Marshal(plain(p))
	}
	return json.Marshal(struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		plain
	}{p.FirstName, p.LastName, plain(p)})
}

// Ack is the webhook acknowledgment. Its shape is whatever the external
// system returned; an empty or non-JSON body becomes {"success": true}.
type Ack map[string]interface{}
