package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserProfileJSON_ManualHasNoExtraneousKeys(t *testing.T) {
	profile := UserProfile{
		FirstName:  "A",
		LastName:   "B",
		Email:      "a@b.com",
		AuthMethod: AuthMethodManual,
		Timestamp:  "2026-10-18T10:00:00.000Z",
	}

	raw, err := json.Marshal(profile)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, map[string]interface{}{
		"firstName":  "A",
		"lastName":   "B",
		"email":      "a@b.com",
		"authMethod": "manual",
		"timestamp":  "2026-10-18T10:00:00.000Z",
	}, decoded)
}

func TestUserProfileJSON_SSOCarriesCode(t *testing.T) {
	raw, err := json.Marshal(UserProfile{
		Email:            "a@b.com",
		AuthMethod:       AuthMethodSSO,
		VerificationCode: "123456",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com","authMethod":"sso","verificationCode":"123456"}`, string(raw))
}

func TestUserProfileJSON_ProviderAlwaysSendsNameKeys(t *testing.T) {
	raw, err := json.Marshal(UserProfile{
		FirstName:  "Madonna",
		Email:      "m@b.com",
		AuthMethod: AuthMethodMicrosoft,
		Timestamp:  "2026-10-18T10:00:00.000Z",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"Madonna","lastName":"","email":"m@b.com","authMethod":"microsoft","timestamp":"2026-10-18T10:00:00.000Z"}`, string(raw))

	raw, err = json.Marshal(&UserProfile{Email: "g@b.com", AuthMethod: AuthMethodGoogle})
	require.NoError(t, err)
	assert.JSONEq(t, `{"firstName":"","lastName":"","email":"g@b.com","authMethod":"google"}`, string(raw))
}

func TestUserProfileJSON_SigninOmitsNameKeys(t *testing.T) {
	raw, err := json.Marshal(UserProfile{
		Email:      "a@b.com",
		AuthMethod: AuthMethodManualSignin,
		Timestamp:  "2026-10-18T10:00:00.000Z",
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.com","authMethod":"manual-signin","timestamp":"2026-10-18T10:00:00.000Z"}`, string(raw))
}

func TestAuthMethodCollectsName(t *testing.T) {
	assert.True(t, AuthMethodGoogle.CollectsName())
	assert.True(t, AuthMethodMicrosoft.CollectsName())
	assert.True(t, AuthMethodManual.CollectsName())
	assert.False(t, AuthMethodManualSignin.CollectsName())
	assert.False(t, AuthMethodSSO.CollectsName())
}

func TestAuthMethodValid(t *testing.T) {
	for _, m := range []AuthMethod{AuthMethodGoogle, AuthMethodMicrosoft, AuthMethodManual, AuthMethodManualSignin, AuthMethodSSO} {
		assert.True(t, m.Valid(), string(m))
	}
	assert.False(t, AuthMethod("github").Valid())
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2026, 10, 18, 12, 30, 5, 123456789, time.FixedZone("EET", 2*60*60))
	assert.Equal(t, "2026-10-18T10:30:05.123Z", FormatTimestamp(ts))
}
