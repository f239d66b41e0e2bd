package provider

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
)

var (
	googleScopes    = []string{"openid", "profile", "email"}
	microsoftScopes = []string{"openid", "profile", "email", "User.Read"}
)

// Settings is the provider part of the service configuration.
type Settings struct {
	GoogleClientID         string
	MicrosoftClientID      string
	MicrosoftTenant        string
	MicrosoftRedirectURI   string
	MicrosoftCacheLocation string
}

// ClientConfig is what the browser SDKs need to initialise. It holds no
// secrets.
type ClientConfig struct {
	Google    GoogleClientConfig    `json:"google"`
	Microsoft MicrosoftClientConfig `json:"microsoft"`
}

type GoogleClientConfig struct {
	ClientID string   `json:"clientId"`
	Scopes   []string `json:"scopes"`
	AuthURL  string   `json:"authUrl"`
}

type MicrosoftClientConfig struct {
	ClientID      string   `json:"clientId"`
	Authority     string   `json:"authority"`
	RedirectURI   string   `json:"redirectUri"`
	CacheLocation string   `json:"cacheLocation"`
	Scopes        []string `json:"scopes"`
	AuthURL       string   `json:"authUrl"`
}

// OAuthConfigs holds the oauth2 client descriptions for both providers.
type OAuthConfigs struct {
	settings  Settings
	Google    *oauth2.Config
	Microsoft *oauth2.Config
}

// NewOAuthConfigs builds the oauth2 configurations from settings.
func NewOAuthConfigs(s Settings) *OAuthConfigs {
	if s.MicrosoftTenant == "" {
		s.MicrosoftTenant = "common"
	}
	return &OAuthConfigs{
		settings: s,
		Google: &oauth2.Config{
			ClientID: s.GoogleClientID,
			Endpoint: google.Endpoint,
			Scopes:   googleScopes,
		},
		Microsoft: &oauth2.Config{
			ClientID:    s.MicrosoftClientID,
			RedirectURL: s.MicrosoftRedirectURI,
			Endpoint:    microsoft.AzureADEndpoint(s.MicrosoftTenant),
			Scopes:      microsoftScopes,
		},
	}
}

// ClientConfig returns the public SDK configuration.
func (c *OAuthConfigs) ClientConfig() ClientConfig {
	return ClientConfig{
		Google: GoogleClientConfig{
			ClientID: c.Google.ClientID,
			Scopes:   c.Google.Scopes,
			AuthURL:  c.Google.Endpoint.AuthURL,
		},
		Microsoft: MicrosoftClientConfig{
			ClientID:      c.Microsoft.ClientID,
			Authority:     "https://login.microsoftonline.com/" + c.settings.MicrosoftTenant,
			RedirectURI:   c.Microsoft.RedirectURL,
			CacheLocation: c.settings.MicrosoftCacheLocation,
			Scopes:        c.Microsoft.Scopes,
			AuthURL:       c.Microsoft.Endpoint.AuthURL,
		},
	}
}

// MicrosoftLoginURL builds a redirect-mode authorize URL that returns an
// ID token in the fragment, for browsers where the popup is blocked.
func (c *OAuthConfigs) MicrosoftLoginURL(state, nonce string) string {
	return c.Microsoft.AuthCodeURL(state,
		oauth2.SetAuthURLParam("response_type", "id_token"),
		oauth2.SetAuthURLParam("response_mode", "fragment"),
		oauth2.SetAuthURLParam("nonce", nonce),
	)
}

// Configured reports which providers have a client id.
func (c *OAuthConfigs) Configured() map[string]bool {
	return map[string]bool{
		"google":    c.Google.ClientID != "",
		"microsoft": c.Microsoft.ClientID != "",
	}
}
