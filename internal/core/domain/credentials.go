package domain

import "time"

// Credentials stores the authentication material for a Source.
// Each source has at most one Credentials; filesystem sources have none.
// Exactly one of the variant fields is set.
type Credentials struct {
	// ID is the unique identifier (UUID).
	ID string `json:"id"`

	// SourceID links to the Source these credentials belong to.
	SourceID string `json:"source_id"`

	// Account is an optional display identifier for the authenticated
	// principal (a username, or an app registration name).
	Account string `json:"account,omitempty"`

	// Token holds a static bearer token (GitHub personal access token).
	Token *TokenCredentials `json:"token,omitempty"`

	// Client holds an app registration for the client-credentials
	// grant (SharePoint).
	Client *ClientCredentials `json:"client,omitempty"`

	// CreatedAt is when the credentials were stored.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the credentials were last replaced.
	UpdatedAt time.Time `json:"updated_at"`
}

// TokenCredentials is a static personal access token.
type TokenCredentials struct {
	// Token is the bearer token presented to the API.
	Token string `json:"token"`
}

// ClientCredentials is an app registration for the OAuth2
// client-credentials grant.
type ClientCredentials struct {
	// TenantID is the directory the app is registered in.
	TenantID string `json:"tenant_id"`

	// ClientID identifies the app registration.
	ClientID string `json:"client_id"`

	// ClientSecret authenticates the app.
	ClientSecret string `json:"client_secret"`
}

// IsAuthenticated reports whether the credentials carry usable secrets.
func (c *Credentials) IsAuthenticated() bool {
	if c.Token != nil && c.Token.Token != "" {
		return true
	}
	if c.Client != nil && c.Client.ClientID != "" && c.Client.ClientSecret != "" {
		return true
	}
	return false
}

// Method names the authentication variant in use, empty when none.
func (c *Credentials) Method() string {
	switch {
	case c.Token != nil:
		return "token"
	case c.Client != nil:
		return "client_credentials"
	default:
		return ""
	}
}
