package models

import (
	"slices"
	"time"
)

// Grant types understood by the token endpoint.
const (
	GrantClientCredentials = "client_credentials"
	GrantPassword          = "password"
	GrantRefreshToken      = "refresh_token"
	GrantAuthorizationCode = "authorization_code"
)

// Client represents an OAuth client application
type Client struct {
	ClientID      string   `json:"clientId" yaml:"clientId"`
	ClientSecret  string   `json:"clientSecret" yaml:"clientSecret"`
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	AllowedGrants []string `json:"allowedGrants" yaml:"allowedGrants"`
	RedirectURIs  []string `json:"redirectUris" yaml:"redirectUris"`
	Active        bool     `json:"active" yaml:"active"`
}

func (c *Client) AllowsGrant(grantType string) bool {
	return slices.Contains(c.AllowedGrants, grantType)
}

func (c *Client) AllowsRedirect(redirectURI string) bool {
	return slices.Contains(c.RedirectURIs, redirectURI)
}

// AuthorizationCode represents a single-use authorization code
type AuthorizationCode struct {
	Code        string    `json:"code"`
	ClientID    string    `json:"clientId"`
	UserID      string    `json:"userId"`
	RedirectURI string    `json:"redirectUri"`
	Scope       string    `json:"scope"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func (ac *AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(ac.ExpiresAt)
}

// RefreshToken is an opaque refresh token kept server-side. UserID is empty
// for tokens minted by the client_credentials grant.
type RefreshToken struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"clientId"`
	UserID    string    `json:"userId,omitempty"`
	Scope     string    `json:"scope"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(rt.ExpiresAt)
}
