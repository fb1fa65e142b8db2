package oauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/storage"
)

const (
	AuthCodeTTL           = 10 * time.Minute
	ClientRefreshTTL      = 24 * time.Hour
	UserRefreshTTL        = 7 * 24 * time.Hour
	DefaultClientScope    = "read"
	DefaultUserScope      = "read write"
	DefaultAuthorizeScope = "read"
	TokenTypeBearer       = "Bearer"
)

type TokenRequest struct {
	GrantType    string `json:"grant_type" validate:"required,oneof=client_credentials password refresh_token authorization_code"`
	ClientID     string `json:"client_id" validate:"required"`
	ClientSecret string `json:"client_secret" validate:"required"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	Scope        string `json:"scope"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

type AuthorizeRequest struct {
	ResponseType string `json:"response_type" validate:"required,oneof=code token"`
	ClientID     string `json:"client_id" validate:"required"`
	RedirectURI  string `json:"redirect_uri" validate:"required"`
	Scope        string `json:"scope"`
	State        string `json:"state"`
}

type AuthorizeResponse struct {
	Code        string `json:"code"`
	State       string `json:"state,omitempty"`
	ExpiresIn   int    `json:"expires_in"`
	RedirectURL string `json:"redirect_url"`
}

// OAuthService implements the token endpoint grants, the authorize step,
// introspection and revocation.
type OAuthService struct {
	clients    map[string]*models.Client
	accounts   *storage.Accounts
	tokens     storage.TokenStorage
	signer     *TokenSigner
	demoUserID string
	now        func() time.Time
}

// NewOAuthService builds the service. Codes minted by Authorize are bound to
// demoUserID since no login step exists.
func NewOAuthService(clients []models.Client, accounts *storage.Accounts, tokens storage.TokenStorage, signer *TokenSigner, demoUserID string) *OAuthService {
	byID := make(map[string]*models.Client, len(clients))
	for i := range clients {
		byID[clients[i].ClientID] = &clients[i]
	}

	return &OAuthService{
		clients:    byID,
		accounts:   accounts,
		tokens:     tokens,
		signer:     signer,
		demoUserID: demoUserID,
		now:        time.Now,
	}
}

// Signer exposes the access token verifier for bearer authentication.
func (o *OAuthService) Signer() *TokenSigner {
	return o.signer
}

// GetClient returns an active client by ID.
func (o *OAuthService) GetClient(clientID string) (*models.Client, bool) {
	client, exists := o.clients[clientID]
	if !exists || !client.Active {
		return nil, false
	}
	return client, true
}

func (o *OAuthService) validateClient(clientID, clientSecret string) (*models.Client, error) {
	client, ok := o.GetClient(clientID)
	if !ok || client.ClientSecret != clientSecret {
		return nil, apierr.Unauthorized("Invalid client credentials")
	}
	return client, nil
}

// Authorize mints a short-lived authorization code for a registered client
// and redirect URI.
func (o *OAuthService) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResponse, error) {
	if err := apierr.Validate(req); err != nil {
		return nil, err
	}

	client, ok := o.GetClient(req.ClientID)
	if !ok {
		return nil, apierr.Unauthorized("Invalid client_id")
	}
	if !client.AllowsRedirect(req.RedirectURI) {
		return nil, apierr.BadRequest("Invalid redirect_uri")
	}
	if !client.AllowsGrant(models.GrantAuthorizationCode) {
		return nil, apierr.Unauthorized("Authorization code grant not allowed for this client")
	}

	scope := req.Scope
	if scope == "" {
		scope = DefaultAuthorizeScope
	}

	code := &models.AuthorizationCode{
		Code:        generateRandomCode(32),
		ClientID:    client.ClientID,
		UserID:      o.demoUserID,
		RedirectURI: req.RedirectURI,
		Scope:       scope,
		ExpiresAt:   o.now().Add(AuthCodeTTL),
	}
	if err := o.tokens.SaveAuthCode(ctx, code); err != nil {
		return nil, fmt.Errorf("failed to save authorization code: %w", err)
	}

	return &AuthorizeResponse{
		Code:        code.Code,
		State:       req.State,
		ExpiresIn:   int(AuthCodeTTL.Seconds()),
		RedirectURL: BuildRedirectURL(req.RedirectURI, code.Code, req.State),
	}, nil
}

// Token runs one token endpoint grant.
func (o *OAuthService) Token(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if err := apierr.Validate(req); err != nil {
		return nil, err
	}

	client, err := o.validateClient(req.ClientID, req.ClientSecret)
	if err != nil {
		return nil, err
	}
	if !client.AllowsGrant(req.GrantType) {
		return nil, apierr.Unauthorized("Grant type '%s' not allowed for this client", req.GrantType)
	}

	var resp *TokenResponse
	switch req.GrantType {
	case models.GrantClientCredentials:
		resp, err = o.clientCredentials(ctx, client, req)
	case models.GrantPassword:
		resp, err = o.passwordGrant(ctx, client, req)
	case models.GrantRefreshToken:
		resp, err = o.refreshTokenGrant(ctx, client, req)
	case models.GrantAuthorizationCode:
		resp, err = o.authorizationCodeGrant(ctx, client, req)
	default:
		return nil, apierr.BadRequest("Unsupported grant type")
	}

	if err != nil {
		tokenRequests.WithLabelValues(req.GrantType, "rejected").Inc()
		return nil, err
	}
	tokenRequests.WithLabelValues(req.GrantType, "issued").Inc()
	slog.Debug("Issued token", "grant_type", req.GrantType, "client_id", client.ClientID)
	return resp, nil
}

func (o *OAuthService) clientCredentials(ctx context.Context, client *models.Client, req TokenRequest) (*TokenResponse, error) {
	scope := req.Scope
	if scope == "" {
		scope = DefaultClientScope
	}

	claims := TokenClaims{
		Type:  models.GrantClientCredentials,
		Name:  client.Name,
		Scope: scope,
	}
	claims.Subject = client.ClientID

	return o.issue(ctx, claims, &models.RefreshToken{
		ClientID: client.ClientID,
		Scope:    scope,
	})
}

func (o *OAuthService) passwordGrant(ctx context.Context, client *models.Client, req TokenRequest) (*TokenResponse, error) {
	if req.Username == "" || req.Password == "" {
		return nil, apierr.BadRequest("Username and password are required for password grant")
	}

	acct, ok := o.accounts.ActiveByUsername(req.Username)
	if !ok || !acct.MatchesDemoPassword(req.Password) {
		return nil, apierr.Unauthorized("Invalid username or password")
	}

	scope := req.Scope
	if scope == "" {
		scope = DefaultUserScope
	}

	return o.issue(ctx, userClaims(acct, models.GrantPassword, client.ClientID, scope), &models.RefreshToken{
		ClientID: client.ClientID,
		UserID:   acct.ID,
		Scope:    scope,
	})
}

func (o *OAuthService) refreshTokenGrant(ctx context.Context, client *models.Client, req TokenRequest) (*TokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, apierr.BadRequest("Refresh token is required")
	}

	stored, err := o.tokens.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	if stored == nil {
		return nil, apierr.Unauthorized("Invalid refresh token")
	}
	if stored.IsExpired(o.now()) {
		if _, err := o.tokens.ConsumeRefreshToken(ctx, stored.Token); err != nil {
			slog.Warn("Failed to purge expired refresh token", "error", err)
		}
		return nil, apierr.Unauthorized("Refresh token has expired")
	}
	if stored.ClientID != client.ClientID {
		return nil, apierr.Unauthorized("Refresh token was not issued to this client")
	}

	consumed, err := o.tokens.ConsumeRefreshToken(ctx, stored.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !consumed {
		return nil, apierr.Unauthorized("Invalid refresh token")
	}

	scope := req.Scope
	if scope == "" {
		scope = stored.Scope
	}

	claims := TokenClaims{
		Type:     models.GrantRefreshToken,
		ClientID: client.ClientID,
		Scope:    scope,
	}
	claims.Subject = client.ClientID
	if stored.UserID != "" {
		claims.Subject = stored.UserID
		if acct, ok := o.accounts.ByID(stored.UserID); ok {
			claims.Username = acct.Username
			claims.Email = acct.Email
			claims.Role = acct.Role
		}
	}

	resp, err := o.issue(ctx, claims, &models.RefreshToken{
		ClientID: stored.ClientID,
		UserID:   stored.UserID,
		Scope:    stored.Scope,
	})
	if err != nil {
		return nil, err
	}
	resp.Scope = scope
	return resp, nil
}

func (o *OAuthService) authorizationCodeGrant(ctx context.Context, client *models.Client, req TokenRequest) (*TokenResponse, error) {
	if req.Code == "" {
		return nil, apierr.BadRequest("Authorization code is required")
	}

	stored, err := o.tokens.GetAuthCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to get authorization code: %w", err)
	}
	if stored == nil {
		return nil, apierr.Unauthorized("Invalid authorization code")
	}
	if stored.IsExpired(o.now()) {
		if _, err := o.tokens.ConsumeAuthCode(ctx, stored.Code); err != nil {
			slog.Warn("Failed to purge expired authorization code", "error", err)
		}
		return nil, apierr.Unauthorized("Authorization code has expired")
	}
	if stored.ClientID != client.ClientID {
		return nil, apierr.Unauthorized("Authorization code was not issued to this client")
	}
	if req.RedirectURI != "" && stored.RedirectURI != req.RedirectURI {
		return nil, apierr.BadRequest("Redirect URI mismatch")
	}

	// Single use: only the caller that removes the code may redeem it.
	consumed, err := o.tokens.ConsumeAuthCode(ctx, stored.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to consume authorization code: %w", err)
	}
	if !consumed {
		return nil, apierr.Unauthorized("Invalid authorization code")
	}

	acct, ok := o.accounts.ByID(stored.UserID)
	if !ok {
		return nil, apierr.Unauthorized("User not found")
	}

	return o.issue(ctx, userClaims(acct, models.GrantAuthorizationCode, client.ClientID, stored.Scope), &models.RefreshToken{
		ClientID: client.ClientID,
		UserID:   acct.ID,
		Scope:    stored.Scope,
	})
}

func userClaims(acct models.Account, grantType, clientID, scope string) TokenClaims {
	claims := TokenClaims{
		Type:     grantType,
		Username: acct.Username,
		Email:    acct.Email,
		Role:     acct.Role,
		ClientID: clientID,
		Scope:    scope,
	}
	claims.Subject = acct.ID
	return claims
}

// issue signs an access token and stores a fresh refresh token built from
// refresh. User-bound refresh tokens live longer than client-only ones.
func (o *OAuthService) issue(ctx context.Context, claims TokenClaims, refresh *models.RefreshToken) (*TokenResponse, error) {
	accessToken, err := o.signer.Sign(claims)
	if err != nil {
		return nil, err
	}

	ttl := ClientRefreshTTL
	if refresh.UserID != "" {
		ttl = UserRefreshTTL
	}
	refresh.Token = generateRandomCode(32)
	refresh.ExpiresAt = o.now().Add(ttl)
	if err := o.tokens.SaveRefreshToken(ctx, refresh); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int(o.signer.TTL().Seconds()),
		RefreshToken: refresh.Token,
		Scope:        claims.Scope,
	}, nil
}

// Introspect reports the claims of a valid access token, or only
// active=false for anything else.
func (o *OAuthService) Introspect(token string) map[string]any {
	claims, err := o.signer.VerifyMap(token)
	if err != nil {
		return map[string]any{"active": false}
	}

	out := make(map[string]any, len(claims)+2)
	out["active"] = true
	for k, v := range claims {
		out[k] = v
	}
	out["token_type"] = TokenTypeBearer
	return out
}

// Revoke deletes a matching refresh token. Access tokens and unknown tokens
// are accepted silently.
func (o *OAuthService) Revoke(ctx context.Context, token, tokenTypeHint string) error {
	if token == "" {
		return nil
	}
	removed, err := o.tokens.ConsumeRefreshToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	slog.Debug("Token revocation", "hint", tokenTypeHint, "removed", removed)
	return nil
}

// UserInfo returns the claims of a valid access token.
func (o *OAuthService) UserInfo(token string) (*TokenClaims, error) {
	claims, err := o.signer.Verify(token)
	if err != nil {
		return nil, apierr.Unauthorized("Invalid token")
	}
	return claims, nil
}

// Metadata describes the server per RFC 8414.
func (o *OAuthService) Metadata(baseURL string) map[string]any {
	return map[string]any{
		"issuer":                                baseURL,
		"authorization_endpoint":                baseURL + "/oauth/authorize",
		"token_endpoint":                        baseURL + "/oauth/token",
		"token_endpoint_auth_methods_supported": []string{"client_secret_post", "client_secret_basic"},
		"token_introspection_endpoint":          baseURL + "/oauth/introspect",
		"revocation_endpoint":                   baseURL + "/oauth/revoke",
		"userinfo_endpoint":                     baseURL + "/oauth/userinfo",
		"grant_types_supported": []string{
			models.GrantClientCredentials,
			models.GrantPassword,
			models.GrantRefreshToken,
			models.GrantAuthorizationCode,
		},
		"response_types_supported": []string{"code", "token"},
		"scopes_supported":         []string{"read", "write", "admin"},
	}
}

// BuildRedirectURL builds the callback URL with code and state
func BuildRedirectURL(redirectURI, code, state string) string {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return redirectURI // fallback
	}

	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

func generateRandomCode(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
