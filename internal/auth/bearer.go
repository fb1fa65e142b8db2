package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/oauth"
)

var errInvalidToken = errors.New("invalid token")

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*oauth.TokenClaims, error)
}

type BearerStrategy struct {
	verifier TokenVerifier
}

func NewBearerStrategy(verifier TokenVerifier) *BearerStrategy {
	return &BearerStrategy{verifier: verifier}
}

func (b *BearerStrategy) Name() string {
	return models.AuthMethodBearer
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func (b *BearerStrategy) Attempt(r *http.Request) (*models.Identity, error) {
	token, ok := BearerToken(r)
	if !ok {
		return nil, nil
	}
	if token == "" {
		return nil, errInvalidToken
	}

	claims, err := b.verifier.Verify(token)
	if err != nil {
		return nil, errInvalidToken
	}

	display := claims.Username
	if display == "" {
		display = claims.Name
	}
	return &models.Identity{
		SubjectID:   claims.Subject,
		DisplayName: display,
		AuthMethod:  models.AuthMethodBearer,
		Claims: map[string]any{
			"type":      claims.Type,
			"scope":     claims.Scope,
			"role":      claims.Role,
			"client_id": claims.ClientID,
		},
	}, nil
}
