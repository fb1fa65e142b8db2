package auth

import (
	"errors"
	"net/http"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/storage"
)

const APIKeyHeader = "X-API-Key"

var errInvalidAPIKey = errors.New("invalid API key")

type APIKeyStrategy struct {
	accounts *storage.Accounts
}

func NewAPIKeyStrategy(accounts *storage.Accounts) *APIKeyStrategy {
	return &APIKeyStrategy{accounts: accounts}
}

func (a *APIKeyStrategy) Name() string {
	return models.AuthMethodAPIKey
}

func (a *APIKeyStrategy) Attempt(r *http.Request) (*models.Identity, error) {
	if _, present := r.Header[http.CanonicalHeaderKey(APIKeyHeader)]; !present {
		return nil, nil
	}

	acct, ok := a.accounts.ActiveByAPIKey(r.Header.Get(APIKeyHeader))
	if !ok {
		return nil, errInvalidAPIKey
	}
	return &models.Identity{
		SubjectID:   acct.ID,
		DisplayName: acct.Username,
		AuthMethod:  models.AuthMethodAPIKey,
	}, nil
}
