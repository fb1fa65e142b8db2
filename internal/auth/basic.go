package auth

import (
	"errors"
	"net/http"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

// BasicStrategy accepts HTTP basic credentials of an active user whose
// password matches the demo table or the stored bcrypt hash.
type BasicStrategy struct {
	accounts *storage.Accounts
}

func NewBasicStrategy(accounts *storage.Accounts) *BasicStrategy {
	return &BasicStrategy{accounts: accounts}
}

func (b *BasicStrategy) Name() string {
	return models.AuthMethodBasic
}

func (b *BasicStrategy) Attempt(r *http.Request) (*models.Identity, error) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return nil, nil
	}

	acct, found := b.accounts.ActiveByUsername(username)
	if !found {
		return nil, errInvalidCredentials
	}
	if !acct.MatchesDemoPassword(password) &&
		bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}

	return &models.Identity{
		SubjectID:   acct.ID,
		DisplayName: acct.Username,
		AuthMethod:  models.AuthMethodBasic,
	}, nil
}
