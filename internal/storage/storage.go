package storage

import (
	"context"
	"errors"

	"github.com/andyleap/mockapi/internal/models"
)

// ErrFixtureNotFound is returned by a FixtureSource when no file exists for
// the requested fixture under any supported extension.
var ErrFixtureNotFound = errors.New("fixture not found")

// FixtureExtensions lists the file extensions tried, in order, for a fixture.
var FixtureExtensions = []string{".json", ".yaml", ".yml"}

// FixtureSource supplies raw fixture documents by name ("users",
// "oauth-clients", ...). The returned extension selects the decoder.
type FixtureSource interface {
	ReadFixture(ctx context.Context, name string) (data []byte, ext string, err error)
}

// TokenStorage keeps authorization codes and refresh tokens. Get returns
// entries even when expired so callers can report expiry; (nil, nil) means
// not found. Consume deletes the entry and reports whether this call was
// the one that removed it.
type TokenStorage interface {
	SaveAuthCode(ctx context.Context, code *models.AuthorizationCode) error
	GetAuthCode(ctx context.Context, code string) (*models.AuthorizationCode, error)
	ConsumeAuthCode(ctx context.Context, code string) (bool, error)

	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	ConsumeRefreshToken(ctx context.Context, token string) (bool, error)
}
