package storage

import (
	"context"
	"sync"

	"github.com/andyleap/mockapi/internal/models"
)

// MemoryTokenStorage keeps codes and refresh tokens in process maps.
// Expired entries stay until the token service looks them up and purges them.
type MemoryTokenStorage struct {
	authCodes     map[string]*models.AuthorizationCode
	refreshTokens map[string]*models.RefreshToken
	mu            sync.RWMutex
}

func NewMemoryTokenStorage() *MemoryTokenStorage {
	return &MemoryTokenStorage{
		authCodes:     make(map[string]*models.AuthorizationCode),
		refreshTokens: make(map[string]*models.RefreshToken),
	}
}

func (m *MemoryTokenStorage) SaveAuthCode(ctx context.Context, code *models.AuthorizationCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *code
	m.authCodes[code.Code] = &stored
	return nil
}

func (m *MemoryTokenStorage) GetAuthCode(ctx context.Context, code string) (*models.AuthorizationCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ac, exists := m.authCodes[code]
	if !exists {
		return nil, nil
	}
	out := *ac
	return &out, nil
}

func (m *MemoryTokenStorage) ConsumeAuthCode(ctx context.Context, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.authCodes[code]; !exists {
		return false, nil
	}
	delete(m.authCodes, code)
	return true, nil
}

func (m *MemoryTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *token
	m.refreshTokens[token.Token] = &stored
	return nil
}

func (m *MemoryTokenStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rt, exists := m.refreshTokens[token]
	if !exists {
		return nil, nil
	}
	out := *rt
	return &out, nil
}

func (m *MemoryTokenStorage) ConsumeRefreshToken(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.refreshTokens[token]; !exists {
		return false, nil
	}
	delete(m.refreshTokens, token)
	return true, nil
}
