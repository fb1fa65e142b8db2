package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/redis/go-redis/v9"
)

// expiryGrace keeps entries in Redis a little past their expiry so a lookup
// can still tell "expired" apart from "unknown".
const expiryGrace = time.Minute

type RedisTokenStorage struct {
	client *redis.Client
}

func NewRedisTokenStorage(client *redis.Client) *RedisTokenStorage {
	return &RedisTokenStorage{
		client: client,
	}
}

func authCodeKey(code string) string {
	return fmt.Sprintf("auth_code:%s", code)
}

func refreshTokenKey(token string) string {
	return fmt.Sprintf("refresh_token:%s", token)
}

func (r *RedisTokenStorage) save(ctx context.Context, key string, v any, expiresAt time.Time) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	ttl := time.Until(expiresAt) + expiryGrace
	if ttl <= 0 {
		return fmt.Errorf("%s already expired", key)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *RedisTokenStorage) load(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

// consume relies on DEL returning the number of keys removed, so only one
// concurrent caller sees 1.
func (r *RedisTokenStorage) consume(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Del(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return n == 1, nil
}

func (r *RedisTokenStorage) SaveAuthCode(ctx context.Context, code *models.AuthorizationCode) error {
	return r.save(ctx, authCodeKey(code.Code), code, code.ExpiresAt)
}

func (r *RedisTokenStorage) GetAuthCode(ctx context.Context, code string) (*models.AuthorizationCode, error) {
	var ac models.AuthorizationCode
	found, err := r.load(ctx, authCodeKey(code), &ac)
	if err != nil || !found {
		return nil, err
	}
	return &ac, nil
}

func (r *RedisTokenStorage) ConsumeAuthCode(ctx context.Context, code string) (bool, error) {
	return r.consume(ctx, authCodeKey(code))
}

func (r *RedisTokenStorage) SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.save(ctx, refreshTokenKey(token.Token), token, token.ExpiresAt)
}

func (r *RedisTokenStorage) GetRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	found, err := r.load(ctx, refreshTokenKey(token), &rt)
	if err != nil || !found {
		return nil, err
	}
	return &rt, nil
}

func (r *RedisTokenStorage) ConsumeRefreshToken(ctx context.Context, token string) (bool, error) {
	return r.consume(ctx, refreshTokenKey(token))
}
