package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/oauth"
	"github.com/andyleap/mockapi/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	resolver *Resolver
	signer   *oauth.TokenSigner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)

	users, err := storage.NewCollection("users", []models.Record{
		{"id": "1", "username": "admin", "apiKey": "api-key-admin", "password": "not-a-hash", "active": true},
		{"id": "2", "username": "hashed", "apiKey": "api-key-hashed", "password": string(hash), "active": true},
		{"id": "3", "username": "jsmith", "apiKey": "api-key-inactive", "active": false},
	})
	require.NoError(t, err)

	accounts := storage.NewAccounts(users)
	signer := oauth.NewTokenSigner("test-secret", "", time.Hour)
	return &testEnv{
		resolver: NewResolver(
			NewBearerStrategy(signer),
			NewAPIKeyStrategy(accounts),
			NewBasicStrategy(accounts),
		),
		signer: signer,
	}
}

func TestResolveBearer(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.signer.Sign(oauth.TokenClaims{Type: "password", Username: "admin", Role: "admin", RegisteredClaims: jwtSubject("1")})
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	identity, err := env.resolver.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "1", identity.SubjectID)
	assert.Equal(t, "admin", identity.DisplayName)
	assert.Equal(t, models.AuthMethodBearer, identity.AuthMethod)
	assert.Equal(t, "admin", identity.Claims["role"])
}

func TestResolveAPIKeyDespiteInvalidBearer(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("Authorization", "Bearer not-a-jwt")
	r.Header.Set("X-API-Key", "api-key-admin")

	identity, err := env.resolver.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, "1", identity.SubjectID)
	assert.Equal(t, models.AuthMethodAPIKey, identity.AuthMethod)
}

func TestResolveBasic(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name, user, pass string
		ok               bool
	}{
		{"demo password", "admin", "admin123", true},
		{"bcrypt hash", "hashed", "s3cret!", true},
		{"wrong password", "admin", "nope", false},
		{"inactive user", "jsmith", "jsmith123", false},
		{"unknown user", "ghost", "admin123", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			r.SetBasicAuth(tc.user, tc.pass)

			identity, err := env.resolver.Resolve(r)
			if !tc.ok {
				require.Error(t, err)
				assert.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.AuthMethodBasic, identity.AuthMethod)
			assert.Equal(t, tc.user, identity.DisplayName)
		})
	}
}

func TestResolveRejectsWithCombinedMessage(t *testing.T) {
	env := newTestEnv(t)

	requests := map[string]func(r *http.Request){
		"no credentials":   func(r *http.Request) {},
		"bad api key":      func(r *http.Request) { r.Header.Set("X-API-Key", "wrong") },
		"inactive api key": func(r *http.Request) { r.Header.Set("X-API-Key", "api-key-inactive") },
		"all invalid": func(r *http.Request) {
			r.Header.Set("X-API-Key", "wrong")
			r.SetBasicAuth("admin", "wrong")
		},
	}
	for name, setup := range requests {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
			setup(r)

			_, err := env.resolver.Resolve(r)
			require.Error(t, err)
			assert.Equal(t, authRequiredMessage, err.Error())
		})
	}
}

func TestResolvePrefersEarlierStrategy(t *testing.T) {
	env := newTestEnv(t)

	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("X-API-Key", "api-key-hashed")
	r.SetBasicAuth("admin", "admin123")

	identity, err := env.resolver.Resolve(r)
	require.NoError(t, err)
	assert.Equal(t, models.AuthMethodAPIKey, identity.AuthMethod)
	assert.Equal(t, "2", identity.SubjectID)
}

func TestMiddleware(t *testing.T) {
	env := newTestEnv(t)
	handler := env.resolver.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(identity.SubjectID))
	}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	r.Header.Set("X-API-Key", "api-key-hashed")
	handler.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body apierr.Body
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, authRequiredMessage, body.Message)
	assert.Equal(t, "Unauthorized", body.Error)
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := BearerToken(r)
	assert.False(t, ok)

	r.Header.Set("Authorization", "bearer abc")
	token, ok := BearerToken(r)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	_, ok = BearerToken(r)
	assert.False(t, ok)
}

func jwtSubject(sub string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: sub}
}
