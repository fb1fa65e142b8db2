package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLandingPage(t *testing.T) {
	lh, err := NewLandingHandlers("http://localhost:3000", []models.Client{
		{ClientID: "web-app", ClientSecret: "web-secret", AllowedGrants: []string{"password", "refresh_token"}, Active: true},
		{ClientID: "retired", ClientSecret: "old", Active: false},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	lh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "web-app")
	assert.Contains(t, body, "password, refresh_token")
	assert.Contains(t, body, "http://localhost:3000/oauth/token")
	assert.Contains(t, body, "api-key-123456")
	assert.NotContains(t, body, "retired")
}

func TestLandingPageWithoutClients(t *testing.T) {
	lh, err := NewLandingHandlers("", nil)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	lh.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, rec.Body.String(), "No clients configured")
}
