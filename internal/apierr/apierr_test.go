package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteClientError(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, fmt.Errorf("lookup: %w", NotFound("User with ID %s not found", "42")))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Body
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, Body{StatusCode: 404, Message: "User with ID 42 not found", Error: "Not Found"}, body)
}

func TestWriteHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, errors.New("redis: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "redis")
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, StatusOf(Unauthorized("nope")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(fmt.Errorf("wrapped: %w", BadRequest("bad"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("boom")))
}

type sample struct {
	Name  string `json:"name" validate:"required"`
	Order string `query:"sortOrder" validate:"oneof=asc desc"`
	Page  int    `query:"page" validate:"min=1"`
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(sample{Name: "x", Order: "asc", Page: 1}))

	err := Validate(sample{Order: "up", Page: 0})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "sortOrder must be one of the following values: asc, desc")
	assert.Contains(t, err.Error(), "page must not be less than 1")
}
