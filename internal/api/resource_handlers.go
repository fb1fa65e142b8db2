package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/query"
	"github.com/andyleap/mockapi/internal/resources"
)

const maxBodyBytes = 1 << 20

// ResourceHandlers exposes one resource service over HTTP.
type ResourceHandlers struct {
	service *resources.Service
}

func NewResourceHandlers(service *resources.Service) *ResourceHandlers {
	return &ResourceHandlers{
		service: service,
	}
}

// ListHandler filters, sorts and paginates the collection
// GET /api/{resource}?page=1&limit=10&sortBy=price&fields=id,name
func (rh *ResourceHandlers) ListHandler(w http.ResponseWriter, r *http.Request) {
	q, err := query.ParseQuery(r.URL.Query())
	if err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rh.service.List(q))
}

// GetHandler returns one record
// GET /api/{resource}/{id}
func (rh *ResourceHandlers) GetHandler(w http.ResponseWriter, r *http.Request) {
	record, err := rh.service.Get(r.PathValue("id"))
	if err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// CreateHandler stores a new record
// POST /api/{resource}
func (rh *ResourceHandlers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	record, err := rh.service.Create(body)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// UpdateHandler shallow-merges the body into an existing record
// PUT|PATCH /api/{resource}/{id}
func (rh *ResourceHandlers) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	record, err := rh.service.Update(r.PathValue("id"), body)
	if err != nil {
		apierr.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// DeleteHandler removes a record
// DELETE /api/{resource}/{id}
func (rh *ResourceHandlers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := rh.service.Delete(r.PathValue("id")); err != nil {
		apierr.Write(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apierr.New(http.StatusRequestEntityTooLarge, "Request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, apierr.BadRequest("Failed to read request body")
	}
	return body, nil
}
