package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/storage"
)

type Server struct {
	collections []*storage.Collection
}

func NewServer(collections ...*storage.Collection) *Server {
	return &Server{
		collections: collections,
	}
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	counts := make(map[string]int, len(s.collections))
	for _, c := range s.collections {
		counts[c.Name()] = c.Len()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"collections": counts,
	})
}

// NotFoundHandler answers every unrouted request with a JSON 404.
func (s *Server) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, apierr.NotFound("Cannot %s %s", r.Method, r.URL.Path))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
