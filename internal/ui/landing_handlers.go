package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"

	"github.com/andyleap/mockapi/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// DemoCredential is one ready-to-use credential shown on the landing page.
type DemoCredential struct {
	Method string
	Value  string
	Note   string
}

// LandingData is rendered by landing.html.
type LandingData struct {
	BaseURL     string
	Clients     []models.Client
	Credentials []DemoCredential
}

type LandingHandlers struct {
	templates *template.Template
	data      LandingData
}

// NewLandingHandlers parses the embedded templates. Inactive clients are
// left off the page.
func NewLandingHandlers(baseURL string, clients []models.Client) (*LandingHandlers, error) {
	templates, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}

	active := slices.DeleteFunc(slices.Clone(clients), func(c models.Client) bool {
		return !c.Active
	})

	return &LandingHandlers{
		templates: templates,
		data: LandingData{
			BaseURL: baseURL,
			Clients: active,
			Credentials: []DemoCredential{
				{Method: "X-API-Key", Value: "api-key-123456", Note: "admin"},
				{Method: "X-API-Key", Value: "api-key-789012", Note: "user"},
				{Method: "Basic", Value: "admin:admin123", Note: "admin"},
				{Method: "Basic", Value: "user:user123", Note: "user"},
			},
		},
	}, nil
}

// ServeHTTP renders the service landing page
func (lh *LandingHandlers) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := lh.templates.ExecuteTemplate(w, "landing.html", lh.data); err != nil {
		slog.Error("Failed to render landing template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
