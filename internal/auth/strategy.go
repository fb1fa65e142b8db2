package auth

import (
	"log/slog"
	"net/http"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
)

// Strategy authenticates a request from one credential source. It returns
// (nil, nil) when its credential source is absent from the request.
type Strategy interface {
	Name() string
	Attempt(r *http.Request) (*models.Identity, error)
}

const authRequiredMessage = "Authentication required. Please provide valid Bearer token, API Key (X-API-Key header), or Basic Auth credentials"

// Resolver tries strategies in order and accepts the first identity. A
// rejecting strategy never stops the ones after it.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

// Resolve returns the caller's identity or a single Unauthorized error that
// does not say which strategy came closest.
func (res *Resolver) Resolve(r *http.Request) (*models.Identity, error) {
	for _, s := range res.strategies {
		identity, err := s.Attempt(r)
		switch {
		case err != nil:
			authAttempts.WithLabelValues(s.Name(), "rejected").Inc()
			slog.Debug("Authentication strategy rejected request", "strategy", s.Name(), "reason", err)
		case identity != nil:
			authAttempts.WithLabelValues(s.Name(), "accepted").Inc()
			return identity, nil
		default:
			authAttempts.WithLabelValues(s.Name(), "absent").Inc()
		}
	}
	return nil, apierr.Unauthorized(authRequiredMessage)
}
