package auth

import (
	"context"
	"net/http"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
)

type contextKey struct{}

// Middleware rejects requests the resolver cannot authenticate and stores
// the identity in the request context otherwise.
func (res *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS preflight carries no credentials.
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := res.Resolve(r)
		if err != nil {
			apierr.Write(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), contextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IdentityFromContext returns the identity stored by Middleware.
func IdentityFromContext(ctx context.Context) (*models.Identity, bool) {
	identity, ok := ctx.Value(contextKey{}).(*models.Identity)
	return identity, ok
}
