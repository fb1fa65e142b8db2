package api

import (
	"net/http"

	"github.com/andyleap/mockapi/internal/auth"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Routes collects the handlers mounted by NewRouter.
type Routes struct {
	Server   *Server
	OAuth    *OAuthAPIHandlers
	Users    *ResourceHandlers
	Products *ResourceHandlers
	Sales    *ResourceHandlers
	Uploads  *UploadHandlers
	Resolver *auth.Resolver
	Landing  http.Handler
}

// NewRouter builds the full handler tree, middleware included.
func NewRouter(rt Routes) http.Handler {
	mux := http.NewServeMux()
	protect := rt.Resolver.Middleware

	mux.Handle("GET /{$}", rt.Landing)
	mux.HandleFunc("GET /health", rt.Server.HealthHandler)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/", rt.Server.NotFoundHandler)

	// OAuth routes
	mux.HandleFunc("GET /oauth/authorize", rt.OAuth.AuthorizeHandler)
	mux.HandleFunc("POST /oauth/token", rt.OAuth.TokenHandler)
	mux.HandleFunc("POST /oauth/introspect", rt.OAuth.IntrospectHandler)
	mux.HandleFunc("POST /oauth/revoke", rt.OAuth.RevokeHandler)
	mux.HandleFunc("GET /oauth/userinfo", rt.OAuth.UserInfoHandler)
	mux.HandleFunc("GET /oauth/.well-known/oauth-authorization-server", rt.OAuth.MetadataHandler)

	// Protected resource routes
	mountResource(mux, "/api/users", rt.Users, protect)
	mountResource(mux, "/api/products", rt.Products, protect)
	mountResource(mux, "/api/sales", rt.Sales, protect)

	mux.Handle("POST /api/upload/single", protect(http.HandlerFunc(rt.Uploads.SingleHandler)))
	mux.Handle("POST /api/upload/multiple", protect(http.HandlerFunc(rt.Uploads.MultipleHandler)))
	mux.Handle("POST /api/upload/image", protect(http.HandlerFunc(rt.Uploads.ImageHandler)))

	return LoggingMiddleware(MetricsMiddleware(CORSMiddleware(mux)))
}

func mountResource(mux *http.ServeMux, base string, rh *ResourceHandlers, protect func(http.Handler) http.Handler) {
	mux.Handle("GET "+base, protect(http.HandlerFunc(rh.ListHandler)))
	mux.Handle("GET "+base+"/paginated", protect(http.HandlerFunc(rh.ListHandler)))
	mux.Handle("POST "+base, protect(http.HandlerFunc(rh.CreateHandler)))
	mux.Handle("GET "+base+"/{id}", protect(http.HandlerFunc(rh.GetHandler)))
	mux.Handle("PUT "+base+"/{id}", protect(http.HandlerFunc(rh.UpdateHandler)))
	mux.Handle("PATCH "+base+"/{id}", protect(http.HandlerFunc(rh.UpdateHandler)))
	mux.Handle("DELETE "+base+"/{id}", protect(http.HandlerFunc(rh.DeleteHandler)))
}
