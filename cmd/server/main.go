package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andyleap/mockapi/internal/api"
	"github.com/andyleap/mockapi/internal/auth"
	"github.com/andyleap/mockapi/internal/oauth"
	"github.com/andyleap/mockapi/internal/resources"
	"github.com/andyleap/mockapi/internal/storage"
	"github.com/andyleap/mockapi/internal/ui"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	LoadEnv(ctx)

	cfg, err := LoadConfig(os.Args[1:])
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	slog.SetDefault(cfg.Logger())

	// Setup fixture source
	var fixtures storage.FixtureSource
	switch cfg.FixtureMode {
	case "s3":
		s3Fixtures, err := storage.NewS3Fixtures(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Prefix, cfg.S3.UseSSL)
		if err != nil {
			slog.Error("Failed to create S3 fixture source", "error", err)
			os.Exit(1)
		}
		fixtures = s3Fixtures
		slog.Info("Using S3 fixtures", "endpoint", cfg.S3.Endpoint, "bucket", cfg.S3.Bucket, "prefix", cfg.S3.Prefix)
	case "filesystem":
		fsFixtures, err := storage.NewFilesystemFixtures(cfg.DataPath)
		if err != nil {
			slog.Error("Failed to create filesystem fixture source", "error", err)
			os.Exit(1)
		}
		fixtures = fsFixtures
		slog.Info("Using filesystem fixtures", "path", cfg.DataPath)
	default:
		slog.Error("Invalid FIXTURE_MODE", "mode", cfg.FixtureMode, "valid_modes", []string{"s3", "filesystem"})
		os.Exit(1)
	}

	// Setup token storage
	var tokenStorage storage.TokenStorage
	switch cfg.TokenStore {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		// Test Redis connection
		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()

		tokenStorage = storage.NewRedisTokenStorage(redisClient)
		slog.Info("Using Redis token store", "addr", cfg.Redis.Addr)
	case "memory":
		tokenStorage = storage.NewMemoryTokenStorage()
		slog.Warn("Using in-memory token store (not persistent)")
	default:
		slog.Error("Invalid TOKEN_STORE", "mode", cfg.TokenStore, "valid_modes", []string{"redis", "memory"})
		os.Exit(1)
	}

	// Load data
	users := storage.LoadCollection(ctx, fixtures, "users")
	products := storage.LoadCollection(ctx, fixtures, "products")
	sales := storage.LoadCollection(ctx, fixtures, "sales")

	clients, err := storage.LoadClients(ctx, fixtures, "oauth-clients")
	if err != nil {
		slog.Error("Failed to load OAuth clients", "error", err)
		os.Exit(1)
	}

	// Setup services
	accounts := storage.NewAccounts(users)
	signer := oauth.NewTokenSigner(cfg.JWTSecret, cfg.BaseURL, cfg.AccessTokenTTL)
	oauthService := oauth.NewOAuthService(clients, accounts, tokenStorage, signer, cfg.DemoUserID)

	resolver := auth.NewResolver(
		auth.NewBearerStrategy(oauthService.Signer()),
		auth.NewAPIKeyStrategy(accounts),
		auth.NewBasicStrategy(accounts),
	)

	landing, err := ui.NewLandingHandlers(cfg.BaseURL, clients)
	if err != nil {
		slog.Error("Failed to create landing page handlers", "error", err)
		os.Exit(1)
	}

	handler := api.NewRouter(api.Routes{
		Server:   api.NewServer(users, products, sales),
		OAuth:    api.NewOAuthAPIHandlers(oauthService, cfg.BaseURL),
		Users:    api.NewResourceHandlers(resources.NewService(resources.Users, users)),
		Products: api.NewResourceHandlers(resources.NewService(resources.Products, products)),
		Sales:    api.NewResourceHandlers(resources.NewService(resources.Sales, sales)),
		Uploads:  api.NewUploadHandlers(cfg.CDNBaseURL),
		Resolver: resolver,
		Landing:  landing,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Printf("Mock API server starting on http://localhost:%s\n", cfg.Port)
	fmt.Println("OAuth endpoints:")
	fmt.Println("  GET  /oauth/authorize        - Authorization code (no login step)")
	fmt.Println("  POST /oauth/token            - client_credentials, password, authorization_code, refresh_token")
	fmt.Println("  POST /oauth/introspect       - Token introspection")
	fmt.Println("  POST /oauth/revoke           - Refresh token revocation")
	fmt.Println("  GET  /oauth/userinfo         - Bearer token claims")
	fmt.Println("  GET  /oauth/.well-known/oauth-authorization-server")
	fmt.Println("Protected endpoints (Bearer, X-API-Key or Basic):")
	fmt.Println("  /api/users[/{id}]  /api/products[/{id}]  /api/sales[/{id}]")
	fmt.Println("  POST /api/upload/single  /api/upload/multiple  /api/upload/image")
	fmt.Println("  GET  /health  GET /metrics")
	fmt.Println()
	fmt.Printf("Loaded %d users, %d products, %d sales, %d clients\n", users.Len(), products.Len(), sales.Len(), len(clients))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}
