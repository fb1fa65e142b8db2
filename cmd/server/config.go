package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Config holds all configuration options
type Config struct {
	// Server config
	Port       string `long:"port" env:"PORT" default:"3000" description:"Server port"`
	BaseURL    string `long:"base-url" env:"BASE_URL" default:"http://localhost:3000" description:"Public URL used as token issuer and in server metadata"`
	CDNBaseURL string `long:"cdn-base-url" env:"CDN_BASE_URL" default:"https://cdn.mockapi.local" description:"Base URL of fabricated upload links"`
	LogFormat  string `long:"log-format" env:"LOG_FORMAT" default:"text" choice:"text" choice:"json" description:"Log output format"`
	LogLevel   string `long:"log-level" env:"LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Minimum log level"`

	// Token config
	JWTSecret      string        `long:"jwt-secret" env:"JWT_SECRET" default:"mock-api-secret-key-change-in-production" description:"HMAC secret for access tokens"`
	AccessTokenTTL time.Duration `long:"access-token-ttl" env:"ACCESS_TOKEN_TTL" default:"1h" description:"Access token lifetime"`
	DemoUserID     string        `long:"demo-user-id" env:"DEMO_USER_ID" default:"1" description:"User bound to codes minted by /oauth/authorize"`

	// Storage config
	FixtureMode string `long:"fixture-mode" env:"FIXTURE_MODE" default:"filesystem" choice:"filesystem" choice:"s3" description:"Where fixtures are read from"`
	TokenStore  string `long:"token-store" env:"TOKEN_STORE" default:"memory" choice:"memory" choice:"redis" description:"Authorization code and refresh token backend"`

	// Filesystem fixtures
	DataPath string `long:"data-path" env:"DATA_PATH" default:"./data" description:"Fixture directory"`

	// S3 fixtures
	S3 struct {
		Endpoint  string `long:"s3-endpoint" env:"S3_ENDPOINT" default:"localhost:9000" description:"S3 endpoint (host:port)"`
		Bucket    string `long:"s3-bucket" env:"S3_BUCKET" default:"mockapi" description:"S3 bucket name"`
		Prefix    string `long:"s3-prefix" env:"S3_PREFIX" default:"fixtures/" description:"Key prefix of fixture objects"`
		AccessKey string `long:"s3-access-key" env:"S3_ACCESS_KEY" default:"minioadmin" description:"S3 access key"`
		SecretKey string `long:"s3-secret-key" env:"S3_SECRET_KEY" default:"minioadmin" description:"S3 secret key"`
		UseSSL    bool   `long:"s3-use-ssl" env:"S3_USE_SSL" description:"Use SSL for S3 connections"`
	} `group:"S3 Fixture Options"`

	// Redis config
	Redis struct {
		Addr     string `long:"redis-addr" env:"REDIS_ADDR" default:"localhost:6379" description:"Redis address"`
		Password string `long:"redis-password" env:"REDIS_PASSWORD" description:"Redis password"`
		DB       int    `long:"redis-db" env:"REDIS_DB" default:"0" description:"Redis database number"`
	} `group:"Redis Options"`
}

// LoadConfig parses configuration from environment variables and command line flags
func LoadConfig(args []string) (*Config, error) {
	var config Config

	parser := flags.NewParser(&config, flags.Default)
	parser.Usage = "[OPTIONS]"

	if _, err := parser.ParseArgs(args); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
	return &config, nil
}

// Logger builds the process logger from the log options.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
