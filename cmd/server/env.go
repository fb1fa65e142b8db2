package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/joho/godotenv"
)

// LoadEnv fills the process environment before flags are parsed: first from
// an AWS Secrets Manager JSON secret when SECRET_ID is set, then from a .env
// file. Variables already present are kept unless SECRET_OVERWRITE=true.
func LoadEnv(ctx context.Context) {
	if secretID := os.Getenv("SECRET_ID"); secretID != "" {
		overwrite := strings.EqualFold(os.Getenv("SECRET_OVERWRITE"), "true")
		if err := loadSecret(ctx, secretID, overwrite); err != nil {
			slog.Warn("Skipping AWS Secrets Manager load", "secret_id", secretID, "error", err)
		}
	}

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		slog.Debug("No .env file loaded", "path", envFile, "error", err)
	}
}

func loadSecret(ctx context.Context, secretID string, overwrite bool) error {
	var opts []func(*awsconfig.LoadOptions) error
	if region := os.Getenv("SECRET_REGION"); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to load AWS config: %w", err)
	}

	output, err := secretsmanager.NewFromConfig(cfg).GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch secret %s: %w", secretID, err)
	}

	var payload []byte
	switch {
	case output.SecretString != nil:
		payload = []byte(*output.SecretString)
	case len(output.SecretBinary) > 0:
		payload = output.SecretBinary
	default:
		return fmt.Errorf("secret %s has no payload", secretID)
	}

	applied, err := applySecret(payload, overwrite)
	if err != nil {
		return fmt.Errorf("failed to apply secret %s: %w", secretID, err)
	}
	slog.Info("Loaded environment from AWS Secrets Manager", "secret_id", secretID, "applied", applied)
	return nil
}

// applySecret sets one environment variable per key of a JSON object and
// returns how many it set.
func applySecret(payload []byte, overwrite bool) (int, error) {
	var kv map[string]any
	if err := json.Unmarshal(payload, &kv); err != nil {
		return 0, fmt.Errorf("secret is not a JSON object: %w", err)
	}

	applied := 0
	for key, val := range kv {
		if _, exists := os.LookupEnv(key); exists && !overwrite {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return applied, fmt.Errorf("failed to set %s: %w", key, err)
		}
		applied++
	}
	return applied, nil
}
