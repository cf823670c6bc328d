// Package main is the entry point for the Design CRM server.
//
// Its job is deliberately small: load configuration from the environment,
// build the logger, and hand everything to internal/server. All actual
// logic lives in the internal packages.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sakif/design-crm/internal/auth"
	"github.com/sakif/design-crm/internal/email"
	"github.com/sakif/design-crm/internal/server"
)

// envOr returns the value of the environment variable k, or d when unset.
func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func main() {
	// A .env file is optional — in production everything comes from real
	// environment variables.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "loaded .env")
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := envOr("DB_PATH", "data/crm.db")
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	callbackURL := os.Getenv("OIDC_CALLBACK_URL")
	if callbackURL == "" {
		callbackURL = fmt.Sprintf("http://localhost:%d/auth/callback", port)
	}

	var corsOrigins []string
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		for _, origin := range strings.Split(v, ",") {
			corsOrigins = append(corsOrigins, strings.TrimSpace(origin))
		}
	}

	cfg := server.Config{
		Port:      port,
		DBPath:    dbPath,
		JWTSecret: os.Getenv("JWT_SECRET"),
		OIDC: auth.ProviderConfig{
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			AuthURL:      os.Getenv("OIDC_AUTH_URL"),
			TokenURL:     os.Getenv("OIDC_TOKEN_URL"),
			UserInfoURL:  os.Getenv("OIDC_USERINFO_URL"),
			CallbackURL:  callbackURL,
		},
		SMTP: email.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     envOr("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
		},
		FromEmail:   envOr("FROM_EMAIL", "noreply@designcrm.com"),
		CORSOrigins: corsOrigins,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down (Ctrl+C or SIGTERM).
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
