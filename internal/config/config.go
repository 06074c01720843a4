// Package config loads application configuration from environment
// variables. A .env file in the working directory is read first when
// present; real environment variables always win over it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the core runtime configuration. Feature blocks (cache, rate
// limit, metadata, broker) have their own loaders next to this one.
type Config struct {
	Env       string     // application environment (e.g. "dev", "prod")
	Port      string     // HTTP port to listen on
	LogLevel  slog.Level // minimum level written by the JSON logger
	DBUser    string     // database username
	DBPass    string     // database password (optional)
	DBHost    string     // database host address
	DBPort    string     // database port number
	DBName    string     // database name
	DBMigrate bool       // create missing tables at startup
	JWTSecret string     // HMAC secret the auth provider signs access tokens with
	JWTIssuer string     // expected "iss" claim; empty accepts any issuer
}

// LoadDotEnv reads .env into the process environment if the file exists.
// Variables already set are left alone.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the core configuration. Every missing or malformed required
// variable is reported in the returned error.
func Load() (Config, error) {
	var r required
	cfg := Config{
		Env:       r.must("APP_ENV"),
		Port:      envStr("APP_PORT", "8080"),
		LogLevel:  parseLevel(envStr("LOG_LEVEL", "info")),
		DBUser:    r.must("DB_USER"),
		DBPass:    os.Getenv("DB_PASS"), // empty allowed
		DBHost:    r.must("DB_HOST"),
		DBPort:    envStr("DB_PORT", "3306"),
		DBName:    r.must("DB_NAME"),
		DBMigrate: envBool("DB_MIGRATE", false),
		JWTSecret: r.must("JWT_SECRET"),
		JWTIssuer: os.Getenv("JWT_ISSUER"),
	}
	if err := r.err(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// required collects the problems found while reading mandatory variables
// so that one run reports all of them.
type required struct {
	errs []error
}

// must retrieves the value of a required environment variable.
func (r *required) must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		r.errs = append(r.errs, fmt.Errorf("missing required env var: %s", key))
	}
	return v
}

func (r *required) err() error { return errors.Join(r.errs...) }

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
