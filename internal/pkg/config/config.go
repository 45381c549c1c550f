package config

import (
	"fmt"
	"os"
	"strings"
)

type PostgresConfig struct {
	Host     string
	Port     string
	DB       string
	Username string
	Password string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

type RepositoriesConfig struct {
	Postgres PostgresConfig
}

// AssetsConfig points at the local image roots the matcher draws
// candidates from. Order matters: the primary root wins ties over the
// fallback root.
type AssetsConfig struct {
	PrimaryRoot     string
	FallbackRoot    string
	PublicPrefix    string
	MatchConfigPath string
}

// AuditConfig locates the directory destructive-action plans are written
// to before any deletion happens.
type AuditConfig struct {
	Dir string
}

type Config struct {
	Repositories RepositoriesConfig
	Assets       AssetsConfig
	Audit        AuditConfig
	ServerPort   string
	MetricsPort  string
	JWTSecret    string
}

// Load reads configuration from the environment. Missing required values
// are a configuration error: fatal, reported immediately, before any
// action is taken.
func Load() (*Config, error) {
	cfg := &Config{
		Repositories: RepositoriesConfig{
			Postgres: PostgresConfig{
				Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
				Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
				DB:       getEnvOrDefault("POSTGRES_DB", "compass_lk"),
				Username: getEnvOrDefault("POSTGRES_USER", "postgres"),
				Password: getEnvOrDefault("POSTGRES_PASSWORD", ""),
				SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
				MaxConns: 30,
				MinConns: 5,
			},
		},
		Assets: AssetsConfig{
			PrimaryRoot:     getEnvOrDefault("ASSETS_PRIMARY_ROOT", "assets/images"),
			FallbackRoot:    getEnvOrDefault("ASSETS_FALLBACK_ROOT", "assets/images/legacy"),
			PublicPrefix:    getEnvOrDefault("ASSETS_PUBLIC_PREFIX", "/images"),
			MatchConfigPath: getEnvOrDefault("ASSETS_MATCH_CONFIG", "config/matching.toml"),
		},
		Audit: AuditConfig{
			Dir: getEnvOrDefault("AUDIT_DIR", "audit"),
		},
		ServerPort:  getEnvOrDefault("SERVER_PORT", "8091"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9092"),
		JWTSecret:   getEnvOrDefault("JWT_SECRET_KEY", ""),
	}

	var missing []string
	if cfg.Repositories.Postgres.Password == "" {
		missing = append(missing, "POSTGRES_PASSWORD")
	}
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables missing: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
