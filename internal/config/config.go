package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv              string
	Port                string
	LogLevel            string
	LogFormat           string
	WebhookToken        string
	ClientBearerToken   string
	MaxClientsPerTenant int
	CORSAllowedOrigins  []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
		WebhookToken:       getEnv("RELAY_WEBHOOK_TOKEN", ""),
		ClientBearerToken:  getEnv("ACCEPT_CLIENT_BEARER", ""),
		CORSAllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	maxClients := getEnv("MAX_CLIENTS_PER_TENANT", "100")
	n, err := strconv.Atoi(maxClients)
	if err != nil {
		return nil, fmt.Errorf("MAX_CLIENTS_PER_TENANT must be an integer: %w", err)
	}
	if n <= 0 {
		return nil, fmt.Errorf("MAX_CLIENTS_PER_TENANT must be positive, got %d", n)
	}
	cfg.MaxClientsPerTenant = n

	if len(cfg.CORSAllowedOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must not be empty")
	}

	return cfg, nil
}

// WebhookAuthEnforced reports whether webhook ingestion requires the shared token.
func (c *Config) WebhookAuthEnforced() bool {
	return c.WebhookToken != ""
}

// ClientAuthEnforced reports whether viewer admission requires the bearer token.
func (c *Config) ClientAuthEnforced() bool {
	return c.ClientBearerToken != ""
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
