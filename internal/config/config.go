package config

import (
	"os"
	"strconv"

	"github.com/fieldline/lead-relay/internal/match"
	"github.com/fieldline/lead-relay/internal/usecase"
)

type Config struct {
	Port string

	DatabaseURL string

	RabbitUser string
	RabbitPass string
	RabbitHost string
	RabbitPort string

	StoreAPIKey  string
	StoreBaseID  string
	StoreBaseURL string

	BooksClientID     string
	BooksClientSecret string
	BooksRedirectURL  string
	BooksBaseURL      string
	BooksAuthURL      string
	BooksTokenURL     string

	WebhookSecret string

	MailHost   string
	MailPort   int
	MailUser   string
	MailPass   string
	AlertFrom  string
	AlertTo    string

	MatchThreshold float64
}

// Load reads the environment and fails fast on missing credentials so
// no network call is ever attempted with a half-configured process.
func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RabbitUser:        getEnv("RABBITMQ_USER", "guest"),
		RabbitPass:        getEnv("RABBITMQ_PASS", "guest"),
		RabbitHost:        getEnv("RABBITMQ_HOST", "localhost"),
		RabbitPort:        getEnv("RABBITMQ_PORT", "5672"),
		StoreAPIKey:       os.Getenv("RECORDSTORE_API_KEY"),
		StoreBaseID:       os.Getenv("RECORDSTORE_BASE_ID"),
		StoreBaseURL:      os.Getenv("RECORDSTORE_BASE_URL"),
		BooksClientID:     os.Getenv("BOOKS_CLIENT_ID"),
		BooksClientSecret: os.Getenv("BOOKS_CLIENT_SECRET"),
		BooksRedirectURL:  os.Getenv("BOOKS_REDIRECT_URL"),
		BooksBaseURL:      os.Getenv("BOOKS_BASE_URL"),
		BooksAuthURL:      os.Getenv("BOOKS_AUTH_URL"),
		BooksTokenURL:     os.Getenv("BOOKS_TOKEN_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		MailHost:          os.Getenv("MAIL_HOST"),
		MailPort:          getEnvInt("MAIL_PORT", 587),
		MailUser:          os.Getenv("MAIL_USER"),
		MailPass:          os.Getenv("MAIL_PASS"),
		AlertFrom:         getEnv("ALERT_FROM", "no-reply@fieldline.io"),
		AlertTo:           os.Getenv("ALERT_TO"),
		MatchThreshold:    getEnvFloat("MATCH_THRESHOLD", match.DefaultThreshold),
	}

	for field, value := range map[string]string{
		"RECORDSTORE_API_KEY": cfg.StoreAPIKey,
		"RECORDSTORE_BASE_ID": cfg.StoreBaseID,
		"WEBHOOK_SECRET":      cfg.WebhookSecret,
		"DATABASE_URL":        cfg.DatabaseURL,
	} {
		if value == "" {
			return nil, usecase.NewConfigError(field)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
