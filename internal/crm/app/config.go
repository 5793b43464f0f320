package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/telecrm/telecrm/pkg/sessionx"
)

type Config struct {
	SessionSecret string        // Required: HMAC secret for session tokens
	Issuer        string        // Optional: issuer claim for session tokens (default: telecrm)
	CookieName    string        // Optional: session cookie name (default: telecrm_session)
	SessionTTL    time.Duration // Optional: session lifetime (default: 1 year)
	OwnerOpenID   string        // Optional: identity promoted to admin on every sign-in

	DatabaseFile string // Optional: path to SQLite database file (default: ./telecrm.db)
	PepperFile   string // Optional: path to password-hashing pepper file (default: ./pepper)
	PublicDir    string // Optional: directory of static frontend assets (default: ./public)

	// OAuth provider settings. Empty client id disables OAuth routes.
	OAuthProviderName string
	OAuthClientID     string
	OAuthClientSecret string
	OAuthAuthURL      string
	OAuthTokenURL     string
	OAuthUserInfoURL  string
	OAuthRedirectURL  string
	OAuthScopes       []string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		SessionSecret: os.Getenv("CRM_SESSION_SECRET"),
		Issuer:        getEnvOrDefault("CRM_ISSUER", "telecrm"),
		CookieName:    getEnvOrDefault("CRM_COOKIE_NAME", "telecrm_session"),
		SessionTTL:    getEnvDurationOrDefault("CRM_SESSION_TTL", sessionx.DefaultTTL),
		OwnerOpenID:   os.Getenv("CRM_OWNER_OPEN_ID"),

		DatabaseFile: getEnvOrDefault("CRM_DATABASE_FILE", "telecrm.db"),
		PepperFile:   getEnvOrDefault("CRM_PEPPER_FILE", "pepper"),
		PublicDir:    getEnvOrDefault("CRM_PUBLIC_DIR", "public"),

		OAuthProviderName: getEnvOrDefault("OAUTH_PROVIDER_NAME", "oauth"),
		OAuthClientID:     os.Getenv("OAUTH_CLIENT_ID"),
		OAuthClientSecret: os.Getenv("OAUTH_CLIENT_SECRET"),
		OAuthAuthURL:      os.Getenv("OAUTH_AUTH_URL"),
		OAuthTokenURL:     os.Getenv("OAUTH_TOKEN_URL"),
		OAuthUserInfoURL:  os.Getenv("OAUTH_USERINFO_URL"),
		OAuthRedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	if scopes := os.Getenv("OAUTH_SCOPES"); scopes != "" {
		for _, s := range strings.Split(scopes, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.OAuthScopes = append(cfg.OAuthScopes, s)
			}
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
