package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Expense backend
	ExpenseAPIURL     string
	UserAPIURL        string
	AuthAPIURL        string
	HTTPClientTimeout time.Duration

	// Credentials
	APIToken          string
	CredentialsDBPath string
	Profile           string

	// Sessions
	SessionCacheSize int
	SessionTTL       time.Duration

	RateLimitPerMinute int

	// AMQP (empty URL disables notifications)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID      string
	GoogleDashboardSheet     string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// OpenTelemetry
	OTelEnabled     bool
	OTelEndpoint    string
	OTelInsecure    bool
	OTelServiceName string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8081"),

		ExpenseAPIURL:     getEnv("EXPENSE_API_URL", "http://localhost:8081/expense"),
		UserAPIURL:        getEnv("USER_API_URL", "http://localhost:8080/user"),
		AuthAPIURL:        getEnv("AUTH_API_URL", "http://localhost:8080/auth"),
		HTTPClientTimeout: getEnvDuration("HTTP_CLIENT_TIMEOUT", 0),

		APIToken:          getEnv("API_TOKEN", ""),
		CredentialsDBPath: getEnv("CREDENTIALS_DB_PATH", "./data/credentials.db"),
		Profile:           getEnv("EXPENSEDASH_PROFILE", "default"),

		SessionCacheSize: getEnvInt("SESSION_CACHE_SIZE", 100),
		SessionTTL:       getEnvDuration("SESSION_TTL", 30*time.Minute),

		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "expensedash"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "notifications"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleDashboardSheet:     getEnv("GOOGLE_DASHBOARD_SHEET", "Dashboard"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		OTelEnabled:     getEnvBool("OTEL_ENABLED", false),
		OTelEndpoint:    getEnv("OTEL_ENDPOINT", "localhost:4317"),
		OTelInsecure:    getEnvBool("OTEL_INSECURE", true),
		OTelServiceName: getEnv("OTEL_SERVICE_NAME", "expensedash"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	return cfg
}

// SheetsEnabled reports whether snapshot export goes to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, u := range []struct{ name, value string }{
		{"EXPENSE_API_URL", c.ExpenseAPIURL},
		{"USER_API_URL", c.UserAPIURL},
		{"AUTH_API_URL", c.AuthAPIURL},
	} {
		if u.value == "" {
			errors = append(errors, fmt.Sprintf("%s cannot be empty", u.name))
			continue
		}
		parsed, err := url.Parse(u.value)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': %v", u.name, u.value, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid %s scheme '%s': must be 'http' or 'https'", u.name, parsed.Scheme))
		}
	}

	if c.HTTPClientTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid HTTP client timeout %v: must not be negative", c.HTTPClientTimeout))
	}

	if c.CredentialsDBPath == "" {
		errors = append(errors, "credentials database path cannot be empty")
	} else {
		dir := filepath.Dir(c.CredentialsDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create credentials database directory '%s': %v", dir, err))
				}
			}
		}
	}
	if strings.TrimSpace(c.Profile) == "" {
		errors = append(errors, "profile name cannot be empty")
	}

	if c.SessionCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid session cache size %d: must be at least 1", c.SessionCacheSize))
	} else if c.SessionCacheSize > 100000 {
		errors = append(errors, fmt.Sprintf("invalid session cache size %d: must be at most 100000", c.SessionCacheSize))
	}
	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	} else if c.SessionTTL > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at most 24 hours", c.SessionTTL))
	}

	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 per minute", c.RateLimitPerMinute))
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		if c.GoogleDashboardSheet == "" {
			errors = append(errors, "Google dashboard sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.OTelEnabled && c.OTelEndpoint == "" {
		errors = append(errors, "OTEL_ENDPOINT cannot be empty when OTEL_ENABLED is true")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !oneOf(strings.ToLower(c.LogLevel), validLevels) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	validFormats := []string{"text", "json"}
	if !oneOf(strings.ToLower(c.LogFormat), validFormats) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func oneOf(v string, list []string) bool {
	for _, item := range list {
		if v == item {
			return true
		}
	}
	return false
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
