package internal

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	Port     int
	LogLevel string

	// Public base URL of the site (used for absolute links)
	BaseURL string

	// Templates are read from disk when set (hot reload in development).
	// Empty means the embedded templates are used.
	TemplatesDir string

	// Brand
	BrandName    string
	BrandTagline string

	// Lead capture
	ContactEnabled  bool
	FormspreeID     string // Form-relay service ID
	FormRelayURL    string // Base URL of the form-relay service
	OrderWebhookURL string // Optional direct webhook (Zapier/Make) for the order form

	// Social links
	InstagramURL string
	FacebookURL  string

	// Delay between the acknowledgment banner and the confirmation view
	ConfirmDelay time.Duration

	// Outbound request timeout for the relay/webhook call
	RelayTimeout time.Duration

	// Graceful shutdown budget (HTTP server + in-flight relay requests)
	ShutdownTimeout time.Duration

	// Order form rate limiting (per client IP)
	OrderRateLimit  int
	OrderRateWindow time.Duration

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		BaseURL:      getEnv("BASE_URL", "http://localhost:8080"),
		TemplatesDir: getEnv("TEMPLATES_DIR", ""),

		BrandName:    getEnv("BRAND_NAME", "The Local Guys' Organics"),
		BrandTagline: getEnv("BRAND_TAGLINE", "Ultra-fresh, pesticide-free organic vegetables — grown locally with terraponics for homes & restaurants."),

		ContactEnabled:  getEnvBool("CONTACT_ENABLED", true),
		FormspreeID:     getEnv("FORMSPREE_ID", ""),
		FormRelayURL:    getEnv("FORM_RELAY_URL", "https://formspree.io"),
		OrderWebhookURL: getEnv("ORDER_WEBHOOK_URL", ""),

		InstagramURL: getEnv("INSTAGRAM_URL", "#"),
		FacebookURL:  getEnv("FACEBOOK_URL", "#"),

		ConfirmDelay:    getEnvDuration("CONFIRM_DELAY", 900*time.Millisecond),
		RelayTimeout:    getEnvDuration("RELAY_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		OrderRateLimit:  getEnvInt("ORDER_RATE_LIMIT", 10),
		OrderRateWindow: getEnvDuration("ORDER_RATE_WINDOW", time.Minute),

		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail at request time.
func (c *Config) Validate() error {
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be either 'development' or 'production', got: %s", c.Env)
	}

	if err := validateHTTPURL("FORM_RELAY_URL", c.FormRelayURL); err != nil {
		return err
	}

	if c.OrderWebhookURL != "" {
		if err := validateHTTPURL("ORDER_WEBHOOK_URL", c.OrderWebhookURL); err != nil {
			return err
		}
	}

	if c.ConfirmDelay < 0 {
		return fmt.Errorf("CONFIRM_DELAY must not be negative, got: %s", c.ConfirmDelay)
	}
	if c.RelayTimeout <= 0 {
		return fmt.Errorf("RELAY_TIMEOUT must be positive, got: %s", c.RelayTimeout)
	}
	if c.OrderRateLimit <= 0 {
		return fmt.Errorf("ORDER_RATE_LIMIT must be positive, got: %d", c.OrderRateLimit)
	}

	return nil
}

// IsDev reports whether the server runs in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func validateHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got: %s", key, raw)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
