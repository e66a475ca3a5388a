package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alkime/xivix/internal/postformat"
	"github.com/alkime/xivix/internal/provider"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/ulule/limiter/v3"
)

const (
	// EnvProduction represents the production environment.
	EnvProduction = "production"
	// EnvDevelopment represents the development environment.
	EnvDevelopment = "development"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Env        string `envconfig:"ENV" default:"development"`
	Port       string `envconfig:"PORT" default:"8080"`
	AppVersion string `envconfig:"APP_VERSION" default:"7.0.0"`

	// Security settings
	HSTSMaxAge         int      `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	CSPMode            string   `envconfig:"CSP_MODE" default:"relaxed"`
	CORSAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	RateLimit          string   `envconfig:"RATE_LIMIT" default:"60-M"`

	// Logging settings
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Provider settings
	Provider        string        `envconfig:"PROVIDER" default:"gemini"`
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	AnthropicAPIKey string        `envconfig:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY"`
	ProviderModel   string        `envconfig:"PROVIDER_MODEL"`
	ProviderTimeout time.Duration `envconfig:"PROVIDER_TIMEOUT" default:"90s"`

	// Pipeline settings
	PipelinePreset        string `envconfig:"PIPELINE_PRESET" default:"classic"`
	ReadabilityGroupSize  int    `envconfig:"READABILITY_GROUP_SIZE" default:"0"`
	ReadabilityRandomized bool   `envconfig:"READABILITY_RANDOMIZED" default:"false"`
	ReadabilitySeed       uint64 `envconfig:"READABILITY_SEED" default:"0"`
	BulkMaxTopics         int    `envconfig:"BULK_MAX_TOPICS" default:"10"`
}

// LoadConfig loads configuration from .env file and environment variables.
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional for development)
	if err := godotenv.Load(); err != nil {
		// Not an error if file doesn't exist (expected in production)
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	var errs []error

	if _, err := provider.ParseKind(c.Provider); err != nil {
		errs = append(errs, err)
	}
	if _, err := postformat.ParsePreset(c.PipelinePreset); err != nil {
		errs = append(errs, err)
	}
	if _, err := limiter.NewRateFromFormatted(c.RateLimit); err != nil {
		errs = append(errs, fmt.Errorf("RATE_LIMIT: %w", err))
	}
	if c.ProviderTimeout <= 0 {
		errs = append(errs, errors.New("PROVIDER_TIMEOUT must be positive"))
	}
	if c.ReadabilityGroupSize < 0 {
		errs = append(errs, errors.New("READABILITY_GROUP_SIZE must not be negative"))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// ProviderKind returns the configured provider backend.
func (c *Config) ProviderKind() provider.Kind {
	kind, err := provider.ParseKind(c.Provider)
	if err != nil {
		return provider.KindGemini
	}
	return kind
}

// ProviderAPIKey returns the credential for the configured provider.
func (c *Config) ProviderAPIKey() string {
	switch c.ProviderKind() {
	case provider.KindAnthropic:
		return c.AnthropicAPIKey
	case provider.KindOpenAI:
		return c.OpenAIAPIKey
	default:
		return c.GeminiAPIKey
	}
}

// Pipeline returns the formatting configuration: the preset with any
// readability overrides applied.
func (c *Config) Pipeline() postformat.Config {
	cfg, err := postformat.ParsePreset(c.PipelinePreset)
	if err != nil {
		cfg = postformat.PresetClassic()
	}
	if c.ReadabilityGroupSize > 0 {
		cfg.GroupSize = c.ReadabilityGroupSize
	}
	cfg.Randomized = c.ReadabilityRandomized
	cfg.Seed = c.ReadabilitySeed
	return cfg
}

// PresetName returns the normalized pipeline preset name.
func (c *Config) PresetName() string {
	name := strings.ToLower(strings.TrimSpace(c.PipelinePreset))
	if name == "" {
		return postformat.PresetNameClassic
	}
	return name
}

// BuildCSP constructs Content Security Policy based on mode.
func BuildCSP(mode string) string {
	if mode == "strict" {
		// Production CSP
		return "default-src 'self'; " +
			"style-src 'self' 'unsafe-inline'; " +
			"script-src 'self'; " +
			"img-src 'self' data:; " +
			"connect-src 'self'; " +
			"object-src 'none'; " +
			"base-uri 'self'; " +
			"form-action 'self'"
	}

	// Development/relaxed CSP
	return "default-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		"script-src 'self' 'unsafe-inline'; " +
		"connect-src 'self'; " +
		"img-src 'self' data:"
}
