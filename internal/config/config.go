package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"portfolio/internal/models"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*models.Config, error) {
	// Start with default configuration
	config := models.NewDefaultConfig()

	// Load from file if provided and exists
	if configPath != "" {
		if err := loadFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Override with environment variables
	loadFromEnvironment(config)

	// Validate the final configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(config *models.Config, filePath string) error {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", filePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return nil
}

// loadFromEnvironment loads configuration from environment variables
func loadFromEnvironment(config *models.Config) {
	// Server configuration
	if port := os.Getenv("PORTFOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if host := os.Getenv("PORTFOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if timeout := os.Getenv("PORTFOLIO_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.ReadTimeout = d
		}
	}

	if timeout := os.Getenv("PORTFOLIO_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.WriteTimeout = d
		}
	}

	if timeout := os.Getenv("PORTFOLIO_IDLE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Server.IdleTimeout = d
		}
	}

	if tls := os.Getenv("PORTFOLIO_TLS_ENABLED"); tls != "" {
		config.Server.TLSEnabled = strings.ToLower(tls) == "true"
	}

	if certFile := os.Getenv("PORTFOLIO_TLS_CERT_FILE"); certFile != "" {
		config.Server.TLSCertFile = certFile
	}

	if keyFile := os.Getenv("PORTFOLIO_TLS_KEY_FILE"); keyFile != "" {
		config.Server.TLSKeyFile = keyFile
	}

	if origins := os.Getenv("PORTFOLIO_CORS_ALLOWED_ORIGINS"); origins != "" {
		config.Server.CORS.AllowedOrigins = splitAndTrim(origins)
	}

	// Storage configuration
	if storageType := os.Getenv("PORTFOLIO_STORAGE_TYPE"); storageType != "" {
		config.Storage.Type = storageType
	}

	if storagePath := os.Getenv("PORTFOLIO_STORAGE_PATH"); storagePath != "" {
		config.Storage.Path = storagePath
	}

	if dsn := os.Getenv("PORTFOLIO_DATABASE_DSN"); dsn != "" {
		config.Storage.Database.DSN = dsn
	}

	if maxOpen := os.Getenv("PORTFOLIO_DATABASE_MAX_OPEN_CONNS"); maxOpen != "" {
		if conns, err := strconv.Atoi(maxOpen); err == nil {
			config.Storage.Database.MaxOpenConns = conns
		}
	}

	if maxIdle := os.Getenv("PORTFOLIO_DATABASE_MAX_IDLE_CONNS"); maxIdle != "" {
		if conns, err := strconv.Atoi(maxIdle); err == nil {
			config.Storage.Database.MaxIdleConns = conns
		}
	}

	// Security configuration
	if enabled := os.Getenv("PORTFOLIO_RATE_LIMIT_ENABLED"); enabled != "" {
		config.Security.RateLimit.Enabled = strings.ToLower(enabled) == "true"
	}

	if headers := os.Getenv("PORTFOLIO_SECURITY_HEADERS"); headers != "" {
		config.Security.SecurityHeaders = strings.ToLower(headers) == "true"
	}

	loadEndpointLimit("PORTFOLIO_RATE_LIMIT_CONTACT", &config.Security.RateLimit.Contact)
	loadEndpointLimit("PORTFOLIO_RATE_LIMIT_LEADERBOARD_READ", &config.Security.RateLimit.LeaderboardRead)
	loadEndpointLimit("PORTFOLIO_RATE_LIMIT_LEADERBOARD_SUBMIT", &config.Security.RateLimit.LeaderboardSubmit)
	loadEndpointLimit("PORTFOLIO_RATE_LIMIT_LIKES", &config.Security.RateLimit.Likes)

	// Email configuration
	if endpoint := os.Getenv("PORTFOLIO_EMAIL_ENDPOINT"); endpoint != "" {
		config.Email.Endpoint = endpoint
	}

	if apiKey := os.Getenv("PORTFOLIO_SENDGRID_API_KEY"); apiKey != "" {
		config.Email.APIKey = apiKey
	}

	if to := os.Getenv("PORTFOLIO_EMAIL_TO"); to != "" {
		config.Email.To = to
	}

	if from := os.Getenv("PORTFOLIO_EMAIL_FROM"); from != "" {
		config.Email.From = from
	}

	if timeout := os.Getenv("PORTFOLIO_EMAIL_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.Email.Timeout = d
		}
	}

	// Logging configuration
	if level := os.Getenv("PORTFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if format := os.Getenv("PORTFOLIO_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if output := os.Getenv("PORTFOLIO_LOG_OUTPUT"); output != "" {
		config.Logging.Output = output
	}

	if filePath := os.Getenv("PORTFOLIO_LOG_FILE_PATH"); filePath != "" {
		config.Logging.FilePath = filePath
	}

	// Metrics configuration
	if metrics := os.Getenv("PORTFOLIO_METRICS_ENABLED"); metrics != "" {
		config.Metrics.Enabled = strings.ToLower(metrics) == "true"
	}

	if path := os.Getenv("PORTFOLIO_METRICS_PATH"); path != "" {
		config.Metrics.Path = path
	}

	if port := os.Getenv("PORTFOLIO_METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Metrics.Port = p
		}
	}

	// Observability configuration
	if tracing := os.Getenv("PORTFOLIO_TRACING_ENABLED"); tracing != "" {
		config.Observability.Tracing.Enabled = strings.ToLower(tracing) == "true"
	}

	if exporter := os.Getenv("PORTFOLIO_TRACING_EXPORTER"); exporter != "" {
		config.Observability.Tracing.Exporter = exporter
	}

	if endpoint := os.Getenv("PORTFOLIO_OTLP_ENDPOINT"); endpoint != "" {
		config.Observability.Tracing.OTLPEndpoint = endpoint
	}
}

// loadEndpointLimit reads "<prefix>_WINDOW" and "<prefix>_MAX" into a
// fixed-window quota. Unset or unparseable values leave the quota unchanged.
func loadEndpointLimit(prefix string, limit *models.EndpointLimit) {
	if window := os.Getenv(prefix + "_WINDOW"); window != "" {
		if d, err := time.ParseDuration(window); err == nil {
			limit.Window = d
		}
	}
	if max := os.Getenv(prefix + "_MAX"); max != "" {
		if n, err := strconv.Atoi(max); err == nil {
			limit.Max = n
		}
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SaveExample saves an example configuration file
func SaveExample(filePath string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// Get default config with some example values
	config := models.NewDefaultConfig()

	config.Email.APIKey = "SG.your-api-key-here"
	config.Email.To = "you@example.com"
	config.Email.From = "no-reply@example.com"

	config.Server.CORS.AllowedOrigins = []string{"https://example.com"}

	// Example TLS configuration
	config.Server.TLSEnabled = false
	config.Server.TLSCertFile = "/path/to/cert.pem"
	config.Server.TLSKeyFile = "/path/to/key.pem"

	// Marshal to YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// Write to file
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
