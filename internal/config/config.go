package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable, e.g. PROFITPILOT_SERVER_PORT.
const EnvPrefix = "PROFITPILOT"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Insights  InsightsConfig  `yaml:"insights" envconfig:"INSIGHTS"`
	Sources   SourcesConfig   `yaml:"sources" envconfig:"SOURCES"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	AnalyzeTimeout  time.Duration `yaml:"analyze_timeout" envconfig:"ANALYZE_TIMEOUT" validate:"gt=0"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" validate:"min=1,dive,required"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gt=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"min=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"omitempty,oneof=console stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Category strategies for supplier costs.
const (
	StrategyMaterials = "materials"
	StrategyKeyword   = "keyword"
	StrategyRemote    = "remote"
)

// AnalysisConfig controls how costs are categorized.
type AnalysisConfig struct {
	CategoryStrategy string `yaml:"category_strategy" envconfig:"CATEGORY_STRATEGY" validate:"oneof=materials keyword remote"`
	KeywordRulesFile string `yaml:"keyword_rules_file" envconfig:"KEYWORD_RULES_FILE"`
}

// InsightsConfig configures the remote insight provider.
type InsightsConfig struct {
	APIKey            string        `yaml:"api_key" envconfig:"API_KEY"`
	Model             string        `yaml:"model" envconfig:"MODEL" validate:"required"`
	RequestsPerMinute float64       `yaml:"requests_per_minute" envconfig:"REQUESTS_PER_MINUTE" validate:"gt=0"`
	Burst             int           `yaml:"burst" envconfig:"BURST" validate:"min=1"`
	Timeout           time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
}

// SourcesConfig configures external data sources.
type SourcesConfig struct {
	SheetsCredentialsFile string `yaml:"sheets_credentials_file" envconfig:"SHEETS_CREDENTIALS_FILE"`
}

// TelemetryConfig selects exporters.
type TelemetryConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Environment    string `yaml:"environment" envconfig:"ENVIRONMENT" validate:"required"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=none stdout"`
	MetricExporter string `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=none prometheus"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE" validate:"min=64"`
	WriteBufferSize int `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE" validate:"min=64"`
}

// Load builds the configuration from defaults, an optional config.yaml and
// the environment, in increasing order of precedence.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the file.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

var validate = validator.New()

// validate normalizes and validates the configuration
func (c *Config) validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Analysis.CategoryStrategy = strings.ToLower(strings.TrimSpace(c.Analysis.CategoryStrategy))
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)
	c.Telemetry.MetricExporter = strings.ToLower(c.Telemetry.MetricExporter)

	// Logs are always JSON
	c.Logging.Format = "json"
	if c.Logging.Output == "stdout" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" && (c.Logging.Output == "file" || c.Logging.Output == "both") {
		c.Logging.FilePath = "logs/profitpilot.log"
	}

	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Analysis.CategoryStrategy == StrategyKeyword && c.Analysis.KeywordRulesFile != "" {
		if _, err := os.Stat(c.Analysis.KeywordRulesFile); err != nil {
			return fmt.Errorf("keyword rules file: %w", err)
		}
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			AnalyzeTimeout:  45 * time.Second,
			MaxUploadBytes:  20 << 20, // 20MB
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "console",
		},
		Analysis: AnalysisConfig{
			CategoryStrategy: StrategyMaterials,
		},
		Insights: InsightsConfig{
			Model:             "gemini-2.0-flash",
			RequestsPerMinute: 10,
			Burst:             2,
			Timeout:           20 * time.Second,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    "profitpilot",
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}
