package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration
type Config struct {
	ServerPort      string `yaml:"server_port"`
	BaseURL         string `yaml:"base_url"`
	FrontendURL     string `yaml:"frontend_url"`
	TrelloAPIKey    string `yaml:"trello_api_key"`
	TrelloAPIToken  string `yaml:"trello_api_token"`
	TrelloBaseURL   string `yaml:"trello_base_url"`
	DefaultBoard    string `yaml:"default_board"`
	OpenAIKey       string `yaml:"openai_api_key"`
	AIModel         string `yaml:"ai_model"`
	AIBaseURL       string `yaml:"ai_base_url"`
	RateLimit       string `yaml:"rate_limit"`
	EnableHSTS      bool   `yaml:"enable_hsts"`
	ServerDebugMode bool   `yaml:"server_debug_mode"`
	OTELEnabled     bool   `yaml:"otel_enabled"`
	OTELEndpoint    string `yaml:"otel_endpoint"`
}

// Load loads configuration from environment variables. When CONFIG_FILE
// points at a YAML file, its values are read first and the environment
// overrides them.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:  "8080",
		BaseURL:     "http://localhost:8080",
		FrontendURL: "http://localhost:3000",
		RateLimit:   "100-M",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading CONFIG_FILE %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing CONFIG_FILE %s: %w", path, err)
		}
	}

	cfg.ServerPort = getEnv("SERVER_PORT", cfg.ServerPort)
	cfg.BaseURL = getEnv("BASE_URL", cfg.BaseURL)
	cfg.FrontendURL = getEnv("FRONTEND_URL", cfg.FrontendURL)
	cfg.TrelloAPIKey = getEnv("TRELLO_API_KEY", cfg.TrelloAPIKey)
	cfg.TrelloAPIToken = getEnv("TRELLO_API_TOKEN", cfg.TrelloAPIToken)
	cfg.TrelloBaseURL = getEnv("TRELLO_BASE_URL", cfg.TrelloBaseURL)
	cfg.DefaultBoard = getEnv("TRELLO_DEFAULT_BOARD", cfg.DefaultBoard)
	cfg.OpenAIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIKey)
	cfg.AIModel = getEnv("AI_MODEL", cfg.AIModel)
	cfg.AIBaseURL = getEnv("AI_BASE_URL", cfg.AIBaseURL)
	cfg.RateLimit = getEnv("RATE_LIMIT", cfg.RateLimit)
	cfg.EnableHSTS = getEnvBool("ENABLE_HSTS", cfg.EnableHSTS)
	cfg.ServerDebugMode = getEnvBool("SERVER_DEBUG_MODE", cfg.ServerDebugMode)
	cfg.OTELEnabled = getEnvBool("OTEL_ENABLED", cfg.OTELEnabled)
	cfg.OTELEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTELEndpoint)

	if cfg.TrelloAPIKey == "" {
		return nil, fmt.Errorf("TRELLO_API_KEY is required")
	}
	if cfg.TrelloAPIToken == "" {
		return nil, fmt.Errorf("TRELLO_API_TOKEN is required")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
