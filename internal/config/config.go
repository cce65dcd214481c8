package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	Assistant AssistantConfig `koanf:"assistant"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

type ServerConfig struct {
	Port            int    `koanf:"port"`
	LogLevel        string `koanf:"log_level"`
	ReadTimeout     string `koanf:"read_timeout"`
	WriteTimeout    string `koanf:"write_timeout"`
	IdleTimeout     string `koanf:"idle_timeout"`
	ShutdownTimeout string `koanf:"shutdown_timeout"`
}

type GeminiConfig struct {
	APIKey         string  `koanf:"api_key"`
	Model          string  `koanf:"model"`
	BaseURL        string  `koanf:"base_url"`
	RequestTimeout string  `koanf:"request_timeout"`
	Temperature    float64 `koanf:"temperature"`
	MaxOutputToken int     `koanf:"max_output_tokens"`
	SearchEnabled  bool    `koanf:"search_enabled"`
}

type AssistantConfig struct {
	MaxStreamIterations int    `koanf:"max_stream_iterations"`
	MaxMessageRunes     int    `koanf:"max_message_runes"`
	AssistantName       string `koanf:"assistant_name"`
}

type RateLimitConfig struct {
	Enabled     bool   `koanf:"enabled"`
	MaxRequests int    `koanf:"max_requests"`
	Window      string `koanf:"window"`
}

const (
	DefaultServerPort            = 8080
	DefaultServerLogLevel        = "info"
	DefaultServerReadTimeout     = "10s"
	DefaultServerWriteTimeout    = "0s" // streaming responses manage their own lifetime
	DefaultServerIdleTimeout     = "60s"
	DefaultServerShutdownTimeout = "5s"

	DefaultGeminiModel           = "gemini-2.0-flash-exp"
	DefaultGeminiBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiRequestTimeout  = "30s"
	DefaultGeminiTemperature     = 0.7
	DefaultGeminiMaxOutputTokens = 1024
	DefaultGeminiSearchEnabled   = true

	DefaultAssistantMaxStreamIterations = 3
	DefaultAssistantMaxMessageRunes     = 4000
	DefaultAssistantName                = "Kouakou"

	DefaultRateLimitEnabled     = true
	DefaultRateLimitMaxRequests = 30
	DefaultRateLimitWindow      = "1m"
)

func Load(cmd *cobra.Command) (*Config, error) {
	k := koanf.New(".")

	// Hardcoded Defaults
	defaults := map[string]interface{}{
		"server.port":                     DefaultServerPort,
		"server.log_level":                DefaultServerLogLevel,
		"server.read_timeout":             DefaultServerReadTimeout,
		"server.write_timeout":            DefaultServerWriteTimeout,
		"server.idle_timeout":             DefaultServerIdleTimeout,
		"server.shutdown_timeout":         DefaultServerShutdownTimeout,
		"gemini.model":                    DefaultGeminiModel,
		"gemini.base_url":                 DefaultGeminiBaseURL,
		"gemini.request_timeout":          DefaultGeminiRequestTimeout,
		"gemini.temperature":              DefaultGeminiTemperature,
		"gemini.max_output_tokens":        DefaultGeminiMaxOutputTokens,
		"gemini.search_enabled":           DefaultGeminiSearchEnabled,
		"assistant.max_stream_iterations": DefaultAssistantMaxStreamIterations,
		"assistant.max_message_runes":     DefaultAssistantMaxMessageRunes,
		"assistant.assistant_name":        DefaultAssistantName,
		"ratelimit.enabled":               DefaultRateLimitEnabled,
		"ratelimit.max_requests":          DefaultRateLimitMaxRequests,
		"ratelimit.window":                DefaultRateLimitWindow,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	// Config file loading
	configPath := ""
	if cmd != nil {
		if flag := cmd.Flags().Lookup("config"); flag != nil {
			configPath = strings.TrimSpace(flag.Value.String())
		}
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, err
		}
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			globalPath := filepath.Join(home, ".kouakou", "config.yaml")
			if err := k.Load(file.Provider(globalPath), yaml.Parser()); err != nil {
				slog.Debug("Global config not found or invalid", "path", globalPath, "error", err)
			}
		}
	}

	// Environment Variables. Only the first underscore separates the section
	// from the key, so KOUAKOU_SERVER_LOG_LEVEL maps to server.log_level.
	k.Load(env.Provider("KOUAKOU_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "KOUAKOU_")), "_", ".", 1)
	}), nil)

	// CLI Flags
	if cmd != nil {
		k.Load(posflag.Provider(cmd.Flags(), ".", k), nil)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Post-Process: Inject standard Env Var if missing
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = key
	}

	return &cfg, nil
}
