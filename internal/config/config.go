package config

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	LLM    LLMConfig
	Server ServerConfig
	Log    LogConfig
}

// LLMConfig holds the model-vendor configuration
type LLMConfig struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// ServerConfig holds the relay server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HasCredential reports whether a vendor credential is configured.
func (c LLMConfig) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Load reads configuration from config.yaml (or the file named by
// CONFIG_PATH) and the environment. A missing config file is not an
// error: the server can run on env vars and defaults alone, and an
// absent credential is reported per-request rather than at startup.
func Load() (*Config, error) {
	v := viper.New()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.model", "gemini-1.5-flash")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "7000")
	v.SetDefault("log.level", "info")

	// Recognized environment options; these override file values.
	v.BindEnv("llm.api_key", "GEMINI_API_KEY")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// ALLOWED_ORIGINS arrives comma-separated when set through the
	// environment; normalize whitespace and drop empty entries.
	var origins []string
	for _, o := range config.Server.AllowedOrigins {
		for _, p := range strings.Split(o, ",") {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
	}
	config.Server.AllowedOrigins = origins

	return &config, nil
}
