// Package config loads planagent settings from flags, PLANAGENT_* environment
// variables and an optional YAML file, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "PLANAGENT"

	FlagConfig          = "config"
	FlagProvider        = "provider"
	FlagModel           = "model"
	FlagBaseURL         = "base-url"
	FlagLogLevel        = "log-level"
	FlagUTCPProviders   = "utcp-providers"
	FlagUTCPSearchLimit = "utcp-search-limit"
	FlagHTTPTimeout     = "http-timeout"
)

// Providers lists the accepted provider names.
var Providers = []string{"deepseek", "openai", "anthropic", "claude", "gemini", "google", "ollama", "dummy", "scripted"}

type Config struct {
	ConfigFile      string        `json:"config" mapstructure:"config"`
	Provider        string        `json:"provider" mapstructure:"provider"`
	Model           string        `json:"model" mapstructure:"model"`
	BaseURL         string        `json:"base-url" mapstructure:"base-url"`
	LogLevel        string        `json:"log-level" mapstructure:"log-level"`
	UTCPProviders   string        `json:"utcp-providers" mapstructure:"utcp-providers"`
	UTCPSearchLimit int           `json:"utcp-search-limit" mapstructure:"utcp-search-limit"`
	HTTPTimeout     time.Duration `json:"http-timeout" mapstructure:"http-timeout"`
}

func Default() *Config {
	return &Config{
		Provider:        "deepseek",
		LogLevel:        "warn",
		UTCPSearchLimit: 50,
		HTTPTimeout:     15 * time.Second,
	}
}

func (c *Config) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.ConfigFile, FlagConfig, c.ConfigFile, "Path to a YAML configuration file.")
	fs.StringVar(&c.Provider, FlagProvider, c.Provider, "Model provider: "+strings.Join(Providers, ", ")+".")
	fs.StringVar(&c.Model, FlagModel, c.Model, "Model name; the provider default when empty.")
	fs.StringVar(&c.BaseURL, FlagBaseURL, c.BaseURL, "API base URL (OpenAI compatible providers) or Ollama host.")
	fs.StringVar(&c.LogLevel, FlagLogLevel, c.LogLevel, "Log level: debug, info, warn or error.")
	fs.StringVar(&c.UTCPProviders, FlagUTCPProviders, c.UTCPProviders, "UTCP providers file; enables remote tools when set.")
	fs.IntVar(&c.UTCPSearchLimit, FlagUTCPSearchLimit, c.UTCPSearchLimit, "Maximum number of UTCP tools to import.")
	fs.DurationVar(&c.HTTPTimeout, FlagHTTPTimeout, c.HTTPTimeout, "Timeout of each HTTP request made by the built-in tools.")
}

// Load resolves the configuration for a parsed flag set.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := strings.TrimSpace(v.GetString(FlagConfig)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() []error {
	var errs []error
	known := false
	for _, p := range Providers {
		if strings.EqualFold(strings.TrimSpace(c.Provider), p) {
			known = true
			break
		}
	}
	if !known {
		errs = append(errs, fmt.Errorf("invalid provider %q, must be one of %s", c.Provider, strings.Join(Providers, ", ")))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q", c.LogLevel))
	}
	if c.UTCPSearchLimit <= 0 {
		errs = append(errs, fmt.Errorf("utcp search limit must be positive, got %d", c.UTCPSearchLimit))
	}
	if c.HTTPTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout))
	}
	return errs
}
