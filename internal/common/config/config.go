// Package config provides configuration management for acp-sentinel.
// It supports loading configuration from environment variables, config
// files, and defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/kandev/acp-sentinel/pkg/acp/validate"
)

// Config holds all configuration sections for acp-sentinel.
type Config struct {
	Runtime     RuntimeConfig   `mapstructure:"runtime"`
	Eval        EvalConfig      `mapstructure:"eval"`
	Transport   TransportConfig `mapstructure:"transport"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	StopOnError bool            `mapstructure:"stopOnError"`
}

// RuntimeConfig mirrors validate.RuntimeProfile's non-transport fields.
type RuntimeConfig struct {
	RejectUnknownMetadata bool `mapstructure:"rejectUnknownMetadata"`
	AllowUnstableFeatures bool `mapstructure:"allowUnstableFeatures"`
}

// TransportConfig mirrors validate.TransportProfile. MaxMessageBytes <=
// 0 disables the Transport lane, matching RuntimeProfile.Transport==nil.
type TransportConfig struct {
	LineSeparator   string `mapstructure:"lineSeparator"`
	MaxFrameBytes   int    `mapstructure:"maxFrameBytes"`
	MaxMessageBytes int    `mapstructure:"maxMessageBytes"`
	MetaEnvelope    string `mapstructure:"metaEnvelope"`
}

// EvalConfig mirrors validate.EvalProfile.
type EvalConfig struct {
	RequireNonEmptyInstruction bool    `mapstructure:"requireNonEmptyInstruction"`
	FSharpLexChecks            bool    `mapstructure:"fsharpLexChecks"`
	MaxUnknownTokenRatio       float64 `mapstructure:"maxUnknownTokenRatio"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"outputPath"`
}

// RuntimeProfile converts the loaded configuration into the
// validate.RuntimeProfile the driver and adapter consume.
func (c *Config) RuntimeProfile() validate.RuntimeProfile {
	p := validate.RuntimeProfile{
		Metadata:              validate.AllowOpaque,
		AllowUnstableFeatures: c.Runtime.AllowUnstableFeatures,
	}
	if c.Runtime.RejectUnknownMetadata {
		p.Metadata = validate.RejectUnknown
	}
	if c.Transport.MaxMessageBytes > 0 {
		p.Transport = &validate.TransportProfile{
			LineSeparator:   c.Transport.LineSeparator,
			MaxFrameBytes:   c.Transport.MaxFrameBytes,
			MaxMessageBytes: c.Transport.MaxMessageBytes,
			MetaEnvelope:    c.Transport.MetaEnvelope,
		}
	}
	return p
}

// EvalProfile converts the loaded configuration into the
// validate.EvalProfile the driver and adapter consume.
func (c *Config) EvalProfile() validate.EvalProfile {
	return validate.EvalProfile{
		RequireNonEmptyInstruction: c.Eval.RequireNonEmptyInstruction,
		FSharpLexChecks:            c.Eval.FSharpLexChecks,
		MaxUnknownTokenRatio:       c.Eval.MaxUnknownTokenRatio,
	}
}

// detectDefaultLogFormat mirrors the teacher's terminal-vs-production
// heuristic: structured JSON under Kubernetes or an explicit production
// environment, human-readable text otherwise.
func detectDefaultLogFormat() string {
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "json"
	}
	if env := os.Getenv("ACP_SENTINEL_ENV"); env == "production" || env == "prod" {
		return "json"
	}
	return "text"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("runtime.rejectUnknownMetadata", false)
	v.SetDefault("runtime.allowUnstableFeatures", false)

	v.SetDefault("transport.lineSeparator", "\n")
	v.SetDefault("transport.maxFrameBytes", 0)
	v.SetDefault("transport.maxMessageBytes", 0)
	v.SetDefault("transport.metaEnvelope", "")

	v.SetDefault("eval.requireNonEmptyInstruction", true)
	v.SetDefault("eval.fsharpLexChecks", false)
	v.SetDefault("eval.maxUnknownTokenRatio", 0.4)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", detectDefaultLogFormat())
	v.SetDefault("logging.outputPath", "stdout")

	v.SetDefault("stopOnError", false)
}

// Load reads configuration from environment variables, a config file,
// and defaults. Environment variables use the prefix ACP_SENTINEL_.
func Load() (*Config, error) {
	return LoadWithPath("")
}

// LoadWithPath reads configuration from the specified directory or the
// default locations (current directory, /etc/acp-sentinel/).
func LoadWithPath(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ACP_SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/acp-sentinel/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, "logging.format must be one of: json, text")
	}
	if cfg.Eval.MaxUnknownTokenRatio < 0 || cfg.Eval.MaxUnknownTokenRatio > 1 {
		errs = append(errs, "eval.maxUnknownTokenRatio must be between 0 and 1")
	}
	if cfg.Transport.MaxMessageBytes < 0 {
		errs = append(errs, "transport.maxMessageBytes must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
