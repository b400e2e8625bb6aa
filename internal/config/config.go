package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata" // time zone validation must not depend on the host database

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables understood by the wrapper
const (
	EnvTokenDir   = "GOOGLE_OAUTH_TOKEN_DIR"
	EnvClientInfo = "GOOGLE_OAUTH_CLIENT_INFO"
)

// Defaults applied when the config file leaves a field empty
const (
	DefaultTokenStem         = "google_token"
	DefaultTokenDir          = "utilities"
	DefaultOAuthClientFile   = "oauth-client.json"
	DefaultLogDir            = "logs"
	DefaultTimeZone          = "UTC"
	DefaultGmailSendInterval = 3 * time.Second
)

// Config represents the application configuration
type Config struct {
	TokenStem         string   `yaml:"tokenStem" validate:"required,excludesall=/"`
	TokenDir          string   `yaml:"tokenDir" validate:"required"`
	OAuthClientFile   string   `yaml:"oauthClientFile,omitempty"`
	Interactive       *bool    `yaml:"interactive,omitempty"`
	CallbackPort      int      `yaml:"callbackPort,omitempty" validate:"min=0,max=65535"`
	DeviceFlow        bool     `yaml:"deviceFlow,omitempty"`
	Surfaces          []string `yaml:"surfaces,omitempty" validate:"dive,oneof=drive docs sheets calendar tasks forms gmail"`
	LogDir            string   `yaml:"logDir" validate:"required"`
	DatabaseURL       string   `yaml:"databaseURL,omitempty" validate:"omitempty,url"`
	GmailSendInterval Duration `yaml:"gmailSendInterval,omitempty"`
	DefaultTimeZone   string   `yaml:"defaultTimeZone" validate:"required,timezone"`
	DownloadDir       string   `yaml:"downloadDir,omitempty"`
}

// Duration is a time.Duration that reads from strings such as "3s" in YAML
type Duration time.Duration

// UnmarshalYAML parses a Go duration string
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns a configuration populated only with defaults
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load loads and validates the configuration from google_api_config.yaml.
// A missing config file is not an error: defaults are returned instead.
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" will look for "google_api_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := Default()
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// TokenPath returns the token file location for this configuration
func (c *Config) TokenPath() string {
	return filepath.Join(c.TokenDir, c.TokenStem+".json")
}

// SendInterval returns the configured pause between Gmail sends
func (c *Config) SendInterval() time.Duration {
	return time.Duration(c.GmailSendInterval)
}

func applyDefaults(cfg *Config) {
	if cfg.TokenStem == "" {
		cfg.TokenStem = DefaultTokenStem
	}
	if cfg.TokenDir == "" {
		cfg.TokenDir = os.Getenv(EnvTokenDir)
	}
	if cfg.TokenDir == "" {
		cfg.TokenDir = DefaultTokenDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = DefaultLogDir
	}
	if cfg.DefaultTimeZone == "" {
		cfg.DefaultTimeZone = DefaultTimeZone
	}
	if cfg.GmailSendInterval == 0 {
		cfg.GmailSendInterval = Duration(DefaultGmailSendInterval)
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = "."
	}
}

// findConfigFile searches for google_api_config.yaml in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "google_api_config.yaml"
	if env != "" {
		configFileName = "google_api_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory: %w", configFileName, fs.ErrNotExist)
}
