package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/abrezinsky/eurovote/internal/errors"
	"github.com/abrezinsky/eurovote/internal/scoring"
)

// EnvPrefix is prepended to every environment override, e.g. EUROVOTE_SERVER_PORT
const EnvPrefix = "EUROVOTE"

// Config is the resolved application configuration
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Admin   AdminConfig
	Log     LogConfig
	Scoring ScoringConfig
	Feed    FeedConfig
}

type ServerConfig struct {
	Port    int
	BaseURL string
}

type StorageConfig struct {
	Path string
}

type AdminConfig struct {
	// Password is generated at startup when empty
	Password string
}

type LogConfig struct {
	Level  string
	Format string
}

type ScoringConfig struct {
	Profile string
}

type FeedConfig struct {
	URL string
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// SetDefaults registers the default value of every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.base_url", "")
	v.SetDefault("storage.path", "eurovote.db")
	v.SetDefault("admin.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("scoring.profile", scoring.DefaultProfile)
	v.SetDefault("feed.url", "")
}

// New returns a viper instance with defaults and environment overrides.
// If configFile is set it is read as YAML.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	return v, nil
}

// Load resolves and validates the configuration held by v
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    v.GetInt("server.port"),
			BaseURL: strings.TrimRight(v.GetString("server.base_url"), "/"),
		},
		Storage: StorageConfig{
			Path: v.GetString("storage.path"),
		},
		Admin: AdminConfig{
			Password: v.GetString("admin.password"),
		},
		Log: LogConfig{
			Level:  strings.ToLower(v.GetString("log.level")),
			Format: strings.ToLower(v.GetString("log.format")),
		},
		Scoring: ScoringConfig{
			Profile: v.GetString("scoring.profile"),
		},
		Feed: FeedConfig{
			URL: v.GetString("feed.url"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return apperrors.Validationf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Storage.Path == "" {
		return apperrors.Validation("storage.path is required")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return apperrors.Validationf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return apperrors.Validationf("log.format %q is not one of text, json", c.Log.Format)
	}
	if _, err := scoring.LoadBuiltin(c.Scoring.Profile); err != nil {
		return apperrors.Wrap(err, apperrors.ErrValidation, "scoring.profile")
	}
	return nil
}
