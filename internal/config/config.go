package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Storage StorageConfig
	Logging LoggingConfig
}

// ServerConfig holds the local web server configuration
type ServerConfig struct {
	Addr            string
	Environment     string
	ShutdownTimeout time.Duration
}

// BackendConfig holds the remote health backend configuration
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// StorageConfig holds local data locations (token store)
type StorageConfig struct {
	DataDir string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // json or console
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = defaultDataDir()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.shutdowntimeout", 30*time.Second)

	v.SetDefault("backend.timeout", 10*time.Second)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.addr", "HEALTHDASH_ADDR")
	v.BindEnv("server.environment", "ENV", "ENVIRONMENT")

	v.BindEnv("backend.baseurl", "HEALTHDASH_API_BASE_URL", "API_BASE_URL")
	v.BindEnv("backend.timeout", "HEALTHDASH_API_TIMEOUT")

	v.BindEnv("storage.datadir", "HEALTHDASH_DATA_DIR")

	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.baseurl is required")
	}

	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.baseurl %q is not an absolute URL", c.Backend.BaseURL)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive")
	}

	return nil
}

// defaultDataDir places the token store under the user config dir,
// falling back to the working directory when none is resolvable.
func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".healthdash"
	}
	return filepath.Join(base, "healthdash")
}
