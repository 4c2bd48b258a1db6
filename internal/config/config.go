package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable read by the service
const EnvPrefix = "SUPPLIER_API_"

// ignoredDefaultTag disables envDefault handling once defaults are in place,
// so that unset variables do not clobber values loaded from the config file.
const ignoredDefaultTag = "envDefaultIgnored"

const (
	minPort = 1
	maxPort = 65534
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents the HTTP listener configuration
type ServerConfig struct {
	Host            string `json:"host"             env:"HOST"             envDefault:"127.0.0.1"`
	Port            int    `json:"port"             env:"PORT"             envDefault:"7878"`
	ReadTimeout     string `json:"read_timeout"     env:"READ_TIMEOUT"     envDefault:"10s"`
	WriteTimeout    string `json:"write_timeout"    env:"WRITE_TIMEOUT"    envDefault:"10s"`
	ShutdownTimeout string `json:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
	MetricsEnabled  bool   `json:"metrics_enabled"  env:"METRICS_ENABLED"  envDefault:"true"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path            string `json:"path"              env:"DB_PATH"              envDefault:"./pos_inventory.db"`
	MaxConnections  int    `json:"max_connections"   env:"DB_MAX_CONNECTIONS"   envDefault:"4"`
	MaxIdleConns    int    `json:"max_idle_conns"    env:"DB_MAX_IDLE_CONNS"    envDefault:"2"`
	ConnMaxLifetime string `json:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	QueryTimeout    string `json:"query_timeout"     env:"DB_QUERY_TIMEOUT"     envDefault:"5s"`
	AutoMigrate     bool   `json:"auto_migrate"      env:"DB_AUTO_MIGRATE"      envDefault:"true"`
	Seed            bool   `json:"seed"              env:"DB_SEED"              envDefault:"false"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `json:"level"  env:"LOG_LEVEL"  envDefault:"info"`                                // debug, info, warn, error
	Format string `json:"format" env:"LOG_FORMAT" envDefault:"text"`                                // text, json
	Output string `json:"output" env:"LOG_OUTPUT" envDefault:"stdout"`                              // stdout, stderr, file
	File   string `json:"file"   env:"LOG_FILE"   envDefault:"~/.config/supplier-api/logs/app.log"` // log file path when output is file
}

// Address returns the host:port pair the server listens on
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DefaultConfig returns the configuration built from the envDefault tags only
func DefaultConfig() *Config {
	cfg := &Config{}
	// An empty environment means only defaults are applied.
	_ = env.ParseWithOptions(cfg, env.Options{Environment: map[string]string{}})

	return cfg
}

// LoadConfig loads configuration from file, environment variables, and command-line flags
func LoadConfig() (*Config, error) {
	return LoadConfigWithOverrides(nil)
}

// LoadConfigWithOverrides loads configuration with optional command-line flag overrides
func LoadConfigWithOverrides(flagOverrides map[string]any) (*Config, error) {
	config := DefaultConfig()

	// Load from config file if it exists
	configPath := getConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		if err := loadConfigFromFile(config, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := loadDotEnv(".env"); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := applyEnvironmentOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	// Apply command-line flag overrides
	if flagOverrides != nil {
		if err := applyFlagOverrides(config, flagOverrides); err != nil {
			return nil, fmt.Errorf("failed to apply flag overrides: %w", err)
		}
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	config.ExpandAllPaths()

	return config, nil
}

// loadConfigFromFile loads configuration from a JSON file. Keys absent from
// the file keep their current values.
func loadConfigFromFile(config *Config, configPath string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// loadDotEnv exports the variables of a dotenv file that are not already set
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	return err
}

// applyEnvironmentOverrides applies SUPPLIER_API_* variables on top of config
func applyEnvironmentOverrides(config *Config) error {
	return env.ParseWithOptions(config, env.Options{
		Prefix:              EnvPrefix,
		DefaultValueTagName: ignoredDefaultTag,
	})
}

// applyFlagOverrides applies command-line flag overrides to configuration
func applyFlagOverrides(config *Config, overrides map[string]any) error {
	for key, value := range overrides {
		switch key {
		case "db-path":
			if str, ok := value.(string); ok && str != "" {
				config.Database.Path = str
			}
		case "log-level":
			if str, ok := value.(string); ok && str != "" {
				config.Logging.Level = str
			}
		case "log-format":
			if str, ok := value.(string); ok && str != "" {
				config.Logging.Format = str
			}
		case "host":
			if str, ok := value.(string); ok && str != "" {
				config.Server.Host = str
			}
		case "port":
			switch v := value.(type) {
			case int:
				if v != 0 {
					config.Server.Port = v
				}
			case string:
				if v == "" {
					continue
				}

				port, err := ParsePort(v)
				if err != nil {
					return err
				}

				config.Server.Port = port
			}
		case "seed":
			if b, ok := value.(bool); ok && b {
				config.Database.Seed = true
			}
		default:
			return fmt.Errorf("unknown flag override: %s", key)
		}
	}

	return nil
}

// ParsePort parses a listener port and applies the accepted range
func ParsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("port number was not a number: %q", raw)
	}

	if port < minPort || port > maxPort {
		return 0, fmt.Errorf("port number must be between %d and %d: %d", minPort, maxPort, port)
	}

	return port, nil
}

// validateConfig validates the configuration for common errors
func validateConfig(config *Config) error {
	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf(
			"invalid log level: %s (must be debug, info, warn, or error)",
			config.Logging.Level,
		)
	}

	// Validate log format
	validLogFormats := map[string]bool{
		"text": true, "json": true,
	}
	if !validLogFormats[strings.ToLower(config.Logging.Format)] {
		return fmt.Errorf("invalid log format: %s (must be text or json)", config.Logging.Format)
	}

	// Validate log output
	validLogOutputs := map[string]bool{
		"stdout": true, "stderr": true, "file": true,
	}
	if !validLogOutputs[strings.ToLower(config.Logging.Output)] {
		return fmt.Errorf(
			"invalid log output: %s (must be stdout, stderr, or file)",
			config.Logging.Output,
		)
	}

	if net.ParseIP(config.Server.Host) == nil && config.Server.Host != "localhost" {
		return fmt.Errorf("invalid server host: %s (must be an IP address)", config.Server.Host)
	}

	if config.Server.Port < minPort || config.Server.Port > maxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)",
			config.Server.Port, minPort, maxPort)
	}

	durations := map[string]string{
		"server read timeout":          config.Server.ReadTimeout,
		"server write timeout":         config.Server.WriteTimeout,
		"server shutdown timeout":      config.Server.ShutdownTimeout,
		"database query timeout":       config.Database.QueryTimeout,
		"database connection lifetime": config.Database.ConnMaxLifetime,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %s", name, value)
		}
	}

	if config.Database.Path == "" {
		return errors.New("database path must not be empty")
	}

	// Validate numeric values
	if config.Database.MaxConnections <= 0 {
		return fmt.Errorf(
			"database max connections must be positive: %d",
			config.Database.MaxConnections,
		)
	}

	if config.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database max idle connections must be non-negative: %d",
			config.Database.MaxIdleConns)
	}

	return nil
}

// Duration parses a duration field that validateConfig has already checked
func Duration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}

	return d
}

// getConfigPath returns the path to the configuration file
func getConfigPath() string {
	// Check for custom config path from environment
	if configPath := os.Getenv(EnvPrefix + "CONFIG"); configPath != "" {
		return ExpandPath(configPath)
	}

	return filepath.Join(GetConfigDir(), "config.json")
}

// ExpandPath expands ~ to home directory in file paths
func ExpandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}

	return path
}

// ExpandAllPaths expands all paths in the configuration
func (c *Config) ExpandAllPaths() {
	c.Database.Path = ExpandPath(c.Database.Path)
	c.Logging.File = ExpandPath(c.Logging.File)
}

// GetConfigDir returns the configuration directory
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".config/supplier-api"
	}

	return filepath.Join(homeDir, ".config", "supplier-api")
}
