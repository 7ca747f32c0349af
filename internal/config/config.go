package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimServer holds all configuration for the simulation server.
type SimServer struct {
	// Simulation
	TickRate    int    `yaml:"tick_rate"` // ticks per second
	ContentFile string `yaml:"content_file"`

	// Actors spawned at boot. Each gets the standard vitals set.
	Actors []string `yaml:"actors"`

	// Database. Persistence is optional: an empty host disables it.
	Database DatabaseConfig `yaml:"database"`

	// Logging
	LogLevel string `yaml:"log_level"` // debug, info, warn, error
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Enabled reports whether persistence is configured.
func (d DatabaseConfig) Enabled() bool { return d.Host != "" }

// TickInterval returns the fixed simulation step in seconds.
func (c SimServer) TickInterval() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 30
	}
	return 1.0 / float64(c.TickRate)
}

// DefaultSimServer returns SimServer config with sensible defaults.
func DefaultSimServer() SimServer {
	return SimServer{
		TickRate:    30,
		ContentFile: "config/content.yaml",
		LogLevel:    "info",
		Database: DatabaseConfig{
			Port:     5432,
			User:     "gas2go",
			Password: "gas2go",
			DBName:   "gas2go",
			SSLMode:  "disable",
		},
	}
}

// LoadSimServer loads simulation server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimServer(path string) (SimServer, error) {
	cfg := DefaultSimServer()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
