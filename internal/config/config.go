// Package config holds slurmbridge's configuration, loaded from a YAML file
// with environment and flag overrides applied through viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultTimeout is the per-request timeout against the control plane.
const DefaultTimeout = 60 * time.Second

// Connection describes how to reach the cluster-management control plane.
type Connection struct {
	// Base URL of the control plane web server
	WebServer string `mapstructure:"web_server" yaml:"web_server"`

	// Name of the cluster this bridge manages
	Cluster string `mapstructure:"cluster" yaml:"cluster"`

	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`

	// Skip TLS certificate verification; the control plane usually runs
	// with a self-signed certificate inside the cluster
	Insecure bool `mapstructure:"insecure" yaml:"insecure"`

	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// Chaos selects the fault-injecting command invoker for resilience testing.
type Chaos struct {
	Enabled     bool    `mapstructure:"enabled" yaml:"enabled"`
	Probability float64 `mapstructure:"probability" yaml:"probability"`
	Seed        int64   `mapstructure:"seed" yaml:"seed"`
}

// Log configures logging output.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`

	// Directory for per-command logfiles
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// Config is the root configuration.
type Config struct {
	Connection Connection `mapstructure:"connection" yaml:"connection"`
	Chaos      Chaos      `mapstructure:"chaos" yaml:"chaos"`
	Log        Log        `mapstructure:"log" yaml:"log"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Connection: Connection{
			Timeout: DefaultTimeout,
		},
		Chaos: Chaos{
			Probability: 0.5,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			Dir:    defaultLogDir(),
		},
	}
}

// Load reads the configuration from path, or from the default search
// locations when path is empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SLURMBRIDGE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".slurmbridge"))
		}
		v.AddConfigPath("/etc/slurmbridge/")
	}

	cfg := Default()
	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if path != "" {
		// An explicitly named file must exist.
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields every connecting command needs.
func (c *Config) Validate() error {
	if c.Connection.WebServer == "" {
		return fmt.Errorf("connection.web_server is required")
	}
	if c.Connection.Cluster == "" {
		return fmt.Errorf("connection.cluster is required")
	}
	if c.Chaos.Enabled && (c.Chaos.Probability < 0 || c.Chaos.Probability > 1) {
		return fmt.Errorf("chaos.probability must be within [0, 1]")
	}
	return nil
}

func defaultLogDir() string {
	if st, err := os.Stat("/var/log"); err == nil && st.IsDir() {
		return "/var/log/slurmbridge"
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return "."
	}
	return filepath.Join(home, ".slurmbridge", "log")
}
