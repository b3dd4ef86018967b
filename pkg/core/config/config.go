package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Output formats accepted in [output] format
const (
	OutputPlain = "plain"
	OutputJSON  = "json"
)

// Config holds the complete application configuration
type Config struct {
	Shell      ShellConfig      `toml:"shell" yaml:"shell"`
	Connection ConnectionConfig `toml:"connection" yaml:"connection"`
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
	Output     OutputConfig     `toml:"output" yaml:"output"`
	Node       NodeConfig       `toml:"node" yaml:"node"`
}

// ShellConfig holds the interactive shell settings
type ShellConfig struct {
	Hostname        string   `toml:"hostname" yaml:"hostname"`
	Banner          string   `toml:"banner" yaml:"banner"`
	HistorySize     int      `toml:"history_size" yaml:"history_size"`
	IdleTimeout     Duration `toml:"idle_timeout" yaml:"idle_timeout"`
	RegularInterval Duration `toml:"regular_interval" yaml:"regular_interval"`
	EnablePassword  string   `toml:"enable_password" yaml:"enable_password"`
}

// ConnectionConfig holds the scheduler connection settings
type ConnectionConfig struct {
	DefaultPort int      `toml:"default_port" yaml:"default_port"`
	DialTimeout Duration `toml:"dial_timeout" yaml:"dial_timeout"`
	CallingNode string   `toml:"calling_node" yaml:"calling_node"`
}

// LoggingConfig holds the diagnostic log settings
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	Output string `toml:"output" yaml:"output"`
}

// OutputConfig selects how command results are rendered
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"`
}

// NodeConfig holds the settings of a served scheduler node
type NodeConfig struct {
	Listen string `toml:"listen" yaml:"listen"`
	Domain string `toml:"domain" yaml:"domain"`
	Name   string `toml:"name" yaml:"name"`
	Master bool   `toml:"master" yaml:"master"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file, or a YAML file when the
// extension is .yaml or .yml
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the OWSH_CONFIG environment
// variable or the default locations; without any file the defaults are
// returned
func LoadFromEnv() (*Config, error) {
	path := os.Getenv("OWSH_CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./owsh.toml",
			"./owsh.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/owsh/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		cfg.applyEnvOverrides()
		return cfg, cfg.Validate()
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// Shell
	if c.Shell.HistorySize == 0 {
		c.Shell.HistorySize = 256
	}
	if c.Shell.RegularInterval.Duration == 0 {
		c.Shell.RegularInterval.Duration = time.Second
	}

	// Connection
	if c.Connection.DefaultPort == 0 {
		c.Connection.DefaultPort = 8080
	}
	if c.Connection.DialTimeout.Duration == 0 {
		c.Connection.DialTimeout.Duration = 5 * time.Second
	}
	if c.Connection.CallingNode == "" {
		c.Connection.CallingNode = "ows-cli"
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "warn"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stderr"
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = OutputPlain
	}

	// Node
	if c.Node.Listen == "" {
		c.Node.Listen = fmt.Sprintf(":%d", c.Connection.DefaultPort)
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.Shell.EnablePassword = os.ExpandEnv(c.Shell.EnablePassword)
	c.Shell.Banner = os.ExpandEnv(c.Shell.Banner)
	c.Logging.Output = os.ExpandEnv(c.Logging.Output)
}

// applyEnvOverrides lets OWSH_* variables win over file values
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OWSH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("OWSH_ENABLE_PASSWORD"); v != "" {
		c.Shell.EnablePassword = v
	}
	if v := os.Getenv("OWSH_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Shell.HistorySize < 0 {
		return fmt.Errorf("shell.history_size must not be negative: %d", c.Shell.HistorySize)
	}
	if c.Shell.IdleTimeout.Duration < 0 {
		return fmt.Errorf("shell.idle_timeout must not be negative: %s", c.Shell.IdleTimeout)
	}
	if c.Connection.DefaultPort < 1 || c.Connection.DefaultPort > 65535 {
		return fmt.Errorf("connection.default_port out of range: %d", c.Connection.DefaultPort)
	}
	switch c.Output.Format {
	case OutputPlain, OutputJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", OutputPlain, OutputJSON, c.Output.Format)
	}
	return nil
}
