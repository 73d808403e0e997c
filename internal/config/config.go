package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for taskman.
type Config struct {
	Version  int      `yaml:"version"`
	Server   Server   `yaml:"server"`
	Identity Identity `yaml:"identity,omitempty"`
	Client   Client   `yaml:"client"`
}

// Server configures the task service.
type Server struct {
	Addr   string `yaml:"addr"`    // listen address, e.g. ":3001"
	DBPath string `yaml:"db_path"` // sqlite database file
}

// Identity describes the external identity provider. When URL is empty
// the service runs without session checks (development only).
type Identity struct {
	URL        string `yaml:"url,omitempty"`
	AnonKey    string `yaml:"anon_key,omitempty"`
	AnonKeyEnv string `yaml:"anon_key_env,omitempty"` // env var name holding the key
}

// Client configures the terminal UI and CLI task commands.
type Client struct {
	ServiceURL string `yaml:"service_url"`
}

// EffectiveAnonKey resolves the provider key, preferring the env var
// so the key stays out of the config file.
func (i Identity) EffectiveAnonKey() string {
	if i.AnonKeyEnv != "" {
		if v := os.Getenv(i.AnonKeyEnv); v != "" {
			return v
		}
	}
	return i.AnonKey
}

// Enabled reports whether an identity provider is configured.
func (i Identity) Enabled() bool {
	return i.URL != ""
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to the given path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a starter config for local development.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: Server{
			Addr:   ":3001",
			DBPath: ".taskman/taskman.db",
		},
		Client: Client{
			ServiceURL: "http://localhost:3001",
		},
	}
}

func (c *Config) validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.DBPath == "" {
		return fmt.Errorf("server.db_path is required")
	}
	if c.Identity.Enabled() && c.Identity.AnonKey == "" && c.Identity.AnonKeyEnv == "" {
		return fmt.Errorf("identity.anon_key or identity.anon_key_env is required when identity.url is set")
	}
	return nil
}
