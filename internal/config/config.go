package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRegion     = "us-west-2"
	DefaultListenAddr = "127.0.0.1:8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
)

// Environment variables
const (
	EnvInstanceID = "EC2_ID"
	EnvRegion     = "EC2_REGION"
	EnvListenAddr = "LISTEN_ADDR"
	EnvLogLevel   = "LOG_LEVEL"
	EnvLogFormat  = "LOG_FORMAT"
	EnvConfigFile = "CONFIG_FILE"
)

// Load reads the optional YAML file at path, then applies environment
// overrides and defaults. An empty path skips the file.
func Load(path string) (*Config, error) {
	var cfg Config

	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse yaml %q: %w", path, err)
		}
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv loads the configuration named by CONFIG_FILE, if any.
func FromEnv() (*Config, error) {
	return Load(os.Getenv(EnvConfigFile))
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.InstanceID) == "" {
		return fmt.Errorf("instance id is required (set %s)", EnvInstanceID)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format %q (expected json|text)", c.Log.Format)
	}
	return nil
}

func applyEnv(c *Config) {
	setFromEnv(&c.InstanceID, EnvInstanceID)
	// the instance region is independent of the AWS_REGION the function runs in
	setFromEnv(&c.Region, EnvRegion)
	setFromEnv(&c.ListenAddr, EnvListenAddr)
	setFromEnv(&c.Log.Level, EnvLogLevel)
	setFromEnv(&c.Log.Format, EnvLogFormat)
}

func applyDefaults(c *Config) {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	c.Log.Format = strings.ToLower(c.Log.Format)
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
