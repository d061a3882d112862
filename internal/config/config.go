// Package config loads and persists the mailer configuration as a YAML
// file, with defaults applied first and environment-variable overrides
// applied last.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file created next to the binary when
// no explicit path is given.
const DefaultPath = "bulkmail.yaml"

// Config holds the complete application configuration.
type Config struct {
	SMTPServer     string        `yaml:"smtp_server"`
	SMTPPort       int           `yaml:"smtp_port"`
	SenderEmail    string        `yaml:"sender_email"`
	SenderName     string        `yaml:"sender_name"`
	UseSSL         bool          `yaml:"use_ssl"`
	SavePassword   bool          `yaml:"save_password"`
	SenderPassword string        `yaml:"sender_password,omitempty"`
	LastUsed       string        `yaml:"last_used"`
	Provider       string        `yaml:"provider"`
	SES            SESConfig     `yaml:"ses"`
	Logging        LoggingConfig `yaml:"logging"`
}

// SESConfig holds AWS SES credentials for the ses delivery provider.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Preset is a well-known SMTP server configuration.
type Preset struct {
	Server string
	Port   int
}

// Presets maps provider names to their SMTP submission endpoints.
var Presets = map[string]Preset{
	"gmail":   {Server: "smtp.gmail.com", Port: 587},
	"outlook": {Server: "smtp.office365.com", Port: 587},
	"yahoo":   {Server: "smtp.mail.yahoo.com", Port: 587},
	"aol":     {Server: "smtp.aol.com", Port: 587},
	"zoho":    {Server: "smtp.zoho.com", Port: 587},
}

// Load reads the configuration file at path. A missing file is not an
// error: defaults are written out so the operator has a file to edit.
// Environment variables always override file values.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvVars()
	return cfg, nil
}

// Save writes the configuration to path, refreshing last_used. The file
// is written with owner-only permissions since it may hold a credential,
// and via a temp-file rename so a failed write never truncates it.
func (c *Config) Save(path string) error {
	c.LastUsed = time.Now().Format("2006-01-02 15:04:05")

	if !c.SavePassword {
		c.SenderPassword = ""
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmp, path)
}

// ApplyPreset sets the SMTP server and port from a named preset.
// It returns false if the preset is unknown.
func (c *Config) ApplyPreset(name string) bool {
	p, ok := Presets[strings.ToLower(name)]
	if !ok {
		return false
	}
	c.SMTPServer = p.Server
	c.SMTPPort = p.Port
	return true
}

// HasStoredPassword returns true if a credential was persisted and
// persistence is still enabled.
func (c *Config) HasStoredPassword() bool {
	return c.SavePassword && c.SenderPassword != ""
}

// SESConfigured returns true if the SES provider has a region set.
func (c *Config) SESConfigured() bool {
	return c.SES.Region != ""
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.SMTPServer = Presets["gmail"].Server
	c.SMTPPort = Presets["gmail"].Port
	c.SenderName = "Bulkmail"
	c.UseSSL = true
	c.Provider = "smtp"
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("SMTP_SERVER"); v != "" {
		c.SMTPServer = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.SMTPPort = port
		}
	}
	if v := os.Getenv("SENDER_EMAIL"); v != "" {
		c.SenderEmail = v
	}
	if v := os.Getenv("SENDER_NAME"); v != "" {
		c.SenderName = v
	}
	if v := os.Getenv("USE_SSL"); v != "" {
		if ssl, err := strconv.ParseBool(v); err == nil {
			c.UseSSL = ssl
		}
	}
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.SecretAccessKey = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}
