// Package config loads the service configuration from an optional YAML
// file overridden by environment variables, tracking where each value
// came from. Secrets (DATABASE_URL, FORMS_JWT_SECRET) are env-only and
// never appear in the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/forms"
	ConfigFileName    = "forms.yml"
)

// Config holds all forms API settings.
type Config struct {
	// BindAddress is the server bind address
	BindAddress string `yaml:"bind_address"`

	// Port is the server listen port
	Port int `yaml:"port"`

	// TokenTTL is the JWT lifetime in seconds
	TokenTTL int `yaml:"token_ttl"`

	// LogDir is where the per-day JSON log files are written; empty
	// logs to stdout
	LogDir string `yaml:"log_dir"`

	// TemplateDir optionally overrides the embedded render templates
	TemplateDir string `yaml:"template_dir"`

	// SMTPHost and SMTPPort locate the outbound mail relay
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`

	// MailFrom and MailReplyTo are the notification headers
	MailFrom    string `yaml:"mail_from"`
	MailReplyTo string `yaml:"mail_reply_to"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

func newDefault() *Config {
	return &Config{
		BindAddress: "0.0.0.0",
		Port:        8000,
		TokenTTL:    610,
		MailFrom:    "UEMF Forms <Forms@uemf.org>",
		MailReplyTo: "UEMF-IT Support <support@uemf.org>",
		sources:     make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("FORMS_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"bind_address", "port", "token_ttl", "log_dir", "template_dir",
		"smtp_host", "smtp_port", "mail_from", "mail_reply_to",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.LogDir != "" {
		c.LogDir = file.LogDir
		c.sources["log_dir"] = "file"
	}
	if file.TemplateDir != "" {
		c.TemplateDir = file.TemplateDir
		c.sources["template_dir"] = "file"
	}
	if file.SMTPHost != "" {
		c.SMTPHost = file.SMTPHost
		c.sources["smtp_host"] = "file"
	}
	if file.SMTPPort != 0 {
		c.SMTPPort = file.SMTPPort
		c.sources["smtp_port"] = "file"
	}
	if file.MailFrom != "" {
		c.MailFrom = file.MailFrom
		c.sources["mail_from"] = "file"
	}
	if file.MailReplyTo != "" {
		c.MailReplyTo = file.MailReplyTo
		c.sources["mail_reply_to"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	if val := os.Getenv("FORMS_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("FORMS_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
	if val := os.Getenv("FORMS_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTL = i
			c.sources["token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("FORMS_LOG_DIR"); val != "" {
		c.LogDir = val
		c.sources["log_dir"] = "environment"
	}
	if val := os.Getenv("FORMS_TEMPLATE_DIR"); val != "" {
		c.TemplateDir = val
		c.sources["template_dir"] = "environment"
	}
	if val := os.Getenv("FORMS_SMTP_HOST"); val != "" {
		c.SMTPHost = val
		c.sources["smtp_host"] = "environment"
	}
	if val := os.Getenv("FORMS_SMTP_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.SMTPPort = i
			c.sources["smtp_port"] = "environment"
		}
	}
	if val := os.Getenv("FORMS_MAIL_FROM"); val != "" {
		c.MailFrom = val
		c.sources["mail_from"] = "environment"
	}
	if val := os.Getenv("FORMS_MAIL_REPLY_TO"); val != "" {
		c.MailReplyTo = val
		c.sources["mail_reply_to"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenTTLDuration returns the token TTL as a duration
func (c *Config) TokenTTLDuration() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// Addr returns the host:port the server should listen on
func (c *Config) Addr() string {
	return c.BindAddress + ":" + strconv.Itoa(c.Port)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token_ttl: %d", c.TokenTTL)
	}
	if c.SMTPPort < 0 || c.SMTPPort > 65535 {
		return fmt.Errorf("invalid smtp_port: %d", c.SMTPPort)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "log_dir", Value: c.LogDir, Source: c.Source("log_dir")},
		{Name: "template_dir", Value: c.TemplateDir, Source: c.Source("template_dir")},
		{Name: "smtp_host", Value: c.SMTPHost, Source: c.Source("smtp_host")},
		{Name: "smtp_port", Value: strconv.Itoa(c.SMTPPort), Source: c.Source("smtp_port")},
		{Name: "mail_from", Value: c.MailFrom, Source: c.Source("mail_from")},
		{Name: "mail_reply_to", Value: c.MailReplyTo, Source: c.Source("mail_reply_to")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-20s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}
