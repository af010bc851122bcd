// Package config handles Daybook configuration loading.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./daybook.yaml, ~/.config/daybook/config.yaml, /etc/daybook/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"daybook.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "daybook", "config.yaml"))
	}

	paths = append(paths, "/etc/daybook/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns the path found, or an error if nothing was found.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v)", DefaultSearchPaths())
}

// Config holds all Daybook configuration.
type Config struct {
	Listen     ListenConfig     `yaml:"listen"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Transcribe TranscribeConfig `yaml:"transcribe"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Digest     DigestConfig     `yaml:"digest"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
	CalDAV     CalDAVConfig     `yaml:"caldav"`

	// DataDir holds the SQLite database and other state. Defaults to ".".
	DataDir string `yaml:"data_dir"`

	// ContactsFile is a vCard file of notification contacts. Empty disables
	// contact notifications.
	ContactsFile string `yaml:"contacts_file"`

	// Timezone is the IANA timezone handed to the classifier for resolving
	// relative dates, and used to schedule the daily digest. Defaults to UTC.
	Timezone string `yaml:"timezone"`

	LogLevel string `yaml:"log_level"`
}

// ListenConfig defines the API server settings.
type ListenConfig struct {
	Address string `yaml:"address"` // Bind address (default: "" = all interfaces)
	Port    int    `yaml:"port"`
}

// AnthropicConfig defines Anthropic API settings and model routing.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`

	// IntentModel classifies raw input into intents. Needs vision support
	// when image input is used.
	IntentModel string `yaml:"intent_model"`

	// MatcherModel maps completion descriptions to open tasks. A small,
	// cheap model is fine here; falls back to IntentModel when empty.
	MatcherModel string `yaml:"matcher_model"`

	// DigestModel writes the daily summary email. Falls back to
	// IntentModel when empty.
	DigestModel string `yaml:"digest_model"`
}

// TranscribeConfig defines the speech-to-text service. The endpoint is
// expected to be OpenAI-compatible (POST {base_url}/audio/transcriptions).
type TranscribeConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SMTPConfig defines outbound mail delivery for the daily digest.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	StartTLS bool   `yaml:"starttls"` // false = implicit TLS (port 465)
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// DigestConfig defines the daily digest schedule.
type DigestConfig struct {
	Enabled bool `yaml:"enabled"`
	Hour    int  `yaml:"hour"`   // Local hour 0-23, default 21
	Minute  int  `yaml:"minute"` // Local minute 0-59
}

// MQTTConfig defines the broker used for calendar-event notifications.
// An empty broker disables the MQTT notifier.
type MQTTConfig struct {
	Broker   string `yaml:"broker"` // e.g. "tls://broker.example.net:8883"
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Topic    string `yaml:"topic"` // Default: "daybook/notify"
}

// CalDAVConfig defines the calendar server that receives created events.
// An empty URL disables calendar event creation (entries are still persisted).
type CalDAVConfig struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Calendar string `yaml:"calendar"` // Calendar collection path
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Listen:   ListenConfig{Port: 8080},
		DataDir:  ".",
		Timezone: "UTC",
		Digest:   DigestConfig{Hour: 21},
		MQTT:     MQTTConfig{Topic: "daybook/notify"},
	}
}

// Location resolves the configured timezone. Falls back to UTC on an
// unknown zone name rather than failing startup.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// MatcherModel returns the task-matching model, falling back to the
// intent model.
func (c *Config) MatcherModel() string {
	if c.Anthropic.MatcherModel != "" {
		return c.Anthropic.MatcherModel
	}
	return c.Anthropic.IntentModel
}

// DigestModel returns the digest-summary model, falling back to the
// intent model.
func (c *Config) DigestModel() string {
	if c.Anthropic.DigestModel != "" {
		return c.Anthropic.DigestModel
	}
	return c.Anthropic.IntentModel
}
