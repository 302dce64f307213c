package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	defaultAPIRateLimit = 5
	defaultMinDelaySec  = 30
	defaultMaxDelaySec  = 120
	defaultPollSec      = 30
	defaultInitialSec   = 5
	defaultFetchGapSec  = 10
)

func checkFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return fmt.Errorf("config file %s has insecure permissions %04o; should be 0600", path, perm)
	}
	return nil
}

type Config struct {
	API     APIConfig     `yaml:"api"`
	Company CompanyConfig `yaml:"company"`
	Sender  SenderConfig  `yaml:"sender,omitempty"`
	Polling PollingConfig `yaml:"polling,omitempty"`
	Inbox   InboxConfig   `yaml:"inbox,omitempty"`
}

// APIConfig holds the backend endpoint and credentials
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Token     string `yaml:"token"`
	RateLimit int    `yaml:"rate_limit,omitempty"` // requests per second
}

// CompanyConfig is the user's company context passed to AI generation
type CompanyConfig struct {
	Name              string `yaml:"name"`
	Description       string `yaml:"description"`
	CustomInstruction string `yaml:"custom_instruction,omitempty"`
}

// SenderConfig holds the SMTP credentials passed through to delivery jobs
type SenderConfig struct {
	Email           string `yaml:"email"`
	Password        string `yaml:"password"` // App password (not main password)
	Host            string `yaml:"host,omitempty"`
	Port            int    `yaml:"port,omitempty"`
	MinDelaySeconds int    `yaml:"min_delay_seconds,omitempty"`
	MaxDelaySeconds int    `yaml:"max_delay_seconds,omitempty"`
}

// PollingConfig tunes the reconciliation loop
type PollingConfig struct {
	AutoRefresh         bool `yaml:"auto_refresh"`
	IntervalSeconds     int  `yaml:"interval_seconds,omitempty"`
	InitialDelaySeconds int  `yaml:"initial_delay_seconds,omitempty"`
	MinFetchGapSeconds  int  `yaml:"min_fetch_gap_seconds,omitempty"`
}

// InboxConfig holds IMAP settings for monitoring lead replies
type InboxConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Provider      string `yaml:"provider"` // "gmail", "outlook", "imap"
	Server        string `yaml:"server"`   // e.g., "imap.gmail.com"
	Port          int    `yaml:"port"`     // e.g., 993
	Email         string `yaml:"email"`    // Email address to monitor
	Password      string `yaml:"password"` // App password (not main password)
	Folder        string `yaml:"folder"`   // Folder to monitor (default: "INBOX")
	AutoArchive   bool   `yaml:"auto_archive"`
	ArchiveFolder string `yaml:"archive_folder"` // Default: "LeadForge"
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".leadforge", "config.yaml")
}

// DefaultDataDir is where local state (pending tasks, activity db) lives
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leadforge"
	}
	return filepath.Join(home, ".leadforge")
}

func Load(path string) (*Config, error) {
	if err := checkFilePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: %v\n", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.API.RateLimit == 0 {
		cfg.API.RateLimit = defaultAPIRateLimit
	}
	if cfg.Sender.MinDelaySeconds == 0 {
		cfg.Sender.MinDelaySeconds = defaultMinDelaySec
	}
	if cfg.Sender.MaxDelaySeconds == 0 {
		cfg.Sender.MaxDelaySeconds = defaultMaxDelaySec
	}

	// Polling defaults
	if cfg.Polling.IntervalSeconds == 0 {
		cfg.Polling.IntervalSeconds = defaultPollSec
	}
	if cfg.Polling.InitialDelaySeconds == 0 {
		cfg.Polling.InitialDelaySeconds = defaultInitialSec
	}
	if cfg.Polling.MinFetchGapSeconds == 0 {
		cfg.Polling.MinFetchGapSeconds = defaultFetchGapSec
	}

	// Inbox defaults
	if cfg.Inbox.Folder == "" {
		cfg.Inbox.Folder = "INBOX"
	}
	if cfg.Inbox.ArchiveFolder == "" {
		cfg.Inbox.ArchiveFolder = "LeadForge"
	}
	if cfg.Inbox.Provider == "gmail" && cfg.Inbox.Server == "" {
		cfg.Inbox.Server = "imap.gmail.com"
		cfg.Inbox.Port = 993
	}
	if cfg.Inbox.Provider == "outlook" && cfg.Inbox.Server == "" {
		cfg.Inbox.Server = "outlook.office365.com"
		cfg.Inbox.Port = 993
	}

	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api: base_url is required")
	}
	if c.API.Token == "" {
		return fmt.Errorf("api: token is required (copy it from the dashboard settings page)")
	}
	return nil
}

// ValidateSender validates sender credentials (only called before send jobs)
func (c *Config) ValidateSender() error {
	if c.Sender.Email == "" {
		return fmt.Errorf("sender: email is required")
	}
	if c.Sender.Password == "" {
		return fmt.Errorf("sender: password (app password) is required")
	}
	if c.Sender.MinDelaySeconds > c.Sender.MaxDelaySeconds {
		return fmt.Errorf("sender: min_delay_seconds must not exceed max_delay_seconds")
	}
	return nil
}

// ValidateInbox validates inbox configuration (only called when reply monitoring is used)
func (c *Config) ValidateInbox() error {
	if !c.Inbox.Enabled {
		return fmt.Errorf("inbox: monitoring is not enabled in config")
	}
	if c.Inbox.Email == "" {
		return fmt.Errorf("inbox: email address is required")
	}
	if c.Inbox.Password == "" {
		return fmt.Errorf("inbox: password (app password) is required")
	}
	if c.Inbox.Server == "" {
		return fmt.Errorf("inbox: IMAP server is required")
	}
	if c.Inbox.Port == 0 {
		return fmt.Errorf("inbox: IMAP port is required")
	}
	return nil
}
