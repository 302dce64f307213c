package config

import (
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := &Config{}
	cfg.API.BaseURL = "https://api.example.com"
	cfg.API.Token = "secret-token"
	cfg.Company.Name = "Widget Co"
	cfg.Company.Description = "We sell widgets to bakeries"
	cfg.Sender.Email = "me@example.com"
	cfg.Sender.Password = "app-pass"

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("base URL = %q", loaded.API.BaseURL)
	}
	if loaded.Company.Description != cfg.Company.Description {
		t.Errorf("company description = %q", loaded.Company.Description)
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := &Config{}
	cfg.API.BaseURL = "https://api.example.com"
	cfg.API.Token = "tok"
	cfg.Inbox.Provider = "gmail"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Polling.IntervalSeconds != 30 {
		t.Errorf("poll interval default = %d, want 30", loaded.Polling.IntervalSeconds)
	}
	if loaded.Polling.InitialDelaySeconds != 5 {
		t.Errorf("initial delay default = %d, want 5", loaded.Polling.InitialDelaySeconds)
	}
	if loaded.Polling.MinFetchGapSeconds != 10 {
		t.Errorf("fetch gap default = %d, want 10", loaded.Polling.MinFetchGapSeconds)
	}
	if loaded.Inbox.Server != "imap.gmail.com" || loaded.Inbox.Port != 993 {
		t.Errorf("gmail defaults not applied: %s:%d", loaded.Inbox.Server, loaded.Inbox.Port)
	}
	if loaded.Inbox.Folder != "INBOX" {
		t.Errorf("folder default = %q", loaded.Inbox.Folder)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"complete", func(c *Config) {}, false},
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, true},
		{"missing token", func(c *Config) { c.API.Token = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.API.BaseURL = "https://api.example.com"
			cfg.API.Token = "tok"
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSender(t *testing.T) {
	cfg := &Config{}
	cfg.Sender.Email = "me@example.com"
	cfg.Sender.Password = "app-pass"
	cfg.Sender.MinDelaySeconds = 30
	cfg.Sender.MaxDelaySeconds = 90

	if err := cfg.ValidateSender(); err != nil {
		t.Errorf("valid sender rejected: %v", err)
	}

	cfg.Sender.MinDelaySeconds = 120
	if err := cfg.ValidateSender(); err == nil {
		t.Error("min delay above max delay should be rejected")
	}
}

func TestValidateInbox(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateInbox(); err == nil {
		t.Error("disabled inbox should be rejected")
	}

	cfg.Inbox.Enabled = true
	cfg.Inbox.Email = "me@example.com"
	cfg.Inbox.Password = "app-pass"
	cfg.Inbox.Server = "imap.example.com"
	cfg.Inbox.Port = 993
	if err := cfg.ValidateInbox(); err != nil {
		t.Errorf("complete inbox config rejected: %v", err)
	}
}
