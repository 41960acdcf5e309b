package main

import (
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		bind:           "127.0.0.1",
		maxMessageSize: 1 << 20,
		port:           8080,
		reapInterval:   time.Minute,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too large", func(c *Config) { c.port = 65536 }, true},
		{"no reaping", func(c *Config) { c.reapInterval = 0 }, true},
		{"no message size", func(c *Config) { c.maxMessageSize = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	cfg := validConfig()
	if got := cfg.scheme(); got != "http" {
		t.Errorf("scheme() = %s, want http", got)
	}

	cfg.tlsCert, cfg.tlsKey = "cert.pem", "key.pem"
	if got := cfg.scheme(); got != "https" {
		t.Errorf("scheme() = %s, want https", got)
	}
}

func TestFlagDefaults(t *testing.T) {
	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 8080 || cfg.bind != "0.0.0.0" {
		t.Errorf("listen defaults = %s:%d", cfg.bind, cfg.port)
	}
	if cfg.reapInterval != 30*time.Minute {
		t.Errorf("reap interval default = %s", cfg.reapInterval)
	}
	if cfg.maxMessageSize != 4<<20 {
		t.Errorf("max message size default = %d", cfg.maxMessageSize)
	}
}

// TestEnvironmentOverrides checks that TELEPHONE_* variables fill in flags
// and that explicit flags still win.
func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TELEPHONE_PORT", "9000")
	t.Setenv("TELEPHONE_REAP_INTERVAL", "5m")
	t.Setenv("TELEPHONE_VERBOSE", "true")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if cfg.port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.port)
	}
	if cfg.reapInterval != 5*time.Minute {
		t.Errorf("reap interval = %s, want 5m", cfg.reapInterval)
	}
	if !cfg.verbose {
		t.Errorf("verbose not set from environment")
	}

	if err := cmd.ParseFlags([]string{"--port", "7000"}); err != nil {
		t.Fatalf("ParseFlags() failed: %v", err)
	}
	if cfg.port != 7000 {
		t.Errorf("port = %d after flag, want 7000", cfg.port)
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{999, "999 B"},
		{1000, "1.0 kB"},
		{1500, "1.5 kB"},
		{2_000_000, "2.0 MB"},
		{3_500_000_000, "3.5 GB"},
	}

	for _, tt := range tests {
		if got := humanReadableSize(tt.in); got != tt.want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
