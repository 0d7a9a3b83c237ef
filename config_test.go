/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"tls pair", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"key without cert", func(c *Config) { c.tlsKey = "key.pem" }, true},
		{"port zero", func(c *Config) { c.port = 0 }, true},
		{"port too high", func(c *Config) { c.port = 65536 }, true},
		{"negative words", func(c *Config) { c.maxWords = -1 }, true},
		{"unlimited words", func(c *Config) { c.maxWords = 0 }, false},
		{"negative timeout", func(c *Config) { c.sessionTimeout = -time.Second }, true},
		{"blocklist without filter", func(c *Config) { c.blocklist = "words.txt" }, true},
		{"blocklist with filter", func(c *Config) { c.blocklist, c.filter = "words.txt", true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(cfg)

			err := cfg.validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("WORDCLOUD_PORT", "")

	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.port)
	}
	if cfg.maxWords != 2 || cfg.maxPhrases != 3 || cfg.maxLength != 64 {
		t.Errorf("limits = %d/%d/%d, want 2/3/64", cfg.maxWords, cfg.maxPhrases, cfg.maxLength)
	}
	if !cfg.onePerQuestion || cfg.clearOnQuestion || cfg.filter {
		t.Errorf("unexpected switches: %+v", cfg)
	}
	if cfg.sessionTimeout != time.Hour {
		t.Errorf("sessionTimeout = %s, want 1h", cfg.sessionTimeout)
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("WORDCLOUD_MAX_WORDS", "4")
	t.Setenv("WORDCLOUD_FILTER", "true")
	t.Setenv("WORDCLOUD_SESSION_TIMEOUT", "15m")

	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 8081 {
		t.Errorf("port = %d, want 8081", cfg.port)
	}
	if cfg.maxWords != 4 {
		t.Errorf("maxWords = %d, want 4", cfg.maxWords)
	}
	if !cfg.filter {
		t.Error("filter not enabled")
	}
	if cfg.sessionTimeout != 15*time.Minute {
		t.Errorf("sessionTimeout = %s, want 15m", cfg.sessionTimeout)
	}
}

func TestWordcloudPortWinsOverPort(t *testing.T) {
	t.Setenv("WORDCLOUD_PORT", "9000")
	t.Setenv("PORT", "8081")

	cfg := &Config{}
	newCmd(cfg)

	if cfg.port != 9000 {
		t.Errorf("port = %d, want 9000", cfg.port)
	}
}

func TestAggregatorFilter(t *testing.T) {
	cfg := testConfig()

	agg, err := cfg.aggregator()
	if err != nil {
		t.Fatal(err)
	}
	if agg.Filter != nil {
		t.Fatal("filter enabled without --filter")
	}

	cfg.filter = true

	agg, err = cfg.aggregator()
	if err != nil {
		t.Fatal(err)
	}
	if agg.Filter.Len() == 0 || !agg.Filter.Blocked("idiota") {
		t.Fatal("--filter did not load the built-in list")
	}

	cfg.blocklist = filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(cfg.blocklist, []byte("brocoli\ncoliflor\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	agg, err = cfg.aggregator()
	if err != nil {
		t.Fatal(err)
	}
	if agg.Filter.Len() != 2 {
		t.Fatalf("Len = %d, want 2", agg.Filter.Len())
	}

	cfg.blocklist = filepath.Join(t.TempDir(), "missing.txt")
	if _, err := cfg.aggregator(); err == nil {
		t.Fatal("expected an error for a missing blocklist")
	}
}

func TestHumanReadableSize(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		3145728: "3.0 MiB",
	}

	for in, want := range tests {
		if got := humanReadableSize(in); got != want {
			t.Errorf("humanReadableSize(%d) = %q, want %q", in, got, want)
		}
	}
}
