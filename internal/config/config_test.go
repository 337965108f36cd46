package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Errorf("expected default port 8082, got %s", cfg.Port)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("expected default backend sqlite, got %s", cfg.DataBackend)
	}
	if cfg.AMQPQueue != "mirror_payments" {
		t.Errorf("unexpected default queue %s", cfg.AMQPQueue)
	}
	if cfg.MirrorBatchSize != 10 {
		t.Errorf("unexpected default batch size %d", cfg.MirrorBatchSize)
	}
	if cfg.CatchUpInterval != 60*time.Second {
		t.Errorf("unexpected default catch-up interval %v", cfg.CatchUpInterval)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("unexpected default log format %s", cfg.LogFormat)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("LOG_FORMAT", "pretty")
	t.Setenv("CATCHUP_INTERVAL", "5m")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.DataBackend != "memory" {
		t.Errorf("expected memory backend, got %s", cfg.DataBackend)
	}
	if cfg.LogFormat != "pretty" {
		t.Errorf("expected pretty log format, got %s", cfg.LogFormat)
	}
	if cfg.CatchUpInterval != 5*time.Minute {
		t.Errorf("expected 5m catch-up interval, got %v", cfg.CatchUpInterval)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"memory backend", func(c *Config) { c.DataBackend = "memory" }, true},
		{"bad port", func(c *Config) { c.Port = "abc" }, false},
		{"port out of range", func(c *Config) { c.Port = "70000" }, false},
		{"bad backend", func(c *Config) { c.DataBackend = "sheets" }, false},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://localhost" }, false},
		{"no amqp is fine", func(c *Config) { c.AMQPURL = "" }, true},
		{"empty queue with amqp", func(c *Config) { c.AMQPQueue = "" }, false},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, false},
		{"batch too small", func(c *Config) { c.MirrorBatchSize = 0 }, false},
		{"interval too short", func(c *Config) { c.CatchUpInterval = 100 * time.Millisecond }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Load()
			cfg.SQLiteDBPath = t.TempDir() + "/paybot.db"
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
