package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Logger{
		Logger:    slog.New(slog.NewTextHandler(&buf, nil)),
		component: component,
	}, &buf
}

func TestLoggerTagsComponent(t *testing.T) {
	logger, buf := newBufferLogger("bot")

	logger.Info("commands registered", "count", 5)

	out := buf.String()
	if !strings.Contains(out, "component=bot") {
		t.Errorf("output missing component tag: %s", out)
	}
	if !strings.Contains(out, "count=5") {
		t.Errorf("output missing attribute: %s", out)
	}
}

func TestWithComponent(t *testing.T) {
	logger, buf := newBufferLogger("paybot")

	workerLogger := logger.WithComponent("worker")
	if workerLogger.Component() != "worker" {
		t.Fatalf("Component() = %q, want %q", workerLogger.Component(), "worker")
	}
	if logger.Component() != "paybot" {
		t.Fatalf("parent component mutated to %q", logger.Component())
	}

	workerLogger.Warn("catch-up scan lagging")
	if out := buf.String(); !strings.Contains(out, "component=worker") {
		t.Errorf("output missing derived component tag: %s", out)
	}
}

func TestWithKeepsComponent(t *testing.T) {
	logger, buf := newBufferLogger("audit")

	logger.With("guild", "g1").Error("report failed")

	out := buf.String()
	if !strings.Contains(out, "component=audit") {
		t.Errorf("output missing component tag after With: %s", out)
	}
	if !strings.Contains(out, "guild=g1") {
		t.Errorf("output missing bound attribute: %s", out)
	}
}

func TestNewHandlerFormats(t *testing.T) {
	if _, ok := NewHandler("json", slog.LevelInfo).(*slog.JSONHandler); !ok {
		t.Error("json format did not produce a JSON handler")
	}
	if _, ok := NewHandler("text", slog.LevelInfo).(*slog.TextHandler); !ok {
		t.Error("text format did not produce a text handler")
	}
	// Unknown formats fall back to text.
	if _, ok := NewHandler("bogus", slog.LevelInfo).(*slog.TextHandler); !ok {
		t.Error("unknown format did not fall back to the text handler")
	}
	if NewHandler("pretty", slog.LevelInfo) == nil {
		t.Error("pretty format produced a nil handler")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Component != "paybot" || cfg.Format != "text" || cfg.Level != slog.LevelInfo {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
