package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/lululau/hijri/internal/config"
)

func TestSetupAttachesLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	buf := &bytes.Buffer{}
	ctx, l := Setup(context.Background(), &config.Config{LogLevel: "info", LogFormat: "json"}, buf)
	if FromContext(ctx) != l {
		t.Fatalf("context logger differs from returned logger")
	}
	FromContext(With(ctx, "lunation", 1048)).Info("converted")
	out := buf.String()
	if !strings.Contains(out, `"msg":"converted"`) || !strings.Contains(out, `"lunation":1048`) {
		t.Fatalf("unexpected log output: %s", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(&config.Config{LogLevel: "warn", LogFormat: "text"}, buf)
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected log output: %s", buf.String())
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected a discard logger")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
