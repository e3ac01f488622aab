package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: "debug"})
	WithOperation(WithComponent(l, "registry"), "load").Info("fonts loaded", slog.Int("count", 3), slog.String("name", "my font"))

	out := buf.String()
	for _, want := range []string{"INF fonts loaded", "component=registry", "op=load", "count=3", `name="my font"`, "app=captionator"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q missing %q", out, want)
		}
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: "warn"})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info record should be filtered: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "WRN shown") {
		t.Fatalf("warn record missing: %q", buf.String())
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Options{Format: "JSON"}).Error("boom")
	if !strings.Contains(buf.String(), `"msg":"boom"`) {
		t.Fatalf("expected JSON record, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
