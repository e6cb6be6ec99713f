package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"loud":    slog.LevelWarn,
		"":        slog.LevelWarn,
	}
	for in, want := range tests {
		if got := ParseLevel(in, slog.LevelWarn); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := Setup(&buf, slog.LevelInfo, "json")
	logger.Debug("hidden")
	logger.Info("shown", "key", "swipeCount")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not json: %v", err)
	}
	if rec["msg"] != "shown" || rec["key"] != "swipeCount" {
		t.Fatalf("record = %v", rec)
	}
}

func TestFromEnvText(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	t.Setenv(EnvLevel, "debug")
	t.Setenv(EnvFormat, "text")

	var buf bytes.Buffer
	FromEnv(&buf, slog.LevelWarn)
	slog.Debug("visible")
	if !strings.Contains(buf.String(), "msg=visible") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestOpenFileAppends(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		f, err := OpenFile(dir)
		if err != nil {
			t.Fatalf("OpenFile: %v", err)
		}
		f.WriteString("line\n")
		f.Close()
	}
	data, err := os.ReadFile(dir + "/" + FileName)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line\nline\n" {
		t.Fatalf("file = %q", data)
	}
}
