package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"off":      zerolog.Disabled,
		"inactive": zerolog.Disabled,
	}
	for raw, want := range cases {
		got, ok := parseLevel(raw)
		if !ok || got != want {
			t.Fatalf("parseLevel(%q)=%v,%v want %v", raw, got, ok, want)
		}
	}
	if _, ok := parseLevel("loud"); ok {
		t.Fatalf("unknown level must not override")
	}
	if _, ok := parseLevel(""); ok {
		t.Fatalf("empty level must not override")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogTimestamp, "false")
	t.Setenv(EnvLogNoColor, "1")
	t.Setenv(EnvLogBypass, "not-a-bool")

	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.Level != zerolog.WarnLevel || cfg.Timestamp || !cfg.NoColor || cfg.Bypass {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNewBypassWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, Config{Level: zerolog.InfoLevel, Bypass: true})
	logger.Debug().Msg("hidden")
	logger.Info().Str("kind", "game_state").Msg("packet")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line must be filtered: %s", out)
	}
	if !strings.Contains(out, `"kind":"game_state"`) || !strings.Contains(out, `"message":"packet"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
}

func TestRotatingFileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gcmonitor.log")
	file := RotatingFile(path)
	defer file.Close()

	logger := New(file, Config{Level: zerolog.InfoLevel, Bypass: true})
	logger.Info().Uint8("packet", 7).Msg("game state")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"packet":7`) {
		t.Fatalf("unexpected file contents: %s", data)
	}
}

func TestApplyEnvOverridesLogFile(t *testing.T) {
	t.Setenv(EnvLogFile, " /var/log/gcmonitor.log ")
	cfg := defaultConfig(ProfileRuntime)
	applyEnvOverrides(&cfg)
	if cfg.File != "/var/log/gcmonitor.log" {
		t.Fatalf("file=%q", cfg.File)
	}
}
