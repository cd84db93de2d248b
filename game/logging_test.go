package game

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/pthm-cable/pasture/config"
)

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestSummary_Log(t *testing.T) {
	buf := captureLogs(t, slog.LevelInfo)

	sim, err := FromConfig(config.Cfg(), Options{Seed: 2})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	sim.Summary().Log()

	out := buf.String()
	for _, want := range []string{`"msg":"summary"`, `"reserve_kg":"3,000"`, `"cow":2`, `"predator_alive":true`} {
		if !strings.Contains(out, want) {
			t.Errorf("summary log missing %s: %s", want, out)
		}
	}
}

func TestLogDay_DebugReport(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)

	sim, err := FromConfig(config.Cfg(), Options{Seed: 2})
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	sim.AdvanceOneDay()

	out := buf.String()
	if !strings.Contains(out, `"msg":"day"`) || !strings.Contains(out, `"population":6`) {
		t.Errorf("expected a debug day report, got %s", out)
	}
}

func TestRoundTenth(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{1.04, 1.0},
		{1.06, 1.1},
		{2999.96, 3000},
	}
	for _, tt := range tests {
		if got := roundTenth(tt.in); got != tt.want {
			t.Errorf("roundTenth(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
