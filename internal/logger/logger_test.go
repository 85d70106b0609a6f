package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestParseLogLevelKnownValues(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"panic":   zerolog.PanicLevel,
	}
	for input, want := range cases {
		if got := parseLogLevel(input); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseLogLevelUnknownDefaultsToInfo(t *testing.T) {
	if got := parseLogLevel("nonsense"); got != zerolog.InfoLevel {
		t.Errorf("parseLogLevel(unknown) = %v, want InfoLevel", got)
	}
}

func TestNewAppliesConfiguredLevel(t *testing.T) {
	l := New("production", "warn")
	if l.GetLevel() != zerolog.WarnLevel {
		t.Errorf("New().GetLevel() = %v, want WarnLevel", l.GetLevel())
	}
}

func TestNewStampsServiceField(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	stdout := os.Stdout
	os.Stdout = w
	l := New("production", "info")
	os.Stdout = stdout
	l.Info().Msg("hello")
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatalf("ReadFrom() error = %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["service"] != "jonbu-wfo" {
		t.Errorf("service field = %v, want jonbu-wfo", decoded["service"])
	}
}

func TestLogPerformanceSuccessUsesInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	LogPerformance(l, "ga_generation", time.Now().Add(-5*time.Millisecond), true)

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["level"] != "info" {
		t.Errorf("level = %v, want info", decoded["level"])
	}
	if decoded["operation"] != "ga_generation" {
		t.Errorf("operation = %v, want ga_generation", decoded["operation"])
	}
}

func TestLogPerformanceFailureUsesErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	LogPerformance(l, "backtest_segment", time.Now(), false)

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("LogPerformance(success=false) output = %s, want level=error", buf.String())
	}
}

func TestLogErrorIncludesWrappedErrorAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)

	LogError(l, errors.New("boom"), "window failed", map[string]interface{}{
		"window":  "Train:2024-01to2024-04_Test:2024-05",
		"attempt": 2,
	})

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded["error"] != "boom" {
		t.Errorf("error field = %v, want boom", decoded["error"])
	}
	if decoded["window"] != "Train:2024-01to2024-04_Test:2024-05" {
		t.Errorf("window field = %v", decoded["window"])
	}
	if decoded["attempt"] != float64(2) {
		t.Errorf("attempt field = %v, want 2", decoded["attempt"])
	}
}
