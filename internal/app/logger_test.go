package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogLevel: "info"})

	logger.Debug("hidden")
	logger.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record must be suppressed at info level:\n%s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("info record missing:\n%s", out)
	}
}

func TestLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogLevel: "debug"})

	logger.Debug("token rejected")
	if !strings.Contains(buf.String(), "token rejected") {
		t.Fatalf("debug record missing at debug level:\n%s", buf.String())
	}
}

func TestLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &Config{LogFormat: "json"})

	logger.Info("status", "code", 200)

	line := strings.TrimSpace(buf.String())
	if !strings.HasPrefix(line, "{") || !strings.Contains(line, `"code":200`) {
		t.Fatalf("expected a JSON record, got:\n%s", line)
	}
}

func TestLoggerNilConfig(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, nil)

	logger.Debug("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("nil config must default to text at info level:\n%s", out)
	}
}
