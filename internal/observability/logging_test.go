package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/homepresso/formgraph/internal/config"
)

// newTestLogger creates a logger that writes JSON to a buffer for assertion.
func newTestLogger(buf *bytes.Buffer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "msg",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	})
	core := zapcore.NewCore(enc, zapcore.AddSync(buf), zapcore.DebugLevel)
	return zap.New(core)
}

func TestNewLogger_defaultLevel(t *testing.T) {
	cfg := config.ObservabilityConfig{LogLevel: "info"}
	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Sync()

	// Info should be enabled, Debug should not.
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should NOT be enabled at info level")
	}
}

func TestNewLogger_debugLevel(t *testing.T) {
	cfg := config.ObservabilityConfig{LogLevel: "debug"}
	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}
}

func TestNewLogger_invalidLevelFallsBackToInfo(t *testing.T) {
	cfg := config.ObservabilityConfig{LogLevel: "loud"}
	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	defer logger.Sync()

	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be enabled after fallback")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should NOT be enabled after fallback")
	}
}

func TestLogger_emitsStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	logger.Info("form compiled",
		zap.String("form", "ExpenseReport"),
		zap.Int("views", 3),
	)
	logger.Sync()

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if entry["msg"] != "form compiled" {
		t.Errorf("msg = %q, want %q", entry["msg"], "form compiled")
	}
	if entry["form"] != "ExpenseReport" {
		t.Errorf("form = %q, want %q", entry["form"], "ExpenseReport")
	}
	if entry["views"] != float64(3) {
		t.Errorf("views = %v, want 3", entry["views"])
	}
}
