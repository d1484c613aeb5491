package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Lob0Garou/Escala-que-Converte/internal/config"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := New(&config.LogConfig{Level: "warn", Format: format})
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("%s: info enabled at warn level", format)
		}
		if !log.Core().Enabled(zapcore.ErrorLevel) {
			t.Errorf("%s: error disabled at warn level", format)
		}
	}
}

func TestNewBadLevel(t *testing.T) {
	if _, err := New(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
