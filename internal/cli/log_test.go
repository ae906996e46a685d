package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spiderweb/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("test completed")

	if !strings.Contains(buf.String(), "test completed") {
		t.Errorf("progress.done() output = %q", buf.String())
	}
}

func TestInstallHooks(t *testing.T) {
	var buf bytes.Buffer
	installHooks(newLogger(&buf, log.DebugLevel))
	defer observability.Reset()

	ctx := context.Background()
	observability.Pipeline().OnSynthesizeComplete(ctx, "f00d", 19, time.Millisecond, nil)
	observability.Cache().OnCacheHit(ctx, "mesh")
	observability.Server().OnResponse(ctx, "GET", "/healthz", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"synthesized", "f00d", "cache hit", "/healthz"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	installHooks(newLogger(&buf, log.InfoLevel))
	defer observability.Reset()

	observability.Cache().OnCacheMiss(context.Background(), "artifact")
	if buf.Len() != 0 {
		t.Errorf("cache events should log at debug level, got %q", buf.String())
	}
}
