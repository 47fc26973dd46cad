package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level log.Level
		debug bool
		info  bool
	}{
		{log.InfoLevel, false, true},
		{log.DebugLevel, true, true},
		{log.WarnLevel, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			l := newLogger(&buf, tt.level)

			l.Debug("debug line")
			if got := strings.Contains(buf.String(), "debug line"); got != tt.debug {
				t.Errorf("debug written = %v, want %v", got, tt.debug)
			}
			l.Info("info line")
			if got := strings.Contains(buf.String(), "info line"); got != tt.info {
				t.Errorf("info written = %v, want %v", got, tt.info)
			}
		})
	}
}

func TestStopwatch(t *testing.T) {
	var buf bytes.Buffer
	sw := startStopwatch(newLogger(&buf, log.InfoLevel))
	time.Sleep(5 * time.Millisecond)

	if sw.elapsed() < 5*time.Millisecond {
		t.Errorf("elapsed() = %v, want >= 5ms", sw.elapsed())
	}
	sw.stop("generated best-of list", "visible", 3)

	out := buf.String()
	for _, want := range []string{"generated best-of list", "visible=3", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %s", want, out)
		}
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := logHooks{logger: newLogger(&buf, log.DebugLevel)}

	h.OnEnrichComplete(context.Background(), "flask", 2, 1500*time.Microsecond)
	h.OnResponse(context.Background(), "GET", "pypi.org", "/pypi/flask/json", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"enrich done", "project=flask", "failures=2", "http response", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
