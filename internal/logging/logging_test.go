package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew_InfoLevelDropsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false)

	logger.Debug("hidden line")
	logger.Info("visible line", "run_id", "abc")

	out := buf.String()
	if strings.Contains(out, "hidden line") {
		t.Fatalf("expected debug to be filtered, got %q", out)
	}
	if !strings.Contains(out, "visible line") || !strings.Contains(out, "run_id") {
		t.Fatalf("expected info line with attrs, got %q", out)
	}
}

func TestNew_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, true).Debug("state transition")

	if !strings.Contains(buf.String(), "state transition") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}
