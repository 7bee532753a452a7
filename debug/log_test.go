package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogWritesCategory(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	Log("sched", "missed step=%d", 3)

	out := buf.String()
	if !strings.Contains(out, "category=sched") {
		t.Fatalf("log line missing category: %q", out)
	}
	if !strings.Contains(out, "missed step=3") {
		t.Fatalf("log line missing message: %q", out)
	}
}

func TestLogDisabledIsSilent(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	Disable()

	Log("sched", "should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output after Disable, got %q", buf.String())
	}
}

func TestEnableCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	if err := Enable(path); err != nil {
		t.Fatalf("enable: %v", err)
	}
	Log("timer", "tick")
	Disable()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "Debug logging started") {
		t.Fatalf("missing header in %q", data)
	}
	if !strings.Contains(string(data), "category=timer") {
		t.Fatalf("missing timer line in %q", data)
	}
}

func TestLogEvery(t *testing.T) {
	var buf bytes.Buffer
	EnableWriter(&buf)
	defer Disable()

	for i := 0; i < 10; i++ {
		LogEvery(5, "frame", "redraw")
	}
	if got := strings.Count(buf.String(), "redraw"); got != 2 {
		t.Fatalf("LogEvery wrote %d lines, want 2", got)
	}
}
