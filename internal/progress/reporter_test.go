package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LineReporter{Out: &buf, Description: "Building site"}

	r.Start(2)
	r.Update(1, "/docs")
	r.Update(2, "/en/docs")
	r.Finish()

	want := []string{
		"Building site: 2 pages",
		"[1/2] /docs",
		"[2/2] /en/docs",
		"Building site: done",
	}
	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("lines = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTerminalReporterWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{Out: &buf, Description: "Building site"}

	r.Start(3)
	r.Update(1, "/")
	r.Update(3, "/examples")
	r.Finish()

	if buf.Len() == 0 {
		t.Error("expected progress bar output")
	}
}

func TestTerminalReporterBeforeStart(t *testing.T) {
	r := &TerminalReporter{}
	// Update and Finish before Start must not panic.
	r.Update(1, "x")
	r.Finish()
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter("Building").(*LineReporter); !ok {
		t.Error("expected LineReporter in CI")
	}
}

func TestNop(t *testing.T) {
	var r Reporter = Nop{}
	r.Start(1)
	r.Update(1, "x")
	r.Finish()
}
