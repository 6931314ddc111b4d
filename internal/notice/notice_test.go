package notice

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrinter_WritesOneLinePerNotice(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.Notify(Success, "Product created successfully!")
	p.Notify(Error, "Failed to create product, please try again.")
	p.Notify(Info, "Signed out.")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "Product created successfully!") {
		t.Errorf("unexpected success line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Failed to create product") {
		t.Errorf("unexpected error line: %q", lines[1])
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	r.Notify(Error, "a")
	r.Notify(Success, "b")
	r.Notify(Error, "a")

	want := []Notice{{Error, "a"}, {Success, "b"}, {Error, "a"}}
	if diff := cmp.Diff(want, r.Notices()); diff != "" {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}
	if got := r.Count("a"); got != 2 {
		t.Errorf("Count(a) = %d, want 2", got)
	}
}

func TestLevelString(t *testing.T) {
	for lvl, want := range map[Level]string{Info: "info", Success: "success", Error: "error"} {
		if lvl.String() != want {
			t.Errorf("%d.String() = %q, want %q", lvl, lvl.String(), want)
		}
	}
}
