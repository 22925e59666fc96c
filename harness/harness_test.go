package harness

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDecodeManifest(t *testing.T) {
	m, err := DecodeManifest(strings.NewReader(`
timeout: 2s
cases:
  - name: sum
    source: "int x = 5; int y = 11; print(x+y);"
    expect: "16"
  - file: loop.tc
    timeout: 100ms
    expect: |
      0
      1
`), "/suite")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if m.Timeout != 2*time.Second || len(m.Cases) != 2 {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if m.Cases[0].Timeout != 2*time.Second {
		t.Fatalf("manifest timeout not inherited: %v", m.Cases[0].Timeout)
	}
	c := m.Cases[1]
	if c.Name != "loop.tc" || c.File != filepath.Join("/suite", "loop.tc") || c.Timeout != 100*time.Millisecond {
		t.Fatalf("unexpected file case: %+v", c)
	}
}

func TestDecodeManifestValidation(t *testing.T) {
	_, err := DecodeManifest(strings.NewReader(`
timeout: soon
cases:
  - name: a
    expect: "1"
  - name: a
    source: "print(1)"
    file: x.tc
`), ".")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Issues) != 4 {
		t.Fatalf("unexpected issues: %q", verr.Issues)
	}
	if _, err := DecodeManifest(strings.NewReader("cases: []\nextra: 1\n"), "."); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := DecodeManifest(strings.NewReader(""), "."); err == nil {
		t.Fatalf("expected empty manifest error")
	}
}

func TestRunnerPassFailAndTimeout(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "count.tc"), []byte("for (i = 0; i < 3; i++) {\n    print(i)\n}\n"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	manifest := `
cases:
  - file: count.tc
    expect: |
      0
      1
      2
  - name: wrong
    source: "print(1); print(2)"
    expect: |
      1
      3
  - name: spin
    source: "for (i = 0; 1; i++) { }"
    timeout: 50ms
  - name: missing
    file: nope.tc
`
	path := filepath.Join(dir, "suite.yaml")
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	m, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	results := NewRunner().Run(context.Background(), m)
	if len(results) != 4 {
		t.Fatalf("unexpected result count: %d", len(results))
	}
	if !results[0].Passed {
		t.Fatalf("expected count.tc to pass: %+v", results[0])
	}
	if results[1].Passed || !strings.Contains(results[1].Diff, "- 3") || !strings.Contains(results[1].Diff, "+ 2") {
		t.Fatalf("expected a diff for the wrong case: %+v", results[1])
	}
	if results[2].Passed || !results[2].TimedOut() {
		t.Fatalf("expected spin to time out: %+v", results[2])
	}
	if results[3].Passed || results[3].Err == nil {
		t.Fatalf("expected missing file to fail: %+v", results[3])
	}
	if passed, failed := Summary(results); passed != 1 || failed != 3 {
		t.Fatalf("unexpected summary: %d passed, %d failed", passed, failed)
	}
}

func TestLineDiff(t *testing.T) {
	d := LineDiff("1\n2\n3", "1\n3")
	if !strings.Contains(d, "  1\n") || !strings.Contains(d, "- 2\n") {
		t.Fatalf("unexpected diff:\n%s", d)
	}
	if strings.Contains(d, "+ ") {
		t.Fatalf("unexpected insertion in diff:\n%s", d)
	}
}
