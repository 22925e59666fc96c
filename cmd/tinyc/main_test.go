package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRunFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "sum.tc", "int x = 5\nint y = 11\nprint(x + y)\n")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"run", path}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d, stderr=%q", code, stderr.String())
	}
	if stdout.String() != "16\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}
}

func TestRunReadsStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), nil, strings.NewReader("print(2 ^ 10);"), &stdout, &stderr)
	if code != 0 || stdout.String() != "1024\n" {
		t.Fatalf("exit %d stdout=%q stderr=%q", code, stdout.String(), stderr.String())
	}
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"run"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
	stderr.Reset()
	if code := run(context.Background(), []string{"a.tc", "b.tc"}, nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected usage exit for two files, got %d", code)
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"run", filepath.Join(t.TempDir(), "nope.tc")}, nil, &stdout, &stderr)
	if code != 1 || !strings.Contains(stderr.String(), "load source") {
		t.Fatalf("exit %d stderr=%q", code, stderr.String())
	}
}

func TestRunDumpAndPreloadEnv(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.tc", "int n = 41\narray a = [1, 2]\n")
	second := writeFile(t, dir, "second.tc", "n++\nprint(n)\nprint(length(a))\n")
	snap := filepath.Join(dir, "state", "env.json")

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-dump", snap, first}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("dump run exit %d: %s", code, stderr.String())
	}
	stdout.Reset()
	if code := run(context.Background(), []string{"-env", snap, second}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("preload run exit %d: %s", code, stderr.String())
	}
	if stdout.String() != "42\n2\n" {
		t.Fatalf("unexpected stdout %q", stdout.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"-dump", "-", first}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("stdout dump exit %d", code)
	}
	if !strings.Contains(stdout.String(), `"vars"`) {
		t.Fatalf("snapshot not written to stdout: %q", stdout.String())
	}
}

func TestRunTests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "loop.tc", "for (i = 0; i < 3; i++) {\n  print(i)\n}\n")
	manifest := writeFile(t, dir, "cases.yaml", `
cases:
  - file: loop.tc
    expect: |
      0
      1
      2
  - name: wrong
    source: "print(1)"
    expect: "2"
`)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"test", manifest}, nil, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected failure exit, got %d", code)
	}
	out := stdout.String()
	if !strings.Contains(out, "loop.tc") || !strings.Contains(out, "wrong: output mismatch") {
		t.Fatalf("unexpected report:\n%s", out)
	}
	if !strings.Contains(out, "1 passed, 1 failed") {
		t.Fatalf("missing summary:\n%s", out)
	}
}

func TestREPLSession(t *testing.T) {
	var out bytes.Buffer
	s, err := newREPLSession(appConfig{}, &out, zerolog.Nop())
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	ctx := context.Background()
	if err := s.exec(ctx, "int x = 2\n"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if err := s.exec(ctx, "x *= 21\nprint(x)\n"); err != nil {
		t.Fatalf("exec: %v", err)
	}
	if got := out.String(); got != "42\n" {
		t.Fatalf("unexpected output %q", got)
	}

	out.Reset()
	if _, err := s.command(ctx, ":vars"); err != nil {
		t.Fatalf(":vars: %v", err)
	}
	if !strings.Contains(out.String(), "x = 42 (int)") {
		t.Fatalf("unexpected :vars output %q", out.String())
	}
	if _, err := s.command(ctx, ":reset"); err != nil {
		t.Fatalf(":reset: %v", err)
	}
	if s.vm.Env().Len() != 0 {
		t.Fatalf("reset kept variables")
	}
	if quit, _ := s.command(ctx, ":quit"); !quit {
		t.Fatalf(":quit did not quit")
	}
	if _, err := s.command(ctx, ":bogus"); err == nil {
		t.Fatalf("expected unknown command error")
	}
}

func TestUpdateDepth(t *testing.T) {
	cases := []struct {
		depth int
		line  string
		want  int
	}{
		{0, "if (x) {", 1},
		{1, "} else {", 1},
		{1, "}", 0},
		{0, "}", 0},
		{0, "print(1) // {", 0},
	}
	for _, tc := range cases {
		if got := updateDepth(tc.depth, tc.line); got != tc.want {
			t.Fatalf("updateDepth(%d, %q) = %d, want %d", tc.depth, tc.line, got, tc.want)
		}
	}
}
