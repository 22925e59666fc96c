package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/gosuda/tinyc/harness"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	diffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(2)
)

func runTests(ctx context.Context, cfg appConfig, stdout, stderr io.Writer, log zerolog.Logger) int {
	if cfg.file == "" {
		fmt.Fprint(stderr, usage)
		return 2
	}
	m, err := harness.LoadManifest(cfg.file)
	if err != nil {
		fmt.Fprintf(stderr, "tinyc: %v\n", err)
		return 1
	}
	runner := harness.NewRunner()
	runner.Timeout = cfg.timeout
	runner.Logger = log

	results := runner.Run(ctx, m)
	for _, r := range results {
		if r.Passed {
			fmt.Fprintf(stdout, "%s %s (%s)\n", passStyle.Render("PASS"), r.Case.Name, r.Elapsed.Round(time.Microsecond))
			continue
		}
		reason := "output mismatch"
		switch {
		case r.TimedOut():
			reason = "timeout"
		case r.Err != nil:
			reason = r.Err.Error()
		}
		fmt.Fprintf(stdout, "%s %s: %s\n", failStyle.Render("FAIL"), r.Case.Name, reason)
		if r.Diff != "" {
			fmt.Fprintln(stdout, diffStyle.Render(strings.TrimRight(r.Diff, "\n")))
		}
	}
	passed, failed := harness.Summary(results)
	fmt.Fprintf(stdout, "%d passed, %d failed\n", passed, failed)
	if failed > 0 || len(results) < len(m.Cases) {
		return 1
	}
	return 0
}
