package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gosuda/tinyc"
)

// Result is the outcome of one case.
type Result struct {
	Case    Case
	Passed  bool
	Got     string
	Diff    string
	Err     error
	Elapsed time.Duration
}

// TimedOut reports whether the case hit its deadline.
func (r Result) TimedOut() bool {
	return errors.Is(r.Err, context.DeadlineExceeded)
}

type Runner struct {
	// Timeout overrides every case's timeout when positive.
	Timeout time.Duration
	Logger  zerolog.Logger
}

func NewRunner() *Runner {
	return &Runner{Logger: zerolog.Nop()}
}

// Run executes the cases in order. It stops early only when ctx itself
// is cancelled.
func (r *Runner) Run(ctx context.Context, m *Manifest) []Result {
	results := make([]Result, 0, len(m.Cases))
	for _, c := range m.Cases {
		if ctx.Err() != nil {
			break
		}
		res := r.RunCase(ctx, c)
		ev := r.Logger.Debug()
		if !res.Passed {
			ev = r.Logger.Info()
		}
		ev.Str("case", c.Name).Bool("passed", res.Passed).Dur("elapsed", res.Elapsed).Err(res.Err).Msg("case finished")
		results = append(results, res)
	}
	return results
}

func (r *Runner) RunCase(ctx context.Context, c Case) Result {
	res := Result{Case: c}
	src := c.Source
	if c.File != "" {
		data, err := os.ReadFile(c.File)
		if err != nil {
			res.Err = fmt.Errorf("read %s: %w", c.File, err)
			return res
		}
		src = string(data)
	}

	timeout := c.Timeout
	if r.Timeout > 0 {
		timeout = r.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	vm, err := tinyc.Compile(c.Name, src)
	if err != nil {
		res.Err = err
		return res
	}
	vm.SetLogger(r.Logger)
	out, err := vm.Run(runCtx)
	res.Elapsed = time.Since(start)

	lines := make([]string, 0, len(out))
	for _, o := range out {
		lines = append(lines, o.Text)
	}
	res.Got = strings.Join(lines, "\n")
	if err != nil {
		res.Err = err
		return res
	}

	want := strings.TrimSpace(c.Expect)
	got := strings.TrimSpace(res.Got)
	res.Passed = want == got
	if !res.Passed {
		res.Diff = LineDiff(want, got)
	}
	return res
}

// Summary counts passing and failing results.
func Summary(results []Result) (passed, failed int) {
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
