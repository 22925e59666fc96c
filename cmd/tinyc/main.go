package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

const usage = `usage:
  tinyc [flags] [file]        run a file (stdin when no file is given and stdin is not a terminal)
  tinyc run [flags] <file>    run exactly one file
  tinyc repl                  interactive session
  tinyc tui [file]            terminal UI
  tinyc test [-timeout d] <manifest.yaml>

flags:
  -debug          debug logging to stderr
  -env <file>     preload variables from a JSON snapshot
  -dump <file|->  write the final environment as a JSON snapshot
`

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	sub := ""
	if len(args) > 0 {
		switch args[0] {
		case "run", "repl", "tui", "test":
			sub, args = args[0], args[1:]
		case "help", "-h", "-help", "--help":
			fmt.Fprint(stdout, usage)
			return 0
		}
	}

	name := "tinyc"
	if sub != "" {
		name += " " + sub
	}
	cfg, err := parseFlags(name, args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprint(stderr, usage)
		return 2
	}
	log := newLogger(stderr, cfg.debug)

	switch sub {
	case "repl":
		err = runREPL(ctx, cfg, stdout, log)
	case "tui":
		// The alt screen covers stderr, so the TUI only logs when asked.
		if !cfg.debug {
			log = zerolog.Nop()
		}
		p := tea.NewProgram(newModel(cfg, log), tea.WithAltScreen())
		_, err = p.Run()
		if err != nil {
			err = fmt.Errorf("tui: %w", err)
		}
	case "test":
		return runTests(ctx, cfg, stdout, stderr, log)
	default:
		if sub == "run" && cfg.file == "" {
			err = errUsage
			break
		}
		var file, src string
		file, src, err = loadSource(cfg.file, stdin)
		if err == nil {
			err = runPlain(ctx, cfg, file, src, stdout, log)
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "tinyc: %v\n", err)
		return 1
	}
}

func parseFlags(name string, args []string, stderr io.Writer) (appConfig, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	debug := fs.Bool("debug", false, "debug logging to stderr")
	envPath := fs.String("env", "", "preload variables from a JSON snapshot")
	dumpPath := fs.String("dump", "", "write the final environment as a JSON snapshot (- for stdout)")
	timeout := fs.Duration("timeout", 0, "per-case timeout for test, overriding the manifest")
	if err := fs.Parse(args); err != nil {
		return appConfig{}, err
	}
	if fs.NArg() > 1 {
		return appConfig{}, errUsage
	}
	return appConfig{
		file:     fs.Arg(0),
		debug:    *debug,
		envPath:  *envPath,
		dumpPath: *dumpPath,
		timeout:  *timeout,
	}, nil
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
