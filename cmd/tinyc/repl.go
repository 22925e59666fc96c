package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"

	"github.com/gosuda/tinyc"
	"github.com/gosuda/tinyc/parser"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

type replSession struct {
	vm     *tcruntime.VM
	out    io.Writer
	log    zerolog.Logger
	chunks int
}

func newREPLSession(cfg appConfig, out io.Writer, log zerolog.Logger) (*replSession, error) {
	vm, err := tinyc.Compile("<repl>", "")
	if err != nil {
		return nil, err
	}
	vm.SetLogger(log)
	if cfg.envPath != "" {
		if err := vm.LoadEnv(cfg.envPath); err != nil {
			return nil, fmt.Errorf("load env: %w", err)
		}
	}
	vm.SetOutputHook(func(o tcruntime.Output) {
		fmt.Fprintln(out, o.Text)
	})
	return &replSession{vm: vm, out: out, log: log}, nil
}

// exec runs one submitted chunk; Ctrl+C while it runs cancels only the
// chunk, not the session.
func (s *replSession) exec(ctx context.Context, src string) error {
	s.chunks++
	prog, err := parser.ParseProgram(fmt.Sprintf("<repl:%d>", s.chunks), src)
	if err != nil {
		return err
	}
	for _, sk := range prog.Skipped {
		fmt.Fprintf(s.out, "skipped line %d: %s (%s)\n", sk.Line, sk.Text, sk.Reason)
	}
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	_, err = s.vm.Exec(runCtx, prog)
	return err
}

func runREPL(ctx context.Context, cfg appConfig, stdout io.Writer, log zerolog.Logger) error {
	home, _ := os.UserHomeDir()
	histPath := ""
	if home != "" {
		histPath = filepath.Join(home, ".tinyc_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "tinyc> ",
		HistoryFile:       histPath,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	session, err := newREPLSession(cfg, stdout, log)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, "tinyc REPL. :help for commands, :quit to exit.")

	var buf strings.Builder
	depth := 0
	for {
		if depth > 0 {
			rl.SetPrompt("...    ")
		} else {
			rl.SetPrompt("tinyc> ")
		}
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if buf.Len() > 0 {
				buf.Reset()
				depth = 0
				fmt.Fprintln(stdout, "^C (buffer cleared)")
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		trim := strings.TrimSpace(line)
		if depth == 0 && buf.Len() == 0 && strings.HasPrefix(trim, ":") {
			quit, cmdErr := session.command(ctx, trim)
			if cmdErr != nil {
				fmt.Fprintln(os.Stderr, cmdErr)
			}
			if quit {
				return nil
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
		depth = updateDepth(depth, line)
		if depth > 0 {
			continue
		}
		src := buf.String()
		buf.Reset()
		depth = 0
		if strings.TrimSpace(src) == "" {
			continue
		}
		if err := session.exec(ctx, src); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}

// updateDepth tracks open braces so a block can span several input lines.
func updateDepth(depth int, line string) int {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	depth += strings.Count(line, "{") - strings.Count(line, "}")
	if depth < 0 {
		return 0
	}
	return depth
}

func (s *replSession) command(ctx context.Context, cmd string) (bool, error) {
	name, arg, _ := strings.Cut(cmd, " ")
	arg = strings.TrimSpace(arg)
	switch name {
	case ":q", ":quit", ":exit":
		return true, nil
	case ":h", ":help":
		fmt.Fprintln(s.out, "Commands:")
		fmt.Fprintln(s.out, "  :help          Show this help")
		fmt.Fprintln(s.out, "  :quit          Exit the REPL")
		fmt.Fprintln(s.out, "  :vars          Show variables")
		fmt.Fprintln(s.out, "  :reset         Clear all variables")
		fmt.Fprintln(s.out, "  :load <file>   Run a file in this session")
		fmt.Fprintln(s.out, "  :dump <file>   Save variables as a JSON snapshot")
		fmt.Fprintln(s.out, "  :builtins      List builtin functions")
		return false, nil
	case ":vars":
		env := s.vm.Env()
		if env.Len() == 0 {
			fmt.Fprintln(s.out, "(no variables)")
		}
		for _, n := range env.Names() {
			v := env.Get(n)
			fmt.Fprintf(s.out, "  %s = %s (%s)\n", n, v, v.Kind())
		}
		return false, nil
	case ":reset":
		s.vm.SetEnv(nil)
		return false, nil
	case ":load":
		if arg == "" {
			return false, fmt.Errorf(":load needs a file")
		}
		b, err := os.ReadFile(arg)
		if err != nil {
			return false, err
		}
		return false, s.exec(ctx, string(b))
	case ":dump":
		if arg == "" {
			return false, fmt.Errorf(":dump needs a file")
		}
		return false, s.vm.SaveEnv(arg)
	case ":builtins":
		fmt.Fprintln(s.out, strings.Join(tcruntime.Builtins(), " "))
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %s (try :help)", name)
	}
}
