package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/gosuda/tinyc"
	"github.com/gosuda/tinyc/parser"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

// runVM owns the VM for the whole TUI session. It runs the startup file,
// then executes each submitted statement against the same environment.
func runVM(ctx context.Context, cfg appConfig, log zerolog.Logger, requests <-chan string, events chan<- tea.Msg) {
	defer close(events)

	name, src := "<tui>", ""
	if cfg.file != "" {
		var err error
		name, src, err = loadSource(cfg.file, nil)
		if err != nil {
			events <- vmDoneMsg{err: err}
			return
		}
	}
	vm, err := tinyc.Compile(name, src)
	if err != nil {
		events <- vmDoneMsg{err: fmt.Errorf("compile: %w", err)}
		return
	}
	vm.SetLogger(log)
	if cfg.envPath != "" {
		if err := vm.LoadEnv(cfg.envPath); err != nil {
			events <- vmDoneMsg{err: fmt.Errorf("load env: %w", err)}
			return
		}
	}
	vm.SetOutputHook(func(out tcruntime.Output) {
		events <- vmOutputMsg{out: out}
	})

	if cfg.file != "" {
		runCtx, cancel := context.WithCancel(ctx)
		events <- vmBusyMsg{label: name, cancel: cancel}
		_, err := vm.Run(runCtx)
		cancel()
		events <- vmDoneMsg{err: err}
	}

	chunk := 0
	for {
		select {
		case <-ctx.Done():
			return
		case src, ok := <-requests:
			if !ok {
				return
			}
			chunk++
			prog, err := parser.ParseProgram(fmt.Sprintf("<input:%d>", chunk), src)
			if err != nil {
				events <- vmDoneMsg{err: err}
				continue
			}
			runCtx, cancel := context.WithCancel(ctx)
			events <- vmBusyMsg{label: src, cancel: cancel}
			_, err = vm.Exec(runCtx, prog)
			cancel()
			events <- vmDoneMsg{err: err}
		}
	}
}
