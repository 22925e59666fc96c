package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gosuda/tinyc"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

func runPlain(ctx context.Context, cfg appConfig, name, src string, stdout io.Writer, log zerolog.Logger) error {
	vm, err := tinyc.Compile(name, src)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	vm.SetLogger(log)
	if cfg.envPath != "" {
		if err := vm.LoadEnv(cfg.envPath); err != nil {
			return fmt.Errorf("load env: %w", err)
		}
	}

	vm.SetOutputHook(func(out tcruntime.Output) {
		if out.NewLine {
			fmt.Fprintln(stdout, out.Text)
		} else {
			fmt.Fprint(stdout, out.Text)
		}
	})

	if _, err := vm.Run(ctx); err != nil {
		return err
	}
	return dumpEnv(cfg.dumpPath, vm, stdout)
}

func dumpEnv(path string, vm *tcruntime.VM, stdout io.Writer) error {
	switch path {
	case "":
		return nil
	case "-":
		data, err := tcruntime.MarshalEnv(vm.Env())
		if err != nil {
			return fmt.Errorf("dump env: %w", err)
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	default:
		if err := vm.SaveEnv(path); err != nil {
			return fmt.Errorf("dump env: %w", err)
		}
		return nil
	}
}
