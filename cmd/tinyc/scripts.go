package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// loadSource reads path, or all of stdin when path is empty (or "-")
// and stdin is not an interactive terminal.
func loadSource(path string, stdin io.Reader) (string, string, error) {
	if path != "" && path != "-" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("load source: %w", err)
		}
		return path, string(b), nil
	}
	if stdin == nil || (path == "" && isTerminal(stdin)) {
		return "", "", errUsage
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return "<stdin>", string(b), nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
