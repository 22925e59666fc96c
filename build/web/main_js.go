//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"syscall/js"
	"time"

	"github.com/gosuda/tinyc"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

type runResult struct {
	Outputs []tcruntime.Output `json:"outputs"`
	Env     json.RawMessage    `json:"env,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// A browser tab has no interrupt key, so runaway loops are cut off here.
const runTimeout = 10 * time.Second

func encode(result runResult) string {
	b, _ := json.Marshal(result)
	return string(b)
}

// runSource(source, envJSON?) runs one program and returns a JSON result.
func runSource(this js.Value, args []js.Value) any {
	result := runResult{}
	if len(args) < 1 {
		result.Error = "tinycRun requires a source string"
		return encode(result)
	}

	var env *tcruntime.Env
	if len(args) > 1 && strings.TrimSpace(args[1].String()) != "" {
		var err error
		env, err = tcruntime.UnmarshalEnv([]byte(args[1].String()))
		if err != nil {
			result.Error = fmt.Sprintf("invalid env json: %v", err)
			return encode(result)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	out, final, err := tinyc.Run(ctx, "<web>", args[0].String(), env)
	result.Outputs = out
	if err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	if final != nil {
		if b, err := tcruntime.MarshalEnv(final); err == nil {
			result.Env = b
		}
	}
	return encode(result)
}

func main() {
	js.Global().Set("tinycRun", js.FuncOf(runSource))
	js.Global().Set("tinycBuiltins", js.FuncOf(func(this js.Value, args []js.Value) any {
		return strings.Join(tcruntime.Builtins(), ",")
	}))
	select {}
}
