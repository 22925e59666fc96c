package mobile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gosuda/tinyc"
	tcruntime "github.com/gosuda/tinyc/runtime"
)

type runResult struct {
	Outputs []tcruntime.Output `json:"outputs"`
	Env     json.RawMessage    `json:"env,omitempty"`
	Error   string             `json:"error,omitempty"`
}

// TimeoutMillis bounds a single Run call. Zero or negative disables it.
var TimeoutMillis int64 = 10000

// Run executes source and returns a JSON result.
// envJSON is an optional snapshot, as written by `tinyc -dump`, that seeds
// the variables before the program starts. The result carries the printed
// outputs and the final snapshot:
// {"outputs":[{"text":"3","newline":true}],"env":{"vars":{...}},"error":"..."}
func Run(source, envJSON string) string {
	result := runResult{}

	var env *tcruntime.Env
	if strings.TrimSpace(envJSON) != "" {
		var err error
		env, err = tcruntime.UnmarshalEnv([]byte(envJSON))
		if err != nil {
			result.Error = fmt.Sprintf("invalid env json: %v", err)
			b, _ := json.Marshal(result)
			return string(b)
		}
	}

	ctx := context.Background()
	if TimeoutMillis > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(TimeoutMillis)*time.Millisecond)
		defer cancel()
	}

	out, final, err := tinyc.Run(ctx, "<mobile>", source, env)
	result.Outputs = out
	if err != nil {
		result.Error = fmt.Sprintf("runtime: %v", err)
	}
	if final != nil {
		if b, err := tcruntime.MarshalEnv(final); err == nil {
			result.Env = b
		}
	}
	b, _ := json.Marshal(result)
	return string(b)
}

// Builtins returns the built-in function names, comma separated.
func Builtins() string {
	return strings.Join(tcruntime.Builtins(), ",")
}
