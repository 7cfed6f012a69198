package logsvc

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/cel-go/cel"

	"github.com/pluglog/pluglog/internal/entry"
)

// celFilter wraps a compiled CEL program shared by Query and streaming
// reads. When disabled, Eval always returns true.
type celFilter struct {
	prog    cel.Program
	enabled bool
}

func newCELFilter(expr string) (celFilter, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return celFilter{enabled: false}, nil
	}
	env, err := cel.NewEnv(
		cel.Variable("tenant", cel.StringType),
		cel.Variable("message", cel.StringType),
		cel.Variable("severity", cel.IntType),
		cel.Variable("ts_ms", cel.IntType),
		// Current time in ms for windowed filters
		cel.Variable("now_ms", cel.IntType),
	)
	if err != nil {
		return celFilter{}, err
	}
	ast, iss := env.Parse(expr)
	if iss != nil && iss.Err() != nil {
		return celFilter{}, fmt.Errorf("%w: %v", ErrBadFilter, iss.Err())
	}
	checked, iss2 := env.Check(ast)
	if iss2 != nil && iss2.Err() != nil {
		return celFilter{}, fmt.Errorf("%w: %v", ErrBadFilter, iss2.Err())
	}
	prog, err := env.Program(checked)
	if err != nil {
		return celFilter{}, fmt.Errorf("%w: %v", ErrBadFilter, err)
	}
	return celFilter{prog: prog, enabled: true}, nil
}

// Eval evaluates the compiled expression against an entry. Evaluation
// errors count as non-matches.
func (f celFilter) Eval(e entry.Entry) bool {
	if !f.enabled {
		return true
	}
	out, _, err := f.prog.Eval(map[string]any{
		"tenant":   e.Tenant,
		"message":  e.Message,
		"severity": int64(e.Severity),
		"ts_ms":    e.TsMs,
		"now_ms":   time.Now().UnixMilli(),
	})
	if err != nil {
		return false
	}
	b, ok := out.Value().(bool)
	return ok && b
}
