package validation

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/ext"
)

// celEngine compiles predicate expressions once and shares the programs.
// Expressions see the form values as the map variable `values`.
type celEngine struct {
	env   *cel.Env
	mu    sync.RWMutex
	cache map[string]cel.Program
}

var (
	engineOnce sync.Once
	engine     *celEngine
	engineErr  error
)

func sharedEngine() (*celEngine, error) {
	engineOnce.Do(func() {
		env, err := cel.NewEnv(
			cel.Variable("values", cel.MapType(cel.StringType, cel.DynType)),
			ext.Strings(),
		)
		if err != nil {
			engineErr = fmt.Errorf("validation: create CEL env: %w", err)
			return
		}
		engine = &celEngine{env: env, cache: make(map[string]cel.Program)}
	})
	return engine, engineErr
}

func (e *celEngine) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, hit := e.cache[expr]
	e.mu.RUnlock()
	if hit {
		return prg, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if prg, hit = e.cache[expr]; hit {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("validation: compile predicate %q: %w", expr, issues.Err())
	}
	if out := ast.OutputType().String(); out != "bool" && out != "dyn" {
		return nil, fmt.Errorf("validation: predicate %q must return bool, got %s", expr, out)
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("validation: build predicate %q: %w", expr, err)
	}
	e.cache[expr] = prg
	return prg, nil
}

// CELPredicate compiles expr into a Predicate. Compilation errors are returned
// immediately; at evaluation time any error or non-bool output counts as a
// failing predicate.
func CELPredicate(expr string) (Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("validation: empty predicate expression")
	}
	e, err := sharedEngine()
	if err != nil {
		return nil, err
	}
	prg, err := e.program(expr)
	if err != nil {
		return nil, err
	}

	return func(values Values) bool {
		activation := map[string]any{"values": celValues(values)}
		out, _, err := prg.Eval(activation)
		if err != nil {
			return false
		}
		ok, isBool := out.Value().(bool)
		return isBool && ok
	}, nil
}

// celValues widens string sets to []any so CEL sees plain lists.
func celValues(values Values) map[string]any {
	out := make(map[string]any, len(values))
	for key, value := range values {
		switch typed := value.(type) {
		case []string:
			items := make([]any, len(typed))
			for i, s := range typed {
				items[i] = s
			}
			out[key] = items
		default:
			out[key] = deepCopy(value)
		}
	}
	return out
}
