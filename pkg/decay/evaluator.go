// Package decay evaluates the per-attestation-type time-decay
// expressions configured in the properties database.
//
// Expressions run in a sandboxed CEL environment exposing arithmetic,
// comparisons and a fixed set of math functions over the single free
// variable x, the evidence age in seconds. Nothing else resolves:
// no general code execution, no iteration, no string or structured
// values. Expressions are compiled once and the programs cached, so
// the administration loader can reject bad configuration before any
// evidence is ever scored against it.
package decay

import (
	"fmt"
	"math"
	"sync"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
)

// Evaluator compiles and runs decay expressions.
type Evaluator struct {
	env  *cel.Env
	mu   sync.RWMutex
	prgs map[string]cel.Program
}

// NewEvaluator creates the sandboxed expression environment.
func NewEvaluator() (*Evaluator, error) {
	env, err := cel.NewEnv(
		cel.Variable("x", cel.DoubleType),
		unaryMath("exp", math.Exp),
		unaryMath("log", math.Log),
		unaryMath("sqrt", math.Sqrt),
		binaryMath("pow", math.Pow),
		binaryMath("min", math.Min),
		binaryMath("max", math.Max),
	)
	if err != nil {
		return nil, fmt.Errorf("create decay environment: %w", err)
	}
	return &Evaluator{env: env, prgs: make(map[string]cel.Program)}, nil
}

func unaryMath(name string, fn func(float64) float64) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(name+"_double", []*cel.Type{cel.DoubleType}, cel.DoubleType,
			cel.UnaryBinding(func(v ref.Val) ref.Val {
				return types.Double(fn(float64(v.(types.Double))))
			})))
}

func binaryMath(name string, fn func(float64, float64) float64) cel.EnvOption {
	return cel.Function(name,
		cel.Overload(name+"_double_double", []*cel.Type{cel.DoubleType, cel.DoubleType}, cel.DoubleType,
			cel.BinaryBinding(func(a, b ref.Val) ref.Val {
				return types.Double(fn(float64(a.(types.Double)), float64(b.(types.Double))))
			})))
}

// Compile parses, checks and caches the program for expr. Returns an
// error when the expression is malformed, escapes the sandbox, or does
// not yield a number.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.program(expr)
	return err
}

// Eval evaluates expr at the given evidence age.
func (e *Evaluator) Eval(expr string, age float64) (float64, error) {
	prg, err := e.program(expr)
	if err != nil {
		return 0, err
	}
	out, _, err := prg.Eval(map[string]any{"x": age})
	if err != nil {
		return 0, fmt.Errorf("evaluate decay expression: %w", err)
	}
	switch v := out.Value().(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	}
	return 0, fmt.Errorf("decay expression yielded non-numeric %T", out.Value())
}

func (e *Evaluator) program(expr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.prgs[expr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile decay expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.DoubleType) && !ast.OutputType().IsExactType(cel.IntType) {
		return nil, fmt.Errorf("decay expression must yield a number, got %s", ast.OutputType())
	}
	if err := checkSandbox(ast); err != nil {
		return nil, err
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("plan decay expression: %w", err)
	}

	e.mu.Lock()
	e.prgs[expr] = prg
	e.mu.Unlock()
	return prg, nil
}
