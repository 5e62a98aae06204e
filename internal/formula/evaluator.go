// Package formula evaluates simulation logic inside an embedded Lua
// interpreter. No standard libraries are opened on the state: the chunk's
// only free variables are the parameter bindings and a fixed whitelist of
// math functions, so a formula cannot reach I/O, modules or ambient state.
package formula

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	lua "github.com/Shopify/go-lua"
)

// Evaluator wraps one formula source and its output contract. It carries no
// interpreter state; every Evaluate call builds a fresh Lua state so nothing
// leaks between iterations.
type Evaluator struct {
	source  string
	outputs []string
}

// NewEvaluator creates an evaluator for source. outputs lists the keys the
// returned table must contain; an empty list disables the contract check.
func NewEvaluator(source string, outputs []string) *Evaluator {
	return &Evaluator{source: source, outputs: outputs}
}

// Source returns the formula text the evaluator runs.
func (e *Evaluator) Source() string {
	return e.source
}

// Evaluate runs the formula once with the given parameter bindings. rng backs
// the injected random() and is the only source of nondeterminism. The chunk
// must return a table; every entry is coerced to a number, and a NaN or
// non-coercible entry fails the evaluation naming the offending key.
func (e *Evaluator) Evaluate(bindings map[string]any, rng *rand.Rand) (map[string]float64, error) {
	l := lua.NewState()
	registerMathBindings(l, rng)

	for name, value := range bindings {
		if err := pushBinding(l, value); err != nil {
			return nil, fmt.Errorf("bind parameter %q: %w", name, err)
		}
		l.SetGlobal(name)
	}

	if err := lua.LoadString(l, e.source); err != nil {
		return nil, fmt.Errorf("compile formula: %w", err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run formula: %w", err)
	}

	if l.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("formula must return a table of outputs, got %s", lua.TypeNameOf(l, -1))
	}

	result := make(map[string]float64)
	l.PushNil()
	for l.Next(-2) {
		if l.TypeOf(-2) != lua.TypeString {
			l.Pop(2)
			return nil, fmt.Errorf("formula returned a non-string output key")
		}
		key, _ := l.ToString(-2)
		num, ok := l.ToNumber(-1)
		if !ok || math.IsNaN(num) {
			l.Pop(2)
			return nil, fmt.Errorf("output %q is not a number", key)
		}
		result[key] = num
		l.Pop(1)
	}
	l.Pop(1)

	if missing := e.missingOutputs(result); len(missing) > 0 {
		return nil, fmt.Errorf("formula result is missing declared outputs: %s", strings.Join(missing, ", "))
	}
	return result, nil
}

func (e *Evaluator) missingOutputs(result map[string]float64) []string {
	var missing []string
	for _, key := range e.outputs {
		if _, ok := result[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// pushBinding pushes a parameter value onto the Lua stack. Value shapes come
// from YAML defaults and validated caller maps.
func pushBinding(l *lua.State, value any) error {
	switch v := value.(type) {
	case float64:
		l.PushNumber(v)
	case float32:
		l.PushNumber(float64(v))
	case int:
		l.PushNumber(float64(v))
	case int64:
		l.PushNumber(float64(v))
	case uint64:
		l.PushNumber(float64(v))
	case bool:
		l.PushBoolean(v)
	case string:
		l.PushString(v)
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
	return nil
}

// registerMathBindings installs the whitelisted math functions as globals.
// random is the injected uniform [0,1) draw; everything else is a thin
// wrapper over the math package.
func registerMathBindings(l *lua.State, rng *rand.Rand) {
	l.Register("random", func(l *lua.State) int {
		l.PushNumber(rng.Float64())
		return 1
	})
	registerUnary(l, "sqrt", math.Sqrt)
	registerUnary(l, "log", math.Log)
	registerUnary(l, "exp", math.Exp)
	registerUnary(l, "abs", math.Abs)
	registerUnary(l, "floor", math.Floor)
	registerUnary(l, "ceil", math.Ceil)
	registerUnary(l, "round", math.Round)
	l.Register("pow", func(l *lua.State) int {
		x := lua.CheckNumber(l, 1)
		y := lua.CheckNumber(l, 2)
		l.PushNumber(math.Pow(x, y))
		return 1
	})
	l.Register("min", variadicFold(math.Min))
	l.Register("max", variadicFold(math.Max))
}

func registerUnary(l *lua.State, name string, f func(float64) float64) {
	l.Register(name, func(l *lua.State) int {
		l.PushNumber(f(lua.CheckNumber(l, 1)))
		return 1
	})
}

func variadicFold(f func(a, b float64) float64) lua.Function {
	return func(l *lua.State) int {
		n := l.Top()
		if n == 0 {
			lua.Errorf(l, "expected at least one argument")
			return 0
		}
		acc := lua.CheckNumber(l, 1)
		for i := 2; i <= n; i++ {
			acc = f(acc, lua.CheckNumber(l, i))
		}
		l.PushNumber(acc)
		return 1
	}
}
