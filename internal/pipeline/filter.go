package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression evaluated against instance fields,
// e.g. `productType == "matchmove" && active`.
type Filter struct {
	expression string
	program    *exprvm.Program
}

// CompileFilter compiles expression. Fields missing from an instance
// evaluate as nil.
func CompileFilter(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, fmt.Errorf("filter expression must not be empty")
	}
	program, err := exprlang.Compile(expression,
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
		exprlang.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Filter{expression: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expression
}

// Match evaluates the filter against inst.
func (f *Filter) Match(inst Instance) (bool, error) {
	env, _ := plainNumbers(map[string]any(inst)).(map[string]any)
	out, err := exprlang.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.expression, err)
	}
	matched, _ := out.(bool)
	return matched, nil
}

// Apply returns the instances that match.
func (f *Filter) Apply(list []Instance) ([]Instance, error) {
	out := make([]Instance, 0, len(list))
	for _, inst := range list {
		ok, err := f.Match(inst)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, inst)
		}
	}
	return out, nil
}

// plainNumbers converts decoded json.Number values into int or float64 so
// expressions can compare them arithmetically.
func plainNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = plainNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plainNumbers(item)
		}
		return out
	}
	return v
}
