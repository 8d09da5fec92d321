package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/spf13/cast"
)

// EventTimeLayout is the layout of start_time, stop_time and similar fields.
const EventTimeLayout = "2006-01-02 15:04:05"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache[CompiledFilter](size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements CachingCompiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache[CompiledFilter]
}

// Compile compiles an expression into an executable filter. Record fields
// are unknown at compile time, so undefined variables are allowed and
// evaluate to nil.
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	env := make(map[string]any, len(c.helperFuncs)+2)
	maps.Copy(env, c.helperFuncs)
	env["record"] = map[string]any{}
	env["has"] = func(string) bool { return false }

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Match evaluates the filter against a record. Record fields are exposed as
// variables and through the record map; helpers take precedence on a name clash.
func (f *exprFilter) Match(record Record) (bool, error) {
	env := make(map[string]any, len(record)+len(f.helpers)+2)
	maps.Copy(env, record)
	maps.Copy(env, f.helpers)
	env["record"] = map[string]any(record)
	env["has"] = func(field string) bool {
		v, ok := record[field]
		return ok && cast.ToString(v) != ""
	}

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			RecordID:   cast.ToString(record["id"]),
			Reason:     "failed to run expression",
			Err:        err,
		}
	}

	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the helper functions available to every expression
func createHelperFunctions() map[string]any {
	return map[string]any{
		// case-insensitive substring match
		"like": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"num": func(v any) float64 {
			return cast.ToFloat64(v)
		},
		"eventTime": func(s string) time.Time {
			t, _ := time.ParseInLocation(EventTimeLayout, s, time.Local)
			return t
		},
		"daysAgo": func(days int) time.Time {
			return time.Now().AddDate(0, 0, -days)
		},
		"daysAhead": func(days int) time.Time {
			return time.Now().AddDate(0, 0, days)
		},
	}
}
