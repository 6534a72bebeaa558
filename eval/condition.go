package eval

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

var ErrCondition = errors.New("condition error")

// Resolver resolves paths against the context node of a condition.
type Resolver interface {
	// Values returns the values of the terminal nodes matched by path.
	// Non-terminal matches contribute an empty string.
	Values(path string) ([]string, error)
	Current() string
}

type Condition struct {
	Source string
	prg    *vm.Program
}

func protoEnv() map[string]any {
	return map[string]any{
		"value":   func(string) string { return "" },
		"values":  func(string) []string { return nil },
		"exists":  func(string) bool { return false },
		"count":   func(string) int { return 0 },
		"current": func() string { return "" },
	}
}

// Compile compiles src into a Condition.
func Compile(src string) (*Condition, error) {
	prg, err := expr.Compile(src, expr.Env(protoEnv()), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %q: %w", ErrCondition, src, err)
	}
	return &Condition{Source: src, prg: prg}, nil
}

func MustCompile(src string) *Condition {
	c, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Condition) String() string {
	return c.Source
}

// Eval evaluates the condition with paths resolved by r.
func (c *Condition) Eval(r Resolver) (bool, error) {
	var ferr error
	values := func(p string) []string {
		vs, err := r.Values(p)
		if err != nil && ferr == nil {
			ferr = err
		}
		return vs
	}
	env := map[string]any{
		"value": func(p string) string {
			vs := values(p)
			if len(vs) == 0 {
				return ""
			}
			return vs[0]
		},
		"values":  values,
		"exists":  func(p string) bool { return len(values(p)) != 0 },
		"count":   func(p string) int { return len(values(p)) },
		"current": r.Current,
	}
	res, err := expr.Run(c.prg, env)
	if ferr != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCondition, c.Source, ferr)
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCondition, c.Source, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s returned %T", ErrCondition, c.Source, res)
	}
	return b, nil
}
