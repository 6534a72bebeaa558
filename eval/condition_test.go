package eval

import (
	"errors"
	"testing"
)

type mapResolver struct {
	current string
	values  map[string][]string
}

func (m mapResolver) Values(p string) ([]string, error) {
	if p == "bad" {
		return nil, errors.New("bad path")
	}
	return m.values[p], nil
}

func (m mapResolver) Current() string { return m.current }

func TestCondition(t *testing.T) {
	r := mapResolver{
		current: "x",
		values: map[string][]string{
			"../type": {"ethernet"},
			"../mtu":  {"1500"},
			"../addr": {"a", "b"},
		},
	}
	tests := []struct {
		src  string
		want bool
	}{
		{`value("../type") == "ethernet"`, true},
		{`exists("../missing")`, false},
		{`count("../addr") == 2`, true},
		{`int(value("../mtu")) >= 1280`, true},
		{`current() == "x" && !exists("../none")`, true},
		{`"b" in values("../addr")`, true},
	}
	for _, tt := range tests {
		c, err := Compile(tt.src)
		if err != nil {
			t.Fatalf("compile %q: %v", tt.src, err)
		}
		got, err := c.Eval(r)
		if err != nil {
			t.Fatalf("eval %q: %v", tt.src, err)
		}
		if got != tt.want {
			t.Errorf("%q = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestConditionErrors(t *testing.T) {
	if _, err := Compile(`value("x") +`); !errors.Is(err, ErrCondition) {
		t.Errorf("expected compile error, got %v", err)
	}
	if _, err := Compile(`value("x")`); !errors.Is(err, ErrCondition) {
		t.Errorf("expected non-bool compile error, got %v", err)
	}
	c := MustCompile(`exists("bad")`)
	if _, err := c.Eval(mapResolver{}); !errors.Is(err, ErrCondition) {
		t.Errorf("expected resolver error, got %v", err)
	}
}
