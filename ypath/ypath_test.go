package ypath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Path
		wantErr bool
	}{
		{
			name:  "single qualified step",
			input: "/mod:leaf",
			want: &Path{Absolute: true, Steps: []*Step{
				{Module: "mod", Name: "leaf"},
			}},
		},
		{
			name:  "list keys",
			input: "/mod:list[k1='a'][k2=\"b c\"]/v",
			want: &Path{Absolute: true, Steps: []*Step{
				{Module: "mod", Name: "list", Predicates: []Predicate{
					{Kind: KeyPredicate, Name: "k1", Value: "a"},
					{Kind: KeyPredicate, Name: "k2", Value: "b c"},
				}},
				{Name: "v"},
			}},
		},
		{
			name:  "leaf-list value",
			input: "/mod:ll[. = 'x']",
			want: &Path{Absolute: true, Steps: []*Step{
				{Module: "mod", Name: "ll", Predicates: []Predicate{
					{Kind: ValuePredicate, Value: "x"},
				}},
			}},
		},
		{
			name:  "position and wildcard",
			input: "/*/mod:*[2]",
			want: &Path{Absolute: true, Steps: []*Step{
				{Name: "*"},
				{Module: "mod", Name: "*", Predicates: []Predicate{{Kind: PosPredicate, Pos: 2}}},
			}},
		},
		{
			name:  "descendant",
			input: "//mod:c//l",
			want: &Path{Absolute: true, Steps: []*Step{
				{Axis: DescendantAxis, Module: "mod", Name: "c"},
				{Axis: DescendantAxis, Name: "l"},
			}},
		},
		{
			name:  "relative",
			input: "../x/./y",
			want: &Path{Steps: []*Step{
				{Name: ".."}, {Name: "x"}, {Name: "."}, {Name: "y"},
			}},
		},
		{
			name:  "bracket inside quoted value",
			input: "/m:l[k='a]b']",
			want: &Path{Absolute: true, Steps: []*Step{
				{Module: "m", Name: "l", Predicates: []Predicate{{Kind: KeyPredicate, Name: "k", Value: "a]b"}}},
			}},
		},
		{name: "empty", input: "", wantErr: true},
		{name: "trailing slash", input: "/m:a/", wantErr: true},
		{name: "unterminated predicate", input: "/m:a[k='x'", wantErr: true},
		{name: "unterminated quote", input: "/m:a[k='x]", wantErr: true},
		{name: "unquoted value", input: "/m:a[k=x]", wantErr: true},
		{name: "bad identifier", input: "/m:1a", wantErr: true},
		{name: "zero position", input: "/m:a[0]", wantErr: true},
		{name: "nested predicate", input: "/m:a[b[c='1']='2']", wantErr: true},
		{name: "predicate on parent", input: "..[1]", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrSyntax) {
					t.Fatalf("expected ErrSyntax, got %v (%v)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestString(t *testing.T) {
	for _, in := range []string{
		"/mod:list[k1='a'][k2='b']/v",
		"/mod:ll[.='it''s']",
		"//mod:c/l[3]",
		"../x",
		"/*",
	} {
		p, err := Parse(in)
		if in == "/mod:ll[.='it''s']" {
			if err == nil {
				t.Errorf("expected error for %q", in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got := p.String(); got != in {
			t.Errorf("String() = %q, want %q", got, in)
		}
	}
	p := &Path{Absolute: true, Steps: []*Step{{Module: "m", Name: "l", Predicates: []Predicate{{Kind: ValuePredicate, Value: "it's"}}}}}
	if got := p.String(); got != `/m:l[.="it's"]` {
		t.Errorf("quoting: %q", got)
	}
}

func TestKeyPredicates(t *testing.T) {
	p := MustParse("/m:l[b='2'][a='1'][3]")
	keys, n := p.Steps[0].KeyPredicates()
	if n != 2 {
		t.Errorf("consumed %d", n)
	}
	if diff := cmp.Diff(map[string]string{"a": "1", "b": "2"}, keys); diff != "" {
		t.Error(diff)
	}
}
