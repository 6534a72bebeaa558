package ir

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestQName(t *testing.T) {
	leaf := FromString("", "name", "x")
	other := FromString("aug", "extra", "y")
	root := NewObject("mod", "top", leaf, other)
	if got := root.QName(); got != "mod:top" {
		t.Errorf("root qname %q", got)
	}
	if got := leaf.QName(); got != "name" {
		t.Errorf("leaf qname %q", got)
	}
	if got := other.QName(); got != "aug:extra" {
		t.Errorf("other qname %q", got)
	}
	if got := leaf.EffectiveModule(); got != "mod" {
		t.Errorf("effective module %q", got)
	}
	if got := other.Path(); got != "/mod:top/aug:extra" {
		t.Errorf("path %q", got)
	}
}

func TestClone(t *testing.T) {
	root := NewObject("mod", "top",
		FromString("", "a", "1").WithArray(true),
		FromString("", "a", "2").WithArray(true).WithAttr(Attr{Module: "yang", Name: "operation", Value: "create"}),
	)
	c := root.Clone()
	if diff := cmp.Diff(root, c, cmpopts.IgnoreFields(Node{}, "Parent")); diff != "" {
		t.Errorf("clone differs (-want +got):\n%s", diff)
	}
	for _, ch := range c.Children {
		if ch.Parent != c {
			t.Errorf("clone child parent not reset")
		}
	}
	if leaf := root.Children[0].Clone(); leaf.Children != nil || leaf.Parent != root {
		t.Errorf("leaf clone: children %v parent %v", leaf.Children, leaf.Parent)
	}
	c.Children[1].Attrs[0].Value = "delete"
	if root.Children[1].Attrs[0].Value != "create" {
		t.Errorf("clone shares attrs")
	}
}
