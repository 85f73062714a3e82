package lox

import (
	"sort"
	"testing"
)

func TestEnvChain(t *testing.T) {
	global := newEnv(nil)
	global.Define("a", NewNumber(1))
	middle := newEnv(global)
	middle.Define("b", NewNumber(2))
	inner := newEnv(middle)
	inner.Define("a", NewNumber(3))

	if v, ok := inner.Get("a"); !ok || v.Number() != 3 {
		t.Fatalf("expected shadowed a=3, got %v", v)
	}
	if v, ok := inner.GetAt(2, "a"); !ok || v.Number() != 1 {
		t.Fatalf("expected global a=1 at distance 2, got %v", v)
	}
	if _, ok := inner.GetAt(1, "a"); ok {
		t.Fatalf("GetAt must not search past the target frame")
	}
	if _, ok := inner.GetAt(5, "a"); ok {
		t.Fatalf("expected miss beyond the chain")
	}

	if !inner.AssignAt(1, "b", NewNumber(20)) {
		t.Fatalf("AssignAt failed")
	}
	if v, _ := middle.Get("b"); v.Number() != 20 {
		t.Fatalf("expected b=20, got %v", v)
	}

	if !inner.Assign("b", NewNumber(21)) {
		t.Fatalf("Assign should find b in an outer frame")
	}
	if inner.Assign("missing", NewNil()) {
		t.Fatalf("Assign must not create bindings")
	}

	names := global.Names()
	sort.Strings(names)
	if len(names) != 1 || names[0] != "a" {
		t.Fatalf("expected only this frame's names, got %v", names)
	}
}
