package dsl_test

import (
	"testing"

	shape "github.com/shapeform/shape"
	g "github.com/shapeform/shape/dsl"
)

// TestLazy_RecursiveTree builds a self-referential category tree and checks
// arbitrary nesting depth plus error paths into the recursion.
func TestLazy_RecursiveTree(t *testing.T) {
	var node *g.ObjectBuilder
	node = g.Object().
		Field("name", g.String().NonEmpty()).
		OptionalField("children", g.Array(g.Lazy(func() g.Builder { return node })))

	v := node.MustCompile()

	in := map[string]any{
		"name": "root",
		"children": []any{
			map[string]any{"name": "a"},
			map[string]any{
				"name": "b",
				"children": []any{
					map[string]any{"name": "b1"},
				},
			},
		},
	}
	if _, err := v.Parse(in); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	bad := map[string]any{
		"name": "root",
		"children": []any{
			map[string]any{"name": ""},
		},
	}
	_, err := v.Parse(bad)
	se, _ := shape.AsError(err)
	if se == nil {
		t.Fatalf("want nested error")
	}
	if p := se.Flatten()[0].Path.Pointer(); p != "/children/0/name" {
		t.Fatalf("want /children/0/name got=%s", p)
	}
}

// TestLazy_ThunkRunsOnce: the thunk memoizes, repeated validations do not
// rebuild the subtree.
func TestLazy_ThunkRunsOnce(t *testing.T) {
	calls := 0
	inner := g.String()
	v := g.Object().
		Field("v", g.Lazy(func() g.Builder { calls++; return inner })).
		MustCompile()

	for i := 0; i < 3; i++ {
		if _, err := v.Parse(map[string]any{"v": "x"}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("thunk calls want=1 got=%d", calls)
	}
}
