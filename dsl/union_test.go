package dsl_test

import (
	"testing"

	shape "github.com/shapeform/shape"
	g "github.com/shapeform/shape/dsl"
)

// TestUnion_FirstMatchWins: members are tried in declaration order and the
// first success short-circuits.
func TestUnion_FirstMatchWins(t *testing.T) {
	v := g.Union(g.String(), g.Number()).MustCompile()

	if out, err := v.Parse("hi"); err != nil || out != "hi" {
		t.Fatalf("want hi got=%v err=%v", out, err)
	}
	if _, err := v.Parse(42); err != nil {
		t.Fatalf("number member should match: %v", err)
	}
}

// TestUnion_NoMatch reports union_no_match carrying every member's failure.
func TestUnion_NoMatch(t *testing.T) {
	v := g.Union(g.String(), g.Number()).MustCompile()
	_, err := v.Parse(true)
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeUnionNoMatch {
		t.Fatalf("want union_no_match, got: %v", err)
	}
	if len(se.Errs) != 2 {
		t.Fatalf("want 2 member errors got=%d", len(se.Errs))
	}
}

func variantSchemas() (card, bank *g.ObjectBuilder) {
	card = g.Object().
		Field("type", g.Literal("card")).
		Field("number", g.String().NonEmpty())
	bank = g.Object().
		Field("type", g.Literal("bank")).
		Field("iban", g.String().NonEmpty())
	return card, bank
}

// TestDiscriminated_DispatchIsolation: only the selected member runs, so a
// body invalid for the other member still passes, and a body invalid for the
// selected member reports that member's error only.
func TestDiscriminated_DispatchIsolation(t *testing.T) {
	card, bank := variantSchemas()
	v := g.Discriminated("type", card, bank).MustCompile()

	if _, err := v.Parse(map[string]any{"type": "card", "number": "4111"}); err != nil {
		t.Fatalf("card variant: %v", err)
	}
	if _, err := v.Parse(map[string]any{"type": "bank", "iban": "DE89"}); err != nil {
		t.Fatalf("bank variant: %v", err)
	}

	_, err := v.Parse(map[string]any{"type": "card", "number": ""})
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeConstraint {
		t.Fatalf("want card member error only, got: %v", err)
	}
	if p := se.Path.Pointer(); p != "/number" {
		t.Fatalf("want /number got=%s", p)
	}
}

func TestDiscriminated_TagErrors(t *testing.T) {
	card, bank := variantSchemas()
	v := g.Discriminated("type", card, bank).MustCompile()

	_, err := v.Parse(map[string]any{"number": "4111"})
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeDiscriminatorMissing {
		t.Fatalf("want discriminator_missing, got: %v", err)
	}
	if se.Path.Pointer() != "/type" {
		t.Fatalf("want path /type got=%s", se.Path.Pointer())
	}

	_, err = v.Parse(map[string]any{"type": "wire"})
	se, _ = shape.AsError(err)
	if se == nil || se.Code != shape.CodeDiscriminatorUnmatched {
		t.Fatalf("want discriminator_unmatched, got: %v", err)
	}
}

// TestDiscriminated_DuplicateTag is a schema construction error surfaced at
// compile time, not at validation time.
func TestDiscriminated_DuplicateTag(t *testing.T) {
	card, _ := variantSchemas()
	card2, _ := variantSchemas()
	if _, err := g.Discriminated("type", card, card2).Compile(); err == nil {
		t.Fatalf("expected invalid_schema for duplicate discriminant")
	}
}

// TestIntersection_MergesObjects: all members validate the same input and
// their outputs deep-merge.
func TestIntersection_MergesObjects(t *testing.T) {
	a := g.Object().Field("id", g.String()).Passthrough()
	b := g.Object().Field("age", g.Number()).Passthrough()
	v := g.Intersection(a, b).MustCompile()

	out, err := v.Parse(map[string]any{"id": "x", "age": 3})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	m := out.(map[string]any)
	if m["id"] != "x" || m["age"] != 3 {
		t.Fatalf("want merged output, got=%v", m)
	}
}

// TestIntersection_Conflict: members producing unequal values for the same
// key is a conflict error at that key's path.
func TestIntersection_Conflict(t *testing.T) {
	a := g.Object().Field("v", g.Number().Schema().Transform(func(any) (any, error) { return 1, nil })).Passthrough()
	b := g.Object().Field("v", g.Number().Schema().Transform(func(any) (any, error) { return 2, nil })).Passthrough()
	v := g.Intersection(a, b).MustCompile()

	_, err := v.Parse(map[string]any{"v": 0})
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeConflict {
		t.Fatalf("want conflict, got: %v", err)
	}
	if se.Path.Pointer() != "/v" {
		t.Fatalf("want /v got=%s", se.Path.Pointer())
	}
}

func TestIntersection_MemberFailure(t *testing.T) {
	a := g.Object().Field("id", g.String()).Passthrough()
	b := g.Object().Field("age", g.Number()).Passthrough()
	v := g.Intersection(a, b).MustCompile()

	_, err := v.Parse(map[string]any{"id": "x"})
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeMissingKey {
		t.Fatalf("want missing_key from second member, got: %v", err)
	}
}

// TestPattern_RuntimeDispatch picks a schema per input value.
func TestPattern_RuntimeDispatch(t *testing.T) {
	str := g.String().MinLength(1)
	num := g.Number().Min(0)
	v := g.Pattern(func(val any) (g.Builder, string) {
		switch val.(type) {
		case string:
			return str, ""
		case int, float64:
			return num, ""
		}
		return nil, "expected string or number"
	}).MustCompile()

	if _, err := v.Parse("hi"); err != nil {
		t.Fatalf("string branch: %v", err)
	}
	if _, err := v.Parse(3); err != nil {
		t.Fatalf("number branch: %v", err)
	}

	_, err := v.Parse(true)
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeTypeMismatch {
		t.Fatalf("want type_mismatch from dispatch, got: %v", err)
	}
	if se.Message != "expected string or number" {
		t.Fatalf("dispatch message lost: %q", se.Message)
	}

	// the chosen branch's own failure comes through untouched
	if _, err := v.Parse(-1); err == nil {
		t.Fatalf("expected min violation via dispatched schema")
	}
}
