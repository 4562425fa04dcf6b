package dsl_test

import (
	"testing"

	shape "github.com/shapeform/shape"
	g "github.com/shapeform/shape/dsl"
)

// TestObject_CollectsAllFieldErrors: sibling failures are collected, one
// error per field, each at its own root-relative path.
func TestObject_CollectsAllFieldErrors(t *testing.T) {
	v := g.Object().
		Field("name", g.String().MinLength(1)).
		Field("age", g.Number().Min(0)).
		MustCompile()

	_, err := v.Parse(map[string]any{"name": "", "age": -1})
	se, ok := shape.AsError(err)
	if !ok || !se.IsAggregate() {
		t.Fatalf("want aggregate, got: %v", err)
	}
	leaves := se.Flatten()
	if len(leaves) != 2 {
		t.Fatalf("want 2 leaves got=%d", len(leaves))
	}
	if p := leaves[0].Path.Pointer(); p != "/name" {
		t.Fatalf("first leaf path want /name got=%s", p)
	}
	if p := leaves[1].Path.Pointer(); p != "/age" {
		t.Fatalf("second leaf path want /age got=%s", p)
	}
}

// TestObject_SingleChildError: one failing field surfaces directly, not
// wrapped in an aggregate, so the leaf path stays inspectable.
func TestObject_SingleChildError(t *testing.T) {
	v := g.Object().
		Field("name", g.String().MinLength(1)).
		Field("age", g.Number().Min(0)).
		MustCompile()

	_, err := v.Parse(map[string]any{"name": "ok", "age": -1})
	se, _ := shape.AsError(err)
	if se == nil || se.IsAggregate() {
		t.Fatalf("want single child error, got: %v", err)
	}
	if se.Code != shape.CodeConstraint || se.Path.Pointer() != "/age" {
		t.Fatalf("want constraint_violation at /age, got %s at %s", se.Code, se.Path.Pointer())
	}
}

func TestObject_MissingKey(t *testing.T) {
	v := g.Object().Field("id", g.String()).MustCompile()
	_, err := v.Parse(map[string]any{})
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeMissingKey {
		t.Fatalf("want missing_key, got: %v", err)
	}
	if se.Path.Pointer() != "/id" {
		t.Fatalf("want path /id got=%s", se.Path.Pointer())
	}
}

// TestObject_KeyOptionalVsValueOptional: a key declared via OptionalField
// may be omitted; a required key whose child is Optional must still be
// present, possibly carrying the absent marker.
func TestObject_KeyOptionalVsValueOptional(t *testing.T) {
	keyOpt := g.Object().
		OptionalField("nick", g.String()).
		MustCompile()
	out, err := keyOpt.Parse(map[string]any{})
	if err != nil {
		t.Fatalf("omitted optional key: %v", err)
	}
	if _, exists := out.(map[string]any)["nick"]; exists {
		t.Fatalf("omitted key must not appear in output")
	}

	valOpt := g.Object().
		Field("nick", g.String().Schema().Optional()).
		MustCompile()
	if _, err := valOpt.Parse(map[string]any{}); err == nil {
		t.Fatalf("required key with optional value must still be present")
	}
	out2, err := valOpt.Parse(map[string]any{"nick": shape.Absent})
	if err != nil {
		t.Fatalf("absent value under required key: %v", err)
	}
	if got := out2.(map[string]any)["nick"]; !shape.IsAbsent(got) {
		t.Fatalf("want absent marker in output got=%v", got)
	}
}

// TestObject_UnknownPolicies covers strict (default), strip and passthrough.
func TestObject_UnknownPolicies(t *testing.T) {
	in := map[string]any{"id": "x", "extra": 1, "another": 2}

	strict := g.Object().Field("id", g.String()).MustCompile()
	_, err := strict.Parse(in)
	se, _ := shape.AsError(err)
	if se == nil {
		t.Fatalf("strict: want unexpected_key errors")
	}
	leaves := se.Flatten()
	if len(leaves) != 2 || leaves[0].Code != shape.CodeUnexpectedKey {
		t.Fatalf("strict: want 2 unexpected_key got=%v", leaves)
	}
	// deterministic: unknown keys reported in sorted order
	if leaves[0].Path.Pointer() != "/another" || leaves[1].Path.Pointer() != "/extra" {
		t.Fatalf("unexpected key order: %s, %s", leaves[0].Path.Pointer(), leaves[1].Path.Pointer())
	}

	strip := g.Object().Field("id", g.String()).Strip().MustCompile()
	out, err := strip.Parse(in)
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if m := out.(map[string]any); len(m) != 1 || m["id"] != "x" {
		t.Fatalf("strip: want only id, got=%v", m)
	}

	pass := g.Object().Field("id", g.String()).Passthrough().MustCompile()
	out, err = pass.Parse(in)
	if err != nil {
		t.Fatalf("passthrough: %v", err)
	}
	if m := out.(map[string]any); len(m) != 3 || m["extra"] != 1 {
		t.Fatalf("passthrough: want all keys, got=%v", m)
	}
}

// TestInterface_Defaults: Interface() fields are key-optional and unknown
// keys pass through, the opposite of Object().
func TestInterface_Defaults(t *testing.T) {
	v := g.Interface().
		Field("name", g.String()).
		MustCompile()

	out, err := v.Parse(map[string]any{"other": true})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if m := out.(map[string]any); m["other"] != true {
		t.Fatalf("want passthrough of other, got=%v", m)
	}

	// RequiredField opts a single key back into presence checking
	v2 := g.Interface().
		RequiredField("name", g.String()).
		MustCompile()
	if _, err := v2.Parse(map[string]any{}); err == nil {
		t.Fatalf("required field on interface should be enforced")
	}
}

func TestObject_FieldDefault(t *testing.T) {
	v := g.Object().
		OptionalField("role", g.String().Schema().Default("user")).
		MustCompile()
	out, err := v.Parse(map[string]any{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got := out.(map[string]any)["role"]; got != "user" {
		t.Fatalf("want default user got=%v", got)
	}
}

func TestObject_NonObjectInput(t *testing.T) {
	v := g.Object().Field("id", g.String()).MustCompile()
	_, err := v.Parse([]any{1})
	se, _ := shape.AsError(err)
	if se == nil || se.Code != shape.CodeTypeMismatch {
		t.Fatalf("want type_mismatch for non-object, got: %v", err)
	}
}

// TestObject_Nested verifies paths for errors below one level of nesting.
func TestObject_Nested(t *testing.T) {
	v := g.Object().
		Field("profile", g.Object().
			Field("email", g.String().Email())).
		MustCompile()

	_, err := v.Parse(map[string]any{
		"profile": map[string]any{"email": "not-an-email"},
	})
	se, _ := shape.AsError(err)
	if se == nil {
		t.Fatalf("want nested error")
	}
	if p := se.Flatten()[0].Path.Pointer(); p != "/profile/email" {
		t.Fatalf("want /profile/email got=%s", p)
	}
}
