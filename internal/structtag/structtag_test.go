package structtag

import (
	"reflect"
	"testing"
)

func field(t *testing.T, typ any, name string) reflect.StructField {
	t.Helper()
	sf, ok := reflect.TypeOf(typ).FieldByName(name)
	if !ok {
		t.Fatalf("no field %s", name)
	}
	return sf
}

func TestKey(t *testing.T) {
	type s struct {
		Plain    string
		JSON     string `json:"renamed"`
		JSONOpts string `json:"ro,omitempty"`
		Override string `json:"jn" shape:"name=sn"`
		Skipped  string `json:"-"`
	}
	cases := []struct{ field, want string }{
		{"Plain", "Plain"},
		{"JSON", "renamed"},
		{"JSONOpts", "ro"},
		{"Override", "sn"},
		{"Skipped", "-"},
	}
	for _, c := range cases {
		if got := Key(field(t, s{}, c.field)); got != c.want {
			t.Fatalf("%s: want %q got %q", c.field, c.want, got)
		}
	}
}

func TestOptional(t *testing.T) {
	type s struct {
		Required string `json:"a"`
		OmitJSON string `json:"b,omitempty"`
		OptTag   string `json:"c" shape:"optional"`
	}
	if Optional(field(t, s{}, "Required")) {
		t.Fatalf("Required must not be optional")
	}
	if !Optional(field(t, s{}, "OmitJSON")) {
		t.Fatalf("omitempty must be optional")
	}
	if !Optional(field(t, s{}, "OptTag")) {
		t.Fatalf("shape optional tag must be optional")
	}
}
