// Package structtag resolves the external key and presence options of struct
// fields for schema derivation.
package structtag

import (
	"reflect"
	"strings"
)

// Key applies the repository-wide rule for a struct field's external key.
// Priority: shape:"name=..." > json tag name > field name; "-" disables the
// field.
func Key(sf reflect.StructField) string {
	if st := sf.Tag.Get("shape"); st != "" {
		for _, p := range strings.Split(st, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

// Optional reports whether the field's key may be omitted from the input:
// shape:"optional" or a json ",omitempty" option.
func Optional(sf reflect.StructField) bool {
	if st := sf.Tag.Get("shape"); st != "" {
		for _, p := range strings.Split(st, ",") {
			if strings.TrimSpace(p) == "optional" {
				return true
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if i := strings.IndexByte(jt, ','); i >= 0 {
			for _, p := range strings.Split(jt[i+1:], ",") {
				if p == "omitempty" {
					return true
				}
			}
		}
	}
	return false
}
