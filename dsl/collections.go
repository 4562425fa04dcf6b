package dsl

import (
	"fmt"
	"reflect"
)

// RecordSchema validates string-keyed objects with homogeneous values.
type RecordSchema struct{ *schemaNode }

// Record returns a record schema: every key of the input object is checked
// against the key schema, every value against the value schema.
func Record(key, val Builder) *RecordSchema {
	s := newSchema(kindRecord)
	s.key = key.Schema()
	s.val = val.Schema()
	return &RecordSchema{s}
}

func (r *RecordSchema) with(name string, rule func(m map[string]any) *violation) *RecordSchema {
	return &RecordSchema{r.withRule(name, func(v any) *violation { return rule(v.(map[string]any)) })}
}

// MinSize requires at least n entries.
func (r *RecordSchema) MinSize(n int) *RecordSchema {
	return r.with("min_size", func(m map[string]any) *violation { return sizeMin(len(m), n) })
}

// MaxSize requires at most n entries.
func (r *RecordSchema) MaxSize(n int) *RecordSchema {
	return r.with("max_size", func(m map[string]any) *violation { return sizeMax(len(m), n) })
}

// HasKey requires the given key to be present.
func (r *RecordSchema) HasKey(k string) *RecordSchema {
	return r.with("has_key", func(m map[string]any) *violation {
		if _, ok := m[k]; !ok {
			return &violation{msg: fmt.Sprintf("missing key %q", k), params: map[string]any{"key": k}}
		}
		return nil
	})
}

// MapSchema validates maps with arbitrary key and value schemas.
type MapSchema struct{ *schemaNode }

// MapOf returns a map schema. Any Go map is accepted; the output is a
// freshly built map[any]any with validated (possibly transformed) keys and
// values.
func MapOf(key, val Builder) *MapSchema {
	s := newSchema(kindMap)
	s.key = key.Schema()
	s.val = val.Schema()
	return &MapSchema{s}
}

func (m *MapSchema) with(name string, rule func(mv map[any]any) *violation) *MapSchema {
	return &MapSchema{m.withRule(name, func(v any) *violation { return rule(v.(map[any]any)) })}
}

// MinSize requires at least n entries.
func (m *MapSchema) MinSize(n int) *MapSchema {
	return m.with("min_size", func(mv map[any]any) *violation { return sizeMin(len(mv), n) })
}

// MaxSize requires at most n entries.
func (m *MapSchema) MaxSize(n int) *MapSchema {
	return m.with("max_size", func(mv map[any]any) *violation { return sizeMax(len(mv), n) })
}

// HasKey requires the given key to be present.
func (m *MapSchema) HasKey(k any) *MapSchema {
	return m.with("has_key", func(mv map[any]any) *violation {
		if _, ok := mv[k]; !ok {
			return &violation{msg: fmt.Sprintf("missing key %v", k), params: map[string]any{"key": k}}
		}
		return nil
	})
}

// HasValue requires some entry to hold a value deep-equal to v.
func (m *MapSchema) HasValue(v any) *MapSchema {
	return m.with("has_value", func(mv map[any]any) *violation {
		for _, got := range mv {
			if reflect.DeepEqual(got, v) {
				return nil
			}
		}
		return &violation{msg: fmt.Sprintf("missing value %v", v)}
	})
}

// SetSchema validates sets modeled as map[T]struct{}.
type SetSchema struct{ *schemaNode }

// SetOf returns a set schema. Inputs are Go maps with struct{} (or bool)
// values; the members are the keys. The output is map[any]struct{}.
func SetOf(elem Builder) *SetSchema {
	s := newSchema(kindSet)
	s.elem = elem.Schema()
	return &SetSchema{s}
}

func (s *SetSchema) with(name string, rule func(set map[any]struct{}) *violation) *SetSchema {
	return &SetSchema{s.withRule(name, func(v any) *violation { return rule(v.(map[any]struct{})) })}
}

// MinSize requires at least n members.
func (s *SetSchema) MinSize(n int) *SetSchema {
	return s.with("min_size", func(set map[any]struct{}) *violation { return sizeMin(len(set), n) })
}

// MaxSize requires at most n members.
func (s *SetSchema) MaxSize(n int) *SetSchema {
	return s.with("max_size", func(set map[any]struct{}) *violation { return sizeMax(len(set), n) })
}

// Has requires the given member.
func (s *SetSchema) Has(member any) *SetSchema {
	return s.with("has", func(set map[any]struct{}) *violation {
		if _, ok := set[member]; !ok {
			return &violation{msg: fmt.Sprintf("missing member %v", member), params: map[string]any{"member": member}}
		}
		return nil
	})
}

// Superset requires every listed member to be present.
func (s *SetSchema) Superset(members ...any) *SetSchema {
	return s.with("superset", func(set map[any]struct{}) *violation {
		for _, m := range members {
			if _, ok := set[m]; !ok {
				return &violation{msg: fmt.Sprintf("not a superset: missing %v", m), params: map[string]any{"member": m}}
			}
		}
		return nil
	})
}

// Subset requires every member of the set to be among the listed ones.
func (s *SetSchema) Subset(members ...any) *SetSchema {
	allowed := make(map[any]struct{}, len(members))
	for _, m := range members {
		allowed[m] = struct{}{}
	}
	return s.with("subset", func(set map[any]struct{}) *violation {
		for m := range set {
			if _, ok := allowed[m]; !ok {
				return &violation{msg: fmt.Sprintf("not a subset: unexpected %v", m), params: map[string]any{"member": m}}
			}
		}
		return nil
	})
}

func sizeMin(got, min int) *violation {
	if got < min {
		return &violation{msg: fmt.Sprintf("too small: size %d < min %d", got, min), params: map[string]any{"min": min, "got": got}}
	}
	return nil
}

func sizeMax(got, max int) *violation {
	if got > max {
		return &violation{msg: fmt.Sprintf("too big: size %d > max %d", got, max), params: map[string]any{"max": max, "got": got}}
	}
	return nil
}
