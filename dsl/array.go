package dsl

import "fmt"

// ArraySchema adds sequence constraints on top of the generic modifiers.
type ArraySchema struct{ *schemaNode }

// Array returns an array schema with the given element schema. The output is
// a freshly built []any carrying each element's (possibly transformed) value.
func Array(elem Builder) *ArraySchema {
	s := newSchema(kindArray)
	s.elem = elem.Schema()
	return &ArraySchema{s}
}

func (a *ArraySchema) with(name string, rule func(n int) *violation) *ArraySchema {
	return &ArraySchema{a.withRule(name, func(v any) *violation { return rule(len(v.([]any))) })}
}

// MinLength requires at least n elements.
func (a *ArraySchema) MinLength(n int) *ArraySchema {
	return a.with("min_length", func(got int) *violation {
		if got < n {
			return &violation{msg: fmt.Sprintf("too short: length %d < min %d", got, n), params: map[string]any{"min": n, "got": got}}
		}
		return nil
	})
}

// MaxLength requires at most n elements.
func (a *ArraySchema) MaxLength(n int) *ArraySchema {
	return a.with("max_length", func(got int) *violation {
		if got > n {
			return &violation{msg: fmt.Sprintf("too long: length %d > max %d", got, n), params: map[string]any{"max": n, "got": got}}
		}
		return nil
	})
}

// NonEmpty is MinLength(1).
func (a *ArraySchema) NonEmpty() *ArraySchema { return a.MinLength(1) }

// Tuple returns a fixed-length heterogeneous sequence schema. Input length
// must equal the number of element schemas exactly.
func Tuple(items ...Builder) *Schema {
	s := newSchema(kindTuple)
	s.items = make([]*Schema, len(items))
	for i, it := range items {
		s.items[i] = it.Schema()
	}
	return s
}
