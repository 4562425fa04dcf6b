package dsl

// Union returns a plain union: members are attempted in declaration order
// and the first success wins. When every member fails the error is
// CodeUnionNoMatch aggregating all member errors.
func Union(members ...Builder) *Schema {
	s := newSchema(kindUnion)
	s.members = make([]*Schema, len(members))
	for i, m := range members {
		s.members[i] = m.Schema()
	}
	return s
}

// Discriminated returns a discriminated union over tag. Each member must be
// an object schema whose tag property is a Literal; members are selected by
// an O(1) lookup on the input's tag value, never by trial. Duplicate or
// missing discriminant literals are rejected at compile time.
func Discriminated(tag string, members ...Builder) *Schema {
	s := newSchema(kindDiscriminated)
	s.disc = tag
	s.members = make([]*Schema, len(members))
	for i, m := range members {
		s.members[i] = m.Schema()
	}
	return s
}

// Pattern returns a schema whose member is chosen by inspecting the raw
// input: dispatch returns the schema to validate against, or nil plus a
// failure message. This covers structurally-driven polymorphism beyond a
// fixed discriminant key.
func Pattern(dispatch func(v any) (Builder, string)) *Schema {
	s := newSchema(kindPattern)
	s.dispatch = dispatch
	return s
}

// Intersection validates the input against every member and requires all to
// succeed. Object outputs are deep-merged; members disagreeing on the same
// key with non-equal values fail with CodeConflict.
func Intersection(members ...Builder) *Schema {
	s := newSchema(kindIntersection)
	s.members = make([]*Schema, len(members))
	for i, m := range members {
		s.members[i] = m.Schema()
	}
	return s
}
