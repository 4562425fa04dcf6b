package dsl

// Lazy wraps a schema thunk for self-referential and mutually recursive
// definitions. The thunk runs once, on first dereference, and the resolved
// node is memoized for the lifetime of the schema graph; recursion depth at
// validation time is bounded only by the shape of the input data.
//
//	var node *ObjectBuilder
//	node = Object().
//		Field("value", Number()).
//		OptionalField("children", Array(Lazy(func() Builder { return node })))
func Lazy(fn func() Builder) *Schema {
	s := newSchema(kindLazy)
	s.lazy = &lazyCell{fn: fn}
	return s
}
