package dsl

import (
	"context"
	"sync"
)

// kind discriminates schema variants. Validation dispatches over it through
// checkTable; adding a variant means adding a constant and a table entry.
type kind int

const (
	kindString kind = iota
	kindNumber
	kindBool
	kindBigInt
	kindLiteral
	kindNull
	kindUndefined
	kindVoid
	kindAny
	kindUnknown
	kindNever
	kindObject
	kindInterface
	kindArray
	kindTuple
	kindRecord
	kindMap
	kindSet
	kindUnion
	kindDiscriminated
	kindIntersection
	kindPattern
	kindLazy
)

var kindNames = map[kind]string{
	kindString:        "string",
	kindNumber:        "number",
	kindBool:          "bool",
	kindBigInt:        "bigint",
	kindLiteral:       "literal",
	kindNull:          "null",
	kindUndefined:     "undefined",
	kindVoid:          "void",
	kindAny:           "any",
	kindUnknown:       "unknown",
	kindNever:         "never",
	kindObject:        "object",
	kindInterface:     "interface",
	kindArray:         "array",
	kindTuple:         "tuple",
	kindRecord:        "record",
	kindMap:           "map",
	kindSet:           "set",
	kindUnion:         "union",
	kindDiscriminated: "discriminatedUnion",
	kindIntersection:  "intersection",
	kindPattern:       "pattern",
	kindLazy:          "lazy",
}

func (k kind) String() string { return kindNames[k] }

// cardinality records which absent/null inputs a node short-circuits on.
type cardinality uint8

const (
	cardOptional cardinality = 1 << iota
	cardNullable
)

func (c cardinality) acceptsAbsent() bool { return c&cardOptional != 0 }
func (c cardinality) acceptsNull() bool   { return c&cardNullable != 0 }

type stepOp int

const (
	opConstraint stepOp = iota
	opRefine
	opTransform
)

// violation is a failed built-in constraint.
type violation struct {
	msg    string
	params map[string]any
}

// step is one applied modifier. Refinements and transforms carry either the
// sync or the ctx-taking (async) function, never both; the executor decides
// from which field is set, not by inspecting return values at call time.
type step struct {
	op   stepOp
	name string // constraint/rule name for hints

	rule func(v any) *violation

	pred    func(v any) bool
	predCtx func(ctx context.Context, v any) (bool, error)
	msg     func(v any) string

	fn    func(v any) (any, error)
	fnCtx func(ctx context.Context, v any) (any, error)
}

type field struct {
	name        string
	node        *Schema
	keyOptional bool // key may be absent from the container
}

type unknownPolicy int

const (
	unknownStrict unknownPolicy = iota
	unknownStrip
	unknownPassthrough
)

// lazyCell resolves a self-referential schema thunk once and memoizes the
// result for the lifetime of the schema graph.
type lazyCell struct {
	fn   func() Builder
	once sync.Once
	node *Schema
}

func (c *lazyCell) resolve() *Schema {
	c.once.Do(func() { c.node = c.fn().Schema() })
	return c.node
}

// Schema is an immutable description of how to validate and transform one
// value shape. Modifier methods return a new node; a schema already handed
// to Compile never changes underneath the validator.
type Schema struct {
	kind  kind
	card  cardinality
	def   func() any // default thunk, nil when no default is configured
	steps []step

	// variant payloads
	lit      any
	fields   []field
	unknown  unknownPolicy
	elem     *Schema
	items    []*Schema
	key, val *Schema
	members  []*Schema
	disc     string
	dispatch func(v any) (Builder, string)
	lazy     *lazyCell
}

// Builder is satisfied by every schema value in this package, including the
// kind-specific wrappers that add constraint methods.
type Builder interface{ Schema() *Schema }

func (s *Schema) Schema() *Schema { return s }

// schemaNode aliases Schema so wrapper types can embed *Schema without the
// embedded field name shadowing the promoted Schema method.
type schemaNode = Schema

func newSchema(k kind) *Schema { return &Schema{kind: k} }

func (s *Schema) clone() *Schema {
	c := *s
	c.steps = append([]step(nil), s.steps...)
	return &c
}

func (s *Schema) withStep(st step) *Schema {
	c := s.clone()
	c.steps = append(c.steps, st)
	return c
}

func (s *Schema) withRule(name string, rule func(v any) *violation) *Schema {
	return s.withStep(step{op: opConstraint, name: name, rule: rule})
}

// Refine appends a synchronous predicate with a fixed failure message.
func (s *Schema) Refine(pred func(v any) bool, msg string) *Schema {
	return s.withStep(step{op: opRefine, pred: pred, msg: func(any) string { return msg }})
}

// RefineFn appends a synchronous predicate whose message is computed from
// the offending value only when the predicate fails.
func (s *Schema) RefineFn(pred func(v any) bool, msg func(v any) string) *Schema {
	return s.withStep(step{op: opRefine, pred: pred, msg: msg})
}

// RefineAsync appends a predicate that may perform I/O. Schemas carrying it
// must be run through ParseAsync; Parse rejects them with CodeAsyncRequired.
func (s *Schema) RefineAsync(pred func(ctx context.Context, v any) (bool, error), msg string) *Schema {
	return s.withStep(step{op: opRefine, predCtx: pred, msg: func(any) string { return msg }})
}

// Transform appends a value-mapping step. It runs only after every earlier
// check on this node succeeded; its output feeds all later modifiers and the
// final result.
func (s *Schema) Transform(fn func(v any) (any, error)) *Schema {
	return s.withStep(step{op: opTransform, fn: fn})
}

// TransformAsync appends a value-mapping step that may perform I/O.
func (s *Schema) TransformAsync(fn func(ctx context.Context, v any) (any, error)) *Schema {
	return s.withStep(step{op: opTransform, fnCtx: fn})
}

// Optional accepts the absent marker and returns it unchanged.
func (s *Schema) Optional() *Schema {
	c := s.clone()
	c.card |= cardOptional
	return c
}

// Nullable accepts null and returns it unchanged. It does not accept the
// absent marker.
func (s *Schema) Nullable() *Schema {
	c := s.clone()
	c.card |= cardNullable
	return c
}

// Nullish accepts both null and the absent marker.
func (s *Schema) Nullish() *Schema {
	c := s.clone()
	c.card |= cardOptional | cardNullable
	return c
}

// Default substitutes v when the input is absent. The substituted value
// re-enters the pipeline and is validated like any input.
func (s *Schema) Default(v any) *Schema {
	return s.DefaultFn(func() any { return v })
}

// DefaultFn is Default with a thunk, computed per validation.
func (s *Schema) DefaultFn(fn func() any) *Schema {
	c := s.clone()
	c.def = fn
	return c
}

func (s *Schema) hasDefault() bool { return s.def != nil }
