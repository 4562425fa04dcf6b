package dsl

import (
	"context"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"

	shape "github.com/shapeform/shape"
	"github.com/shapeform/shape/i18n"
)

// Validator aliases the root contract so call sites can stay inside dsl.
type Validator = shape.Validator

// validator is the compiled form of a schema tree. It is immutable after
// Compile except for the dispatch bookkeeping of pattern-returned subtrees,
// which is guarded by mu.
type validator struct {
	root  *Schema
	async bool

	mu       sync.RWMutex
	disc     map[*Schema]map[any]*Schema
	prepared map[*Schema]bool
}

var _ shape.Validator = (*validator)(nil)

// Compile turns the schema into a reusable Validator. Malformed schemas
// (for example discriminated unions with duplicate tag literals) fail here,
// never at validation time.
func (s *Schema) Compile() (Validator, error) {
	vd := &validator{
		root:     s,
		disc:     map[*Schema]map[any]*Schema{},
		prepared: map[*Schema]bool{},
	}
	async, err := vd.prepare(s)
	if err != nil {
		return nil, err
	}
	vd.async = async
	return vd, nil
}

// MustCompile is Compile panicking on malformed schemas.
func (s *Schema) MustCompile() Validator {
	vd, err := s.Compile()
	if err != nil {
		panic(err)
	}
	return vd
}

// prepare walks the reachable graph once: it forces lazy thunks, builds
// discriminant dispatch tables, and reports whether any async modifier is
// reachable. Cycles terminate on the prepared set. Callers hold mu when
// preparing after Compile.
func (vd *validator) prepare(s *Schema) (bool, error) {
	if s == nil || vd.prepared[s] {
		return false, nil
	}
	vd.prepared[s] = true

	async := false
	for i := range s.steps {
		if s.steps[i].predCtx != nil || s.steps[i].fnCtx != nil {
			async = true
		}
	}

	var children []*Schema
	switch s.kind {
	case kindObject, kindInterface:
		for _, f := range s.fields {
			children = append(children, f.node)
		}
	case kindArray, kindSet:
		children = append(children, s.elem)
	case kindTuple:
		children = append(children, s.items...)
	case kindRecord, kindMap:
		children = append(children, s.key, s.val)
	case kindUnion, kindIntersection:
		children = append(children, s.members...)
	case kindDiscriminated:
		table := make(map[any]*Schema, len(s.members))
		for _, m := range s.members {
			lit, err := discriminantLiteral(m, s.disc)
			if err != nil {
				return false, err
			}
			k := litKey(lit)
			if _, dup := table[k]; dup {
				return false, shape.NewError(shape.CodeInvalidSchema, nil,
					fmt.Sprintf("duplicate discriminant value %v for tag %q", lit, s.disc))
			}
			table[k] = m
		}
		vd.disc[s] = table
		children = append(children, s.members...)
	case kindLazy:
		children = append(children, s.lazy.resolve())
	}

	for _, c := range children {
		a, err := vd.prepare(c)
		if err != nil {
			return false, err
		}
		async = async || a
	}
	return async, nil
}

// ensure prepares a subtree first seen at validation time (pattern dispatch
// results). Safe for concurrent calls.
func (vd *validator) ensure(s *Schema) *shape.Error {
	vd.mu.RLock()
	done := vd.prepared[s]
	vd.mu.RUnlock()
	if done {
		return nil
	}
	vd.mu.Lock()
	defer vd.mu.Unlock()
	if vd.prepared[s] {
		return nil
	}
	if _, err := vd.prepare(s); err != nil {
		if ve, ok := shape.AsError(err); ok {
			return ve
		}
		return shape.NewError(shape.CodeInvalidSchema, nil, err.Error())
	}
	return nil
}

func (vd *validator) discTable(s *Schema) map[any]*Schema {
	vd.mu.RLock()
	defer vd.mu.RUnlock()
	return vd.disc[s]
}

// discriminantLiteral digs the tag literal out of a union member, looking
// through lazy indirections.
func discriminantLiteral(m *Schema, tag string) (any, error) {
	for m.kind == kindLazy {
		m = m.lazy.resolve()
	}
	if m.kind != kindObject && m.kind != kindInterface {
		return nil, shape.NewError(shape.CodeInvalidSchema, nil,
			fmt.Sprintf("discriminated union member must be an object, got %s", m.kind))
	}
	for _, f := range m.fields {
		if f.name != tag {
			continue
		}
		n := f.node
		for n.kind == kindLazy {
			n = n.lazy.resolve()
		}
		if n.kind != kindLiteral {
			return nil, shape.NewError(shape.CodeInvalidSchema, nil,
				fmt.Sprintf("discriminant %q must be a literal, got %s", tag, n.kind))
		}
		return n.lit, nil
	}
	return nil, shape.NewError(shape.CodeInvalidSchema, nil,
		fmt.Sprintf("discriminated union member lacks discriminant %q", tag))
}

// litKey normalizes scalars so numeric literals match across numeric
// representations (int literal vs json.Number input).
func litKey(v any) any {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case float32:
		return float64(t)
	case float64:
		return t
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}

// ---- entry points ----

func (vd *validator) Parse(v any) (any, error) {
	if vd.async {
		return nil, shape.NewError(shape.CodeAsyncRequired, nil, i18n.T(shape.CodeAsyncRequired, nil))
	}
	e := &exec{vd: vd}
	out, err := e.walk(vd.root, v, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (vd *validator) MustParse(v any) any {
	out, err := vd.Parse(v)
	if err != nil {
		panic(err)
	}
	return out
}

func (vd *validator) SafeParse(v any) shape.Result {
	out, err := vd.Parse(v)
	if err != nil {
		ve, _ := shape.AsError(err)
		return shape.FailResult(ve)
	}
	return shape.OKResult(out)
}

func (vd *validator) ParseAsync(ctx context.Context, v any) shape.Result {
	e := &exec{vd: vd, ctx: ctx, allowAsync: true, failFast: shape.IsFailFast(ctx)}
	out, err := e.walk(vd.root, v, nil)
	if err != nil {
		return shape.FailResult(err)
	}
	return shape.OKResult(out)
}
