package dsl

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"sort"

	json "github.com/goccy/go-json"

	shape "github.com/shapeform/shape"
	"github.com/shapeform/shape/i18n"
)

// exec carries the per-call state of one validation traversal. Validators
// and schema nodes are shared and immutable; everything call-scoped lives
// here.
type exec struct {
	vd         *validator
	ctx        context.Context
	allowAsync bool
	failFast   bool
}

type checkFn func(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error)

// checkTable maps each schema kind to its structural check. New kinds extend
// the table; nodes carry no validation methods of their own.
var checkTable map[kind]checkFn

func init() {
	checkTable = map[kind]checkFn{
		kindString:        checkString,
		kindNumber:        checkNumber,
		kindBool:          checkBool,
		kindBigInt:        checkBigInt,
		kindLiteral:       checkLiteral,
		kindNull:          checkNull,
		kindUndefined:     checkUndefined,
		kindVoid:          checkUndefined,
		kindAny:           checkAny,
		kindUnknown:       checkAny,
		kindNever:         checkNever,
		kindObject:        checkObject,
		kindInterface:     checkObject,
		kindArray:         checkArray,
		kindTuple:         checkTuple,
		kindRecord:        checkRecord,
		kindMap:           checkMap,
		kindSet:           checkSet,
		kindUnion:         checkUnion,
		kindDiscriminated: checkDiscriminated,
		kindIntersection:  checkIntersection,
		kindPattern:       checkPattern,
		kindLazy:          checkLazy,
	}
}

// walk validates v against s in fixed phase order: cardinality, structural
// check (recursing into containers), built-in constraints, then the
// refine/transform chain.
func (e *exec) walk(s *Schema, v any, p shape.Path) (any, *shape.Error) {
	if shape.IsAbsent(v) {
		if s.def != nil {
			// the substituted default re-enters the pipeline below
			v = s.def()
		} else if s.card.acceptsAbsent() {
			return v, nil
		}
	} else if v == nil && s.card.acceptsNull() {
		return nil, nil
	}
	out, err := checkTable[s.kind](e, s, v, p)
	if err != nil {
		return nil, err
	}
	return e.runSteps(s, out, p)
}

func (e *exec) runSteps(s *Schema, v any, p shape.Path) (any, *shape.Error) {
	// built-in constraints in declaration order, first failure wins
	for i := range s.steps {
		st := &s.steps[i]
		if st.op != opConstraint {
			continue
		}
		if viol := st.rule(v); viol != nil {
			return nil, &shape.Error{Code: shape.CodeConstraint, Path: p, Message: viol.msg, Hint: st.name, Params: viol.params}
		}
	}
	// refinements and transforms share declaration order; a transform's
	// output feeds every later modifier
	for i := range s.steps {
		st := &s.steps[i]
		switch st.op {
		case opRefine:
			if err := e.runRefine(st, v, p); err != nil {
				return nil, err
			}
		case opTransform:
			nv, err := e.runTransform(st, v, p)
			if err != nil {
				return nil, err
			}
			v = nv
		}
	}
	return v, nil
}

func (e *exec) runRefine(st *step, v any, p shape.Path) (err *shape.Error) {
	defer func() {
		if r := recover(); r != nil {
			err = shape.NewError(shape.CodeRefinement, p, fmt.Sprint(r))
		}
	}()
	if st.pred != nil {
		if !st.pred(v) {
			return shape.NewError(shape.CodeRefinement, p, st.msg(v))
		}
		return nil
	}
	if !e.allowAsync {
		return shape.NewError(shape.CodeAsyncRequired, p, i18n.T(shape.CodeAsyncRequired, nil))
	}
	ok, rerr := st.predCtx(e.ctx, v)
	if rerr != nil {
		return shape.NewError(shape.CodeRefinement, p, rerr.Error()).WithCause(rerr)
	}
	if !ok {
		return shape.NewError(shape.CodeRefinement, p, st.msg(v))
	}
	return nil
}

func (e *exec) runTransform(st *step, v any, p shape.Path) (out any, err *shape.Error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, shape.NewError(shape.CodeTransformFailure, p, fmt.Sprint(r))
		}
	}()
	if st.fn != nil {
		nv, terr := st.fn(v)
		if terr != nil {
			return nil, shape.NewError(shape.CodeTransformFailure, p, terr.Error()).WithCause(terr)
		}
		return nv, nil
	}
	if !e.allowAsync {
		return nil, shape.NewError(shape.CodeAsyncRequired, p, i18n.T(shape.CodeAsyncRequired, nil))
	}
	nv, terr := st.fnCtx(e.ctx, v)
	if terr != nil {
		return nil, shape.NewError(shape.CodeTransformFailure, p, terr.Error()).WithCause(terr)
	}
	return nv, nil
}

// ---- structural checks ----

func checkString(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return nil, typeErr(p, "string", v)
}

func checkNumber(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	if _, ok := numFloat(v); ok {
		return v, nil
	}
	return nil, typeErr(p, "number", v)
}

func checkBool(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return nil, typeErr(p, "bool", v)
}

func checkBigInt(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	switch t := v.(type) {
	case *big.Int:
		return t, nil
	case int:
		return big.NewInt(int64(t)), nil
	case int8:
		return big.NewInt(int64(t)), nil
	case int16:
		return big.NewInt(int64(t)), nil
	case int32:
		return big.NewInt(int64(t)), nil
	case int64:
		return big.NewInt(t), nil
	case uint:
		return new(big.Int).SetUint64(uint64(t)), nil
	case uint8:
		return big.NewInt(int64(t)), nil
	case uint16:
		return big.NewInt(int64(t)), nil
	case uint32:
		return big.NewInt(int64(t)), nil
	case uint64:
		return new(big.Int).SetUint64(t), nil
	case json.Number:
		if n, ok := new(big.Int).SetString(t.String(), 10); ok {
			return n, nil
		}
	}
	return nil, typeErr(p, "bigint", v)
}

func checkLiteral(_ *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	if literalEqual(v, s.lit) {
		return v, nil
	}
	e := typeErr(p, fmt.Sprintf("literal %v", s.lit), v)
	e.Params["expected"] = s.lit
	return nil, e
}

func checkNull(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	if v == nil {
		return nil, nil
	}
	return nil, typeErr(p, "null", v)
}

func checkUndefined(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	if shape.IsAbsent(v) {
		return v, nil
	}
	return nil, typeErr(p, "absent", v)
}

func checkAny(_ *exec, _ *Schema, v any, _ shape.Path) (any, *shape.Error) {
	return v, nil
}

func checkNever(_ *exec, _ *Schema, v any, p shape.Path) (any, *shape.Error) {
	return nil, typeErr(p, "no value", v)
}

func checkObject(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeErr(p, "object", v)
	}
	out := make(map[string]any, len(s.fields))
	var kids []*shape.Error
	for _, f := range s.fields {
		fp := p.Field(f.name)
		raw, present := m[f.name]
		if !present {
			switch {
			case f.node.hasDefault():
				res, err := e.walk(f.node, shape.Absent, fp)
				if err != nil {
					kids = append(kids, err)
				} else {
					out[f.name] = res
				}
			case f.keyOptional:
				// key may be omitted; no output entry
			default:
				kids = append(kids, shape.NewError(shape.CodeMissingKey, fp, i18n.T(shape.CodeMissingKey, nil)))
			}
			if e.failFast && len(kids) > 0 {
				break
			}
			continue
		}
		res, err := e.walk(f.node, raw, fp)
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		out[f.name] = res
	}
	// unknown keys, in sorted order for deterministic reporting
	if !(e.failFast && len(kids) > 0) && s.unknown != unknownStrip {
		var unknown []string
		for k := range m {
			if !s.knownField(k) {
				unknown = append(unknown, k)
			}
		}
		sort.Strings(unknown)
		for _, k := range unknown {
			if s.unknown == unknownPassthrough {
				out[k] = m[k]
				continue
			}
			kids = append(kids, shape.NewError(shape.CodeUnexpectedKey, p.Field(k), i18n.T(shape.CodeUnexpectedKey, nil)))
			if e.failFast {
				break
			}
		}
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	return out, nil
}

func (s *Schema) knownField(name string) bool {
	for _, f := range s.fields {
		if f.name == name {
			return true
		}
	}
	return false
}

func checkArray(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	src, ok := anySlice(v)
	if !ok {
		return nil, typeErr(p, "array", v)
	}
	out := make([]any, 0, len(src))
	var kids []*shape.Error
	for i, ev := range src {
		res, err := e.walk(s.elem, ev, p.At(i))
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		out = append(out, res)
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	return out, nil
}

func checkTuple(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	src, ok := anySlice(v)
	if !ok {
		return nil, typeErr(p, "tuple", v)
	}
	if len(src) != len(s.items) {
		err := typeErr(p, fmt.Sprintf("tuple of %d elements", len(s.items)), v)
		err.Params["expected"] = len(s.items)
		err.Params["got"] = len(src)
		return nil, err
	}
	out := make([]any, 0, len(src))
	var kids []*shape.Error
	for i, ev := range src {
		res, err := e.walk(s.items[i], ev, p.At(i))
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		out = append(out, res)
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	return out, nil
}

func checkRecord(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeErr(p, "record", v)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	var kids []*shape.Error
	for _, k := range keys {
		kp := p.Field(k)
		kk, err := e.walk(s.key, k, kp)
		if err != nil {
			err = annotateKey(err)
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		res, err := e.walk(s.val, m[k], kp)
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		out[fmt.Sprint(kk)] = res
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	return out, nil
}

func checkMap(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, typeErr(p, "map", v)
	}
	type entry struct {
		key, val any
		label    string
	}
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key().Interface()
		entries = append(entries, entry{key: k, val: iter.Value().Interface(), label: fmt.Sprint(k)})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].label < entries[j].label })
	out := make(map[any]any, len(entries))
	var kids []*shape.Error
	for _, en := range entries {
		kp := p.Field(en.label)
		kk, err := e.walk(s.key, en.key, kp)
		if err != nil {
			kids = append(kids, annotateKey(err))
			if e.failFast {
				break
			}
			continue
		}
		res, err := e.walk(s.val, en.val, kp)
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		out[kk] = res
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	return out, nil
}

func checkSet(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, typeErr(p, "set", v)
	}
	switch rv.Type().Elem().Kind() {
	case reflect.Struct, reflect.Bool:
		// map[T]struct{} and map[T]bool both model sets
	default:
		return nil, typeErr(p, "set", v)
	}
	members := make([]any, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		members = append(members, iter.Key().Interface())
	}
	sort.Slice(members, func(i, j int) bool { return fmt.Sprint(members[i]) < fmt.Sprint(members[j]) })
	out := make(map[any]struct{}, len(members))
	var kids []*shape.Error
	for i, mv := range members {
		res, err := e.walk(s.elem, mv, p.At(i))
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		out[res] = struct{}{}
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	return out, nil
}

func checkUnion(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	errs := make([]*shape.Error, 0, len(s.members))
	for _, m := range s.members {
		out, err := e.walk(m, v, p)
		if err == nil {
			return out, nil
		}
		errs = append(errs, err)
	}
	return nil, &shape.Error{
		Code:    shape.CodeUnionNoMatch,
		Path:    p,
		Message: i18n.T(shape.CodeUnionNoMatch, nil),
		Errs:    errs,
	}
}

func checkDiscriminated(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, typeErr(p, "object", v)
	}
	tag, present := m[s.disc]
	if !present {
		return nil, shape.NewError(shape.CodeDiscriminatorMissing, p.Field(s.disc), i18n.T(shape.CodeDiscriminatorMissing, nil))
	}
	member := e.vd.discTable(s)[litKey(tag)]
	if member == nil {
		err := shape.NewError(shape.CodeDiscriminatorUnmatched, p.Field(s.disc), i18n.T(shape.CodeDiscriminatorUnmatched, nil))
		err.Params = map[string]any{"tag": tag}
		return nil, err
	}
	return e.walk(member, v, p)
}

func checkIntersection(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	outs := make([]any, 0, len(s.members))
	var kids []*shape.Error
	for _, m := range s.members {
		out, err := e.walk(m, v, p)
		if err != nil {
			kids = append(kids, err)
			if e.failFast {
				break
			}
			continue
		}
		outs = append(outs, out)
	}
	if len(kids) > 0 {
		return nil, shape.NewAggregate(p, kids)
	}
	if len(outs) == 0 {
		return v, nil
	}
	merged := outs[0]
	var conflicts []*shape.Error
	for _, o := range outs[1:] {
		var errs []*shape.Error
		merged, errs = deepMerge(merged, o, p)
		conflicts = append(conflicts, errs...)
	}
	if len(conflicts) > 0 {
		return nil, shape.NewAggregate(p, conflicts)
	}
	return merged, nil
}

// deepMerge combines two member outputs. Maps merge recursively; anything
// else must be deep-equal or the merge is a conflict at the diverging path.
func deepMerge(a, b any, p shape.Path) (any, []*shape.Error) {
	am, aok := a.(map[string]any)
	bm, bok := b.(map[string]any)
	if aok && bok {
		out := make(map[string]any, len(am)+len(bm))
		for k, av := range am {
			out[k] = av
		}
		keys := make([]string, 0, len(bm))
		for k := range bm {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var errs []*shape.Error
		for _, k := range keys {
			bv := bm[k]
			av, exists := out[k]
			if !exists {
				out[k] = bv
				continue
			}
			mv, merr := deepMerge(av, bv, p.Field(k))
			out[k] = mv
			errs = append(errs, merr...)
		}
		return out, errs
	}
	if reflect.DeepEqual(a, b) {
		return a, nil
	}
	err := shape.NewError(shape.CodeConflict, p, i18n.T(shape.CodeConflict, nil))
	err.Params = map[string]any{"left": a, "right": b}
	return a, []*shape.Error{err}
}

func checkPattern(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	b, msg := s.dispatch(v)
	if b == nil {
		if msg == "" {
			msg = i18n.T(shape.CodeTypeMismatch, nil)
		}
		return nil, shape.NewError(shape.CodeTypeMismatch, p, msg)
	}
	sub := b.Schema()
	if err := e.vd.ensure(sub); err != nil {
		return nil, err
	}
	return e.walk(sub, v, p)
}

func checkLazy(e *exec, s *Schema, v any, p shape.Path) (any, *shape.Error) {
	return e.walk(s.lazy.resolve(), v, p)
}

// ---- shared helpers ----

func typeErr(p shape.Path, want string, v any) *shape.Error {
	return &shape.Error{
		Code:    shape.CodeTypeMismatch,
		Path:    p,
		Message: i18n.T(shape.CodeTypeMismatch, nil),
		Hint:    "expected " + want,
		Params:  map[string]any{"got": gotName(v)},
	}
}

func gotName(v any) string {
	switch {
	case shape.IsAbsent(v):
		return "absent"
	case v == nil:
		return "null"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func annotateKey(err *shape.Error) *shape.Error {
	if err.Hint == "" {
		err.Hint = "invalid key"
	}
	return err
}

func anySlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, false
	}
	if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func literalEqual(v, lit any) bool {
	a, b := litKey(v), litKey(lit)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable() {
		return a == b
	}
	return reflect.DeepEqual(v, lit)
}
