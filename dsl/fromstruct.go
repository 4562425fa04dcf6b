package dsl

import (
	"fmt"
	"reflect"
	"time"

	"github.com/shapeform/shape/internal/structtag"
)

// FromStruct derives an object schema from T's exported fields. Keys resolve
// via shape/json tags; json ",omitempty" or shape:"optional" makes the key
// optional, a pointer field makes the value nullable. The derived builder
// can be refined further before compiling.
//
// Supported field types: strings, Go numerics, bool, time.Time (RFC3339
// input), nested structs, slices, string-keyed maps, and any/pointer
// combinations thereof.
func FromStruct[T any]() (*ObjectBuilder, error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("dsl: FromStruct requires a struct type, got %v", rt)
	}
	return fromStructType(rt)
}

// MustFromStruct is FromStruct panicking on unsupported types.
func MustFromStruct[T any]() *ObjectBuilder {
	b, err := FromStruct[T]()
	if err != nil {
		panic(err)
	}
	return b
}

func fromStructType(rt reflect.Type) (*ObjectBuilder, error) {
	b := Object()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := structtag.Key(sf)
		if name == "-" || name == "" {
			continue
		}
		node, err := schemaForType(sf.Type)
		if err != nil {
			return nil, fmt.Errorf("dsl: field %s: %w", sf.Name, err)
		}
		if structtag.Optional(sf) {
			b = b.OptionalField(name, node)
		} else {
			b = b.Field(name, node)
		}
	}
	return b, nil
}

var timeType = reflect.TypeOf(time.Time{})

func schemaForType(rt reflect.Type) (Builder, error) {
	if rt == timeType {
		return String().Schema().Transform(func(v any) (any, error) {
			t, err := time.Parse(time.RFC3339Nano, v.(string))
			if err != nil {
				return nil, fmt.Errorf("invalid RFC3339 time %q", v)
			}
			return t, nil
		}), nil
	}
	switch rt.Kind() {
	case reflect.Pointer:
		inner, err := schemaForType(rt.Elem())
		if err != nil {
			return nil, err
		}
		return inner.Schema().Nullable(), nil
	case reflect.String:
		return String(), nil
	case reflect.Bool:
		return Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number().Int(), nil
	case reflect.Float32, reflect.Float64:
		return Number(), nil
	case reflect.Struct:
		return fromStructType(rt)
	case reflect.Slice, reflect.Array:
		elem, err := schemaForType(rt.Elem())
		if err != nil {
			return nil, err
		}
		return Array(elem), nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %v", rt.Key())
		}
		val, err := schemaForType(rt.Elem())
		if err != nil {
			return nil, err
		}
		return Record(String(), val), nil
	case reflect.Interface:
		return Any(), nil
	default:
		return nil, fmt.Errorf("unsupported type %v", rt)
	}
}
