package dsl

import (
	"fmt"
	"math"
	"math/big"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	json "github.com/goccy/go-json"
)

// StringSchema adds string constraints on top of the generic modifiers.
type StringSchema struct{ *schemaNode }

// String returns the string schema.
func String() *StringSchema { return &StringSchema{newSchema(kindString)} }

func (s *StringSchema) with(name string, rule func(v string) *violation) *StringSchema {
	return &StringSchema{s.withRule(name, func(v any) *violation { return rule(v.(string)) })}
}

// MinLength requires at least n runes.
func (s *StringSchema) MinLength(n int) *StringSchema {
	return s.with("min_length", func(v string) *violation {
		if got := utf8.RuneCountInString(v); got < n {
			return &violation{msg: fmt.Sprintf("too short: length %d < min %d", got, n), params: map[string]any{"min": n, "got": got}}
		}
		return nil
	})
}

// MaxLength requires at most n runes.
func (s *StringSchema) MaxLength(n int) *StringSchema {
	return s.with("max_length", func(v string) *violation {
		if got := utf8.RuneCountInString(v); got > n {
			return &violation{msg: fmt.Sprintf("too long: length %d > max %d", got, n), params: map[string]any{"max": n, "got": got}}
		}
		return nil
	})
}

// NonEmpty is MinLength(1).
func (s *StringSchema) NonEmpty() *StringSchema { return s.MinLength(1) }

// Pattern requires the value to match re.
func (s *StringSchema) Pattern(re *regexp.Regexp) *StringSchema {
	return s.with("pattern", func(v string) *violation {
		if !re.MatchString(v) {
			return &violation{msg: "does not match pattern " + re.String(), params: map[string]any{"pattern": re.String()}}
		}
		return nil
	})
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Email applies a pragmatic address shape check, not full RFC 5322.
func (s *StringSchema) Email() *StringSchema {
	return s.with("email", func(v string) *violation {
		if !emailRe.MatchString(v) {
			return &violation{msg: "invalid email address"}
		}
		return nil
	})
}

// UUID requires an RFC 4122 textual UUID.
func (s *StringSchema) UUID() *StringSchema {
	return s.with("uuid", func(v string) *violation {
		if _, err := uuid.Parse(v); err != nil {
			return &violation{msg: "invalid uuid"}
		}
		return nil
	})
}

// URL requires an absolute URL with a scheme and host.
func (s *StringSchema) URL() *StringSchema {
	return s.with("url", func(v string) *violation {
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return &violation{msg: "invalid url"}
		}
		return nil
	})
}

// NumberSchema adds numeric constraints. Inputs may be any Go numeric type
// or json.Number; the value passes through unchanged.
type NumberSchema struct{ *schemaNode }

// Number returns the number schema.
func Number() *NumberSchema { return &NumberSchema{newSchema(kindNumber)} }

func (s *NumberSchema) with(name string, rule func(f float64) *violation) *NumberSchema {
	return &NumberSchema{s.withRule(name, func(v any) *violation {
		f, _ := numFloat(v)
		return rule(f)
	})}
}

// Min requires v >= n.
func (s *NumberSchema) Min(n float64) *NumberSchema {
	return s.with("min", func(f float64) *violation {
		if f < n {
			return &violation{msg: fmt.Sprintf("too small: %v < min %v", f, n), params: map[string]any{"min": n, "got": f}}
		}
		return nil
	})
}

// Max requires v <= n.
func (s *NumberSchema) Max(n float64) *NumberSchema {
	return s.with("max", func(f float64) *violation {
		if f > n {
			return &violation{msg: fmt.Sprintf("too big: %v > max %v", f, n), params: map[string]any{"max": n, "got": f}}
		}
		return nil
	})
}

// Positive requires v > 0.
func (s *NumberSchema) Positive() *NumberSchema {
	return s.with("positive", func(f float64) *violation {
		if f <= 0 {
			return &violation{msg: fmt.Sprintf("not positive: %v", f), params: map[string]any{"got": f}}
		}
		return nil
	})
}

// Negative requires v < 0.
func (s *NumberSchema) Negative() *NumberSchema {
	return s.with("negative", func(f float64) *violation {
		if f >= 0 {
			return &violation{msg: fmt.Sprintf("not negative: %v", f), params: map[string]any{"got": f}}
		}
		return nil
	})
}

// Nonnegative requires v >= 0.
func (s *NumberSchema) Nonnegative() *NumberSchema { return s.Min(0) }

// Int requires an integral value.
func (s *NumberSchema) Int() *NumberSchema {
	return &NumberSchema{s.withRule("int", func(v any) *violation {
		if isIntegral(v) {
			return nil
		}
		return &violation{msg: fmt.Sprintf("not an integer: %v", v)}
	})}
}

// Bool returns the bool schema.
func Bool() *Schema { return newSchema(kindBool) }

// BigIntSchema adds arbitrary-precision integer constraints. The output is
// normalized to *big.Int.
type BigIntSchema struct{ *schemaNode }

// BigInt returns the bigint schema. It accepts *big.Int, Go integers, and
// integral json.Number values.
func BigInt() *BigIntSchema { return &BigIntSchema{newSchema(kindBigInt)} }

func (s *BigIntSchema) with(name string, rule func(v *big.Int) *violation) *BigIntSchema {
	return &BigIntSchema{s.withRule(name, func(v any) *violation { return rule(v.(*big.Int)) })}
}

// Min requires v >= n.
func (s *BigIntSchema) Min(n int64) *BigIntSchema {
	return s.with("min", func(v *big.Int) *violation {
		if v.Cmp(big.NewInt(n)) < 0 {
			return &violation{msg: fmt.Sprintf("too small: %s < min %d", v, n), params: map[string]any{"min": n}}
		}
		return nil
	})
}

// Max requires v <= n.
func (s *BigIntSchema) Max(n int64) *BigIntSchema {
	return s.with("max", func(v *big.Int) *violation {
		if v.Cmp(big.NewInt(n)) > 0 {
			return &violation{msg: fmt.Sprintf("too big: %s > max %d", v, n), params: map[string]any{"max": n}}
		}
		return nil
	})
}

// Positive requires v > 0.
func (s *BigIntSchema) Positive() *BigIntSchema {
	return s.with("positive", func(v *big.Int) *violation {
		if v.Sign() <= 0 {
			return &violation{msg: fmt.Sprintf("not positive: %s", v)}
		}
		return nil
	})
}

// Literal matches exactly one value. Numeric literals match across numeric
// representations (an int literal matches the same json.Number input).
func Literal(v any) *Schema {
	s := newSchema(kindLiteral)
	s.lit = v
	return s
}

// Null matches only null.
func Null() *Schema { return newSchema(kindNull) }

// Undefined matches only the absent marker.
func Undefined() *Schema { return newSchema(kindUndefined) }

// Void is Undefined under the name host languages use for "returns nothing".
func Void() *Schema { return newSchema(kindVoid) }

// Any accepts every input, including null and the absent marker.
func Any() *Schema { return newSchema(kindAny) }

// Unknown accepts every input. It differs from Any only in the static-typing
// projection layered on top of the engine, never at run time.
func Unknown() *Schema { return newSchema(kindUnknown) }

// Never rejects every input.
func Never() *Schema { return newSchema(kindNever) }

// ---- numeric helpers shared by checks and constraints ----

func numFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func isIntegral(v any) bool {
	switch t := v.(type) {
	case float64:
		return t == math.Trunc(t)
	case float32:
		return float64(t) == math.Trunc(float64(t))
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			f, err := t.Float64()
			return err == nil && f == math.Trunc(f)
		}
		_, err := t.Int64()
		return err == nil
	default:
		_, ok := numFloat(v)
		return ok // remaining numeric types are integer-typed
	}
}
