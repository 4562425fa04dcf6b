package shape

import (
	"context"
	"fmt"
)

// Validator is the compiled, immutable executable derived from a schema via
// Compile. It is safe for concurrent use across any number of validations.
//
// The three entry points differ only in failure delivery and async policy:
//   - Parse runs synchronously; schemas carrying async refinements or
//     transforms fail with CodeAsyncRequired before any traversal.
//   - SafeParse is Parse without the error return ergonomics: the outcome is
//     wrapped in a Result and never panics.
//   - ParseAsync permits async refinements/transforms; they are awaited in
//     declaration order with the supplied context. It never panics.
type Validator interface {
	Parse(v any) (any, error)
	MustParse(v any) any
	SafeParse(v any) Result
	ParseAsync(ctx context.Context, v any) Result
}

// ParseAs parses v and asserts the transformed output to T.
func ParseAs[T any](vd Validator, v any) (T, error) {
	var zero T
	out, err := vd.Parse(v)
	if err != nil {
		return zero, err
	}
	t, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("shape: output is %T, not %T", out, zero)
	}
	return t, nil
}
