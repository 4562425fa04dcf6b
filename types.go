package shape

import "context"

// absentMarker is the sentinel for "no value". Object traversal maps a
// missing key to it; optional/nullish schemas accept it.
type absentMarker struct{}

func (absentMarker) String() string { return "<absent>" }

// Absent is the absent-marker value. It plays the role undefined plays in
// dynamically typed hosts: distinct from nil (null) and from the zero value.
var Absent any = absentMarker{}

// IsAbsent reports whether v is the absent marker.
func IsAbsent(v any) bool {
	_, ok := v.(absentMarker)
	return ok
}

// ---- Parse-time context options (consumed by Validator.ParseAsync) ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that makes container nodes stop at
// the first child failure instead of aggregating.
func WithFailFast(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, enabled)
}

// IsFailFast reports whether the current parse should stop on the first error.
func IsFailFast(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyFailFast).(bool)
	return b
}
