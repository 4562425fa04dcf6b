package shape

// Result is the non-panicking outcome container returned by SafeParse and
// ParseAsync. Exactly one of Value/Err is meaningful, selected by OK.
type Result struct {
	OK    bool
	Value any
	Err   *Error
}

// OKResult wraps a successful (possibly transformed) output value.
func OKResult(v any) Result { return Result{OK: true, Value: v} }

// FailResult wraps a validation failure.
func FailResult(err *Error) Result { return Result{Err: err} }

// As asserts the result value to T. It returns false when the result failed
// or the output has a different dynamic type.
func As[T any](r Result) (T, bool) {
	var zero T
	if !r.OK {
		return zero, false
	}
	t, ok := r.Value.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
