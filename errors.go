package shape

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeTypeMismatch           = "type_mismatch"
	CodeConstraint             = "constraint_violation"
	CodeRefinement             = "refinement_failure"
	CodeMissingKey             = "missing_key"
	CodeUnexpectedKey          = "unexpected_key"
	CodeUnionNoMatch           = "union_no_match"
	CodeDiscriminatorMissing   = "discriminator_missing"
	CodeDiscriminatorUnmatched = "discriminator_unmatched"
	CodeTransformFailure       = "transform_failure"
	CodeAsyncRequired          = "async_required"
	CodeAggregate              = "aggregate"
	CodeConflict               = "conflict"
	// Programmer errors surfaced at compile time (malformed schema trees)
	CodeInvalidSchema = "invalid_schema"
	// Boundary decoding failures (malformed JSON/YAML input)
	CodeParseError = "parse_error"
)

// Error is a single validation failure. Composite failures carry child
// errors in Errs (code CodeAggregate); every child keeps its own
// root-relative Path.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Path    Path           `json:"path"`
	Hint    string         `json:"hint,omitempty"`
	Params  map[string]any `json:"params,omitempty"` // structured parameters for i18n and observability
	Errs    []*Error       `json:"errors,omitempty"`
	cause   error
}

// NewError builds an Error at the given path.
func NewError(code string, p Path, msg string) *Error {
	return &Error{Code: code, Path: p, Message: msg}
}

// NewAggregate bundles child errors under one composite failure. A single
// child is returned as-is so leaf paths stay directly inspectable.
func NewAggregate(p Path, errs []*Error) *Error {
	if len(errs) == 1 {
		return errs[0]
	}
	return &Error{Code: CodeAggregate, Path: p, Message: fmt.Sprintf("%d validation errors", len(errs)), Errs: errs}
}

// WithCause attaches an underlying error for errors.Is/As chains.
func (e *Error) WithCause(err error) *Error { e.cause = err; return e }

// Error summarizes the first few failures.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Errs) == 0 {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path.Pointer(), e.Message)
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(e.Errs)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := e.Errs[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path.Pointer())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// IsAggregate reports whether the error bundles child errors.
func (e *Error) IsAggregate() bool { return e != nil && e.Code == CodeAggregate }

// Flatten returns the leaf errors in declaration order. A non-aggregate
// error flattens to itself.
func (e *Error) Flatten() []*Error {
	if e == nil {
		return nil
	}
	if len(e.Errs) == 0 {
		return []*Error{e}
	}
	out := make([]*Error, 0, len(e.Errs))
	for _, c := range e.Errs {
		out = append(out, c.Flatten()...)
	}
	return out
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
