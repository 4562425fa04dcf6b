// Package middleware validates HTTP JSON request bodies against a compiled
// Validator. The validated (and transformed) value is stored on the request
// context; failures are rendered as a structured JSON payload before the
// handler runs.
package middleware

import (
	"context"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	shape "github.com/shapeform/shape"
)

// ctxKeyValidated is the typed context key for the validated body value.
type ctxKeyValidated struct{}

// ContextWithValidated attaches a validated value to the context.
func ContextWithValidated(ctx context.Context, v any) context.Context {
	return context.WithValue(ctx, ctxKeyValidated{}, v)
}

// ValidatedFromContext retrieves the validated value stored by ValidateBody.
func ValidatedFromContext(ctx context.Context) (any, bool) {
	v := ctx.Value(ctxKeyValidated{})
	return v, v != nil
}

// ValidatedAs retrieves the validated value asserted to T.
func ValidatedAs[T any](ctx context.Context) (T, bool) {
	var zero T
	v, ok := ValidatedFromContext(ctx)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Options tunes ValidateBody. The zero value is usable.
type Options struct {
	// MaxBytes caps the request body; <= 0 falls back to DefaultMaxBytes.
	MaxBytes int64
	// Logger, when set, logs each rejected request with its error count.
	Logger *zerolog.Logger
	// FailFast stops body validation at the first error.
	FailFast bool
}

// DefaultMaxBytes caps request bodies when Options.MaxBytes is unset.
const DefaultMaxBytes int64 = 1 << 20

// ValidateBody returns middleware that decodes the JSON request body,
// validates it with vd, and passes the validated value to the next handler
// via the request context. Invalid bodies get a 400 with an ErrorPayload;
// async schemas are awaited with the request context.
func ValidateBody(vd shape.Validator, opts Options) func(http.Handler) http.Handler {
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if opts.FailFast {
				ctx = shape.WithFailFast(ctx, true)
			}
			out, err := parseBody(ctx, vd, r, maxBytes)
			if err != nil {
				if opts.Logger != nil {
					opts.Logger.Warn().
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Str("code", err.Code).
						Int("errors", len(err.Flatten())).
						Msg("request body rejected")
				}
				writeJSON(w, http.StatusBadRequest, ErrorPayload(err))
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithValidated(ctx, out)))
		})
	}
}

func parseBody(ctx context.Context, vd shape.Validator, r *http.Request, maxBytes int64) (any, *shape.Error) {
	decoded, err := shape.DecodeJSONReader(r.Body, maxBytes)
	if err != nil {
		ve, _ := shape.AsError(err)
		return nil, ve
	}
	res := vd.ParseAsync(ctx, decoded)
	if !res.OK {
		return nil, res.Err
	}
	return res.Value, nil
}

// ErrorPayload shapes a validation error for JSON responses: the flattened
// leaf errors, each with its code, message and path.
func ErrorPayload(err *shape.Error) map[string]any {
	return map[string]any{"errors": err.Flatten()}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
