// Package codec provides prebuilt schemas that decode common wire
// representations into Go domain values: RFC3339 timestamps, durations,
// UUIDs and URLs. Each schema validates the wire string first, then
// transforms, so failures carry the usual structured errors.
package codec

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/shapeform/shape/dsl"
)

// TimeRFC3339 decodes an RFC3339 string into time.Time. Fractional seconds
// are accepted; the decoded value keeps its offset.
func TimeRFC3339() *dsl.Schema {
	return dsl.String().Schema().Transform(func(v any) (any, error) {
		s := v.(string)
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t, nil
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, fmt.Errorf("invalid RFC3339 time %q", s)
		}
		return t, nil
	})
}

// FormatRFC3339 renders t in the canonical wire form: UTC, trailing zeros
// trimmed.
func FormatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Duration decodes a Go duration string ("1h30m", "250ms") into
// time.Duration.
func Duration() *dsl.Schema {
	return dsl.String().Schema().Transform(func(v any) (any, error) {
		d, err := time.ParseDuration(v.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", v)
		}
		return d, nil
	})
}

// UUID decodes a UUID string into uuid.UUID. All textual forms accepted by
// the uuid package parse; the decoded value renders canonically.
func UUID() *dsl.Schema {
	return dsl.String().Schema().Transform(func(v any) (any, error) {
		id, err := uuid.Parse(v.(string))
		if err != nil {
			return nil, fmt.Errorf("invalid UUID %q", v)
		}
		return id, nil
	})
}

// URL decodes an absolute URL into *url.URL. Scheme and host are required;
// relative references are rejected.
func URL() *dsl.Schema {
	return dsl.String().Schema().Transform(func(v any) (any, error) {
		u, err := url.Parse(v.(string))
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid absolute URL %q", v)
		}
		return u, nil
	})
}
