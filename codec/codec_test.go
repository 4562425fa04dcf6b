package codec_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	shape "github.com/shapeform/shape"
	"github.com/shapeform/shape/codec"
	g "github.com/shapeform/shape/dsl"
)

func TestTimeRFC3339(t *testing.T) {
	v := codec.TimeRFC3339().MustCompile()

	out, err := v.Parse("2026-01-02T03:04:05Z")
	require.NoError(t, err)
	ts := out.(time.Time)
	require.True(t, ts.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	// fractional seconds and offsets
	out, err = v.Parse("2026-01-02T03:04:05.5+09:00")
	require.NoError(t, err)
	require.Equal(t, 500*time.Millisecond, time.Duration(out.(time.Time).Nanosecond()))

	_, err = v.Parse("02 Jan 2026")
	se, ok := shape.AsError(err)
	require.True(t, ok)
	require.Equal(t, shape.CodeTransformFailure, se.Code)

	_, err = v.Parse(123)
	se, _ = shape.AsError(err)
	require.Equal(t, shape.CodeTypeMismatch, se.Code)
}

func TestFormatRFC3339(t *testing.T) {
	in := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("JST", 9*3600))
	require.Equal(t, "2026-01-01T18:04:05Z", codec.FormatRFC3339(in))
}

func TestDuration(t *testing.T) {
	v := codec.Duration().MustCompile()
	out, err := v.Parse("1h30m")
	require.NoError(t, err)
	require.Equal(t, 90*time.Minute, out.(time.Duration))

	_, err = v.Parse("ninety minutes")
	require.Error(t, err)
}

func TestUUID(t *testing.T) {
	v := codec.UUID().MustCompile()
	out, err := v.Parse("123e4567-e89b-12d3-a456-426614174000")
	require.NoError(t, err)
	require.Equal(t, "123e4567-e89b-12d3-a456-426614174000", out.(uuid.UUID).String())

	_, err = v.Parse("not-a-uuid")
	require.Error(t, err)
}

func TestURL(t *testing.T) {
	v := codec.URL().MustCompile()
	out, err := v.Parse("https://example.com/a?b=c")
	require.NoError(t, err)
	require.Equal(t, "example.com", out.(*url.URL).Host)

	_, err = v.Parse("/relative/only")
	require.Error(t, err)
}

// TestCodec_InsideObject: codec schemas compose like any node, errors land
// at the field path.
func TestCodec_InsideObject(t *testing.T) {
	v := g.Object().
		Field("created_at", codec.TimeRFC3339()).
		MustCompile()

	_, err := v.Parse(map[string]any{"created_at": "soon"})
	se, ok := shape.AsError(err)
	require.True(t, ok)
	require.Equal(t, "/created_at", se.Path.Pointer())
}
