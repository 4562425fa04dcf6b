package shape

import (
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Step is a single path segment: an object key or a sequence index.
type Step struct {
	Key   string
	Index int
	index bool
}

// Key returns a key segment for property names and map keys.
func Key(name string) Step { return Step{Key: name} }

// Index returns an index segment for array, tuple, and set positions.
func Index(i int) Step { return Step{Index: i, index: true} }

// IsIndex reports whether the segment addresses a sequence position.
func (s Step) IsIndex() bool { return s.index }

func (s Step) String() string {
	if s.index {
		return strconv.Itoa(s.Index)
	}
	return s.Key
}

// MarshalJSON renders key segments as strings and index segments as numbers.
func (s Step) MarshalJSON() ([]byte, error) {
	if s.index {
		return json.Marshal(s.Index)
	}
	return json.Marshal(s.Key)
}

// Path addresses a location in the validated value. Paths are always
// root-relative; child errors inside aggregates are never re-relativized.
type Path []Step

// Field returns a new Path with a key segment appended. The receiver is not
// modified.
func (p Path) Field(name string) Path {
	return append(append(Path{}, p...), Key(name))
}

// At returns a new Path with an index segment appended.
func (p Path) At(i int) Path {
	return append(append(Path{}, p...), Index(i))
}

// Pointer renders the path as an RFC 6901 JSON Pointer ("/" for the root).
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, s := range p {
		b.WriteByte('/')
		if s.index {
			b.WriteString(strconv.Itoa(s.Index))
			continue
		}
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(s.Key, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

func (p Path) String() string { return p.Pointer() }

// MarshalJSON renders the path as a mixed array of strings and numbers,
// e.g. ["contacts",1,"address","zipCode"].
func (p Path) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Step(p))
}
