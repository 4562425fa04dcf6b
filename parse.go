package shape

import (
	"bytes"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ParseJSON decodes data with number fidelity (json.Number) and validates
// the decoded value. Decoding failures are reported as CodeParseError.
func ParseJSON(vd Validator, data []byte) (any, error) {
	v, err := decodeJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return vd.Parse(v)
}

// ParseJSONReader reads at most maxBytes from r (unlimited when <= 0),
// decodes, and validates. The cap guards untrusted boundaries the way a
// streaming size limit would.
func ParseJSONReader(vd Validator, r io.Reader, maxBytes int64) (any, error) {
	v, err := DecodeJSONReader(r, maxBytes)
	if err != nil {
		return nil, err
	}
	return vd.Parse(v)
}

// DecodeJSONReader decodes without validating, applying the same size cap
// and number fidelity as ParseJSONReader. Callers that need to choose the
// entry point afterwards (sync vs async) decode here first.
func DecodeJSONReader(r io.Reader, maxBytes int64) (any, error) {
	if maxBytes <= 0 {
		return decodeJSON(r)
	}
	lr := io.LimitReader(r, maxBytes+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, NewError(CodeParseError, nil, err.Error()).WithCause(err)
	}
	if int64(len(data)) > maxBytes {
		return nil, NewError(CodeConstraint, nil, "max bytes exceeded")
	}
	return decodeJSON(bytes.NewReader(data))
}

// ParseYAML decodes YAML into plain values and validates. yaml.v3 yields
// map[string]any for mappings, so object schemas apply unchanged.
func ParseYAML(vd Validator, data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, NewError(CodeParseError, nil, err.Error()).WithCause(err)
	}
	return vd.Parse(v)
}

func decodeJSON(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, NewError(CodeParseError, nil, err.Error()).WithCause(err)
	}
	return v, nil
}

// BindAs decodes a validated object output (map[string]any) into a struct T
// via a JSON round-trip. It is a convenience for callers that want typed
// access after validation.
func BindAs[T any](v any) (T, error) {
	var out T
	raw, err := json.Marshal(v)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, err
	}
	return out, nil
}
