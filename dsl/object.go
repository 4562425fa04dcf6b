package dsl

// ObjectBuilder assembles an object schema field by field. Field declaration
// order is the validation and error-aggregation order.
type ObjectBuilder struct {
	s          *Schema
	defaultOpt bool // key-optionality applied by Field
}

// Object starts a strict object: every declared key must be present and
// unknown keys are rejected.
func Object() *ObjectBuilder {
	return &ObjectBuilder{s: newSchema(kindObject)}
}

// Interface starts a structural object: declared keys may be absent and
// unknown keys pass through to the output. Use RequiredField to pin
// individual keys.
func Interface() *ObjectBuilder {
	s := newSchema(kindInterface)
	s.unknown = unknownPassthrough
	return &ObjectBuilder{s: s, defaultOpt: true}
}

// Field declares a property with the builder's default key-optionality
// (required for Object, optional for Interface). Key-optionality is
// independent of the child accepting the absent marker: a key-required
// property whose child is Optional must still be present, possibly holding
// the absent marker.
func (b *ObjectBuilder) Field(name string, node Builder) *ObjectBuilder {
	b.s.fields = append(b.s.fields, field{name: name, node: node.Schema(), keyOptional: b.defaultOpt})
	return b
}

// OptionalField declares a property whose key may be omitted entirely.
func (b *ObjectBuilder) OptionalField(name string, node Builder) *ObjectBuilder {
	b.s.fields = append(b.s.fields, field{name: name, node: node.Schema(), keyOptional: true})
	return b
}

// RequiredField declares a property whose key must be present.
func (b *ObjectBuilder) RequiredField(name string, node Builder) *ObjectBuilder {
	b.s.fields = append(b.s.fields, field{name: name, node: node.Schema()})
	return b
}

// Strict makes unknown keys validation errors.
func (b *ObjectBuilder) Strict() *ObjectBuilder {
	b.s.unknown = unknownStrict
	return b
}

// Strip silently drops unknown keys from the output.
func (b *ObjectBuilder) Strip() *ObjectBuilder {
	b.s.unknown = unknownStrip
	return b
}

// Passthrough copies unknown keys to the output unvalidated.
func (b *ObjectBuilder) Passthrough() *ObjectBuilder {
	b.s.unknown = unknownPassthrough
	return b
}

// Schema finalizes the builder. Further builder calls must not follow.
func (b *ObjectBuilder) Schema() *Schema { return b.s }

// Compile finalizes and compiles in one step.
func (b *ObjectBuilder) Compile() (Validator, error) { return b.s.Compile() }

// MustCompile is Compile panicking on malformed schemas.
func (b *ObjectBuilder) MustCompile() Validator { return b.s.MustCompile() }
