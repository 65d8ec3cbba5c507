package nightconfig

import (
	"github.com/goccy/go-json"
)

// DefaultRule is the default-value collaborator attached to a field.
// The policy engine only consults IsActive and forwards the computed
// value; how the value is produced is entirely the rule's business.
type DefaultRule interface {
	// IsActive reports whether the rule should replace the raw value
	// for this pass, typically because it is absent or unusable.
	IsActive(raw RawValue) bool
	// ComputeDefault produces the substitute value.
	ComputeDefault() (any, error)
}

// DefaultFunc adapts a pair of funcs to DefaultRule.
type DefaultFunc struct {
	Active  func(raw RawValue) bool
	Compute func() (any, error)
}

func (d DefaultFunc) IsActive(raw RawValue) bool {
	if d.Active == nil {
		return raw.IsAbsent() || raw.IsNull()
	}
	return d.Active(raw)
}

func (d DefaultFunc) ComputeDefault() (any, error) {
	if d.Compute == nil {
		return nil, nil
	}
	return d.Compute()
}

// literalDefaultRule is the built-in rule behind default:'...' tags.
// The literal is decoded once at metadata-derivation time and handed
// out as-is; conversion to the field type happens at assignment.
type literalDefaultRule struct {
	literal string
	value   any
}

// newLiteralDefaultRule decodes a tag literal. JSON syntax covers
// numbers, booleans, strings, arrays and objects; anything that is
// not valid JSON is kept as the verbatim string, so default:'on' and
// default:'"on"' both work.
func newLiteralDefaultRule(literal string) *literalDefaultRule {
	rule := &literalDefaultRule{literal: literal}

	var decoded any
	if err := json.Unmarshal([]byte(literal), &decoded); err != nil {
		rule.value = literal
	} else {
		rule.value = decoded
	}

	return rule
}

// IsActive fires on absent entries and explicit nulls; a present
// value, however odd, wins over the default.
func (r *literalDefaultRule) IsActive(raw RawValue) bool {
	return raw.IsAbsent() || raw.IsNull()
}

func (r *literalDefaultRule) ComputeDefault() (any, error) {
	return r.value, nil
}
