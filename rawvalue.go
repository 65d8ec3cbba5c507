package nightconfig

import "fmt"

// rawState is the tri-state tag carried by a RawValue.
//
// Absent and explicit-null are deliberately distinct: a config entry
// that exists with a null value must not satisfy the "missing"
// condition, and a missing entry must not satisfy the "null" one.
type rawState uint8

const (
	rawAbsent rawState = iota
	rawNull
	rawPresent
)

// RawValue is the result of a raw config-tree lookup, before any
// conversion into a destination field's type.
//
// It is an immutable value type. Policy evaluation only reads it.
type RawValue struct {
	state rawState
	value any
}

// Absent returns the RawValue for a path with no config entry at all.
func Absent() RawValue {
	return RawValue{state: rawAbsent}
}

// Null returns the RawValue for an entry that exists with an explicit
// null value.
func Null() RawValue {
	return RawValue{state: rawNull}
}

// Present wraps a value that exists in the config tree.
//
// A nil argument is normalized to the explicit-null state, matching
// how the config tree stores nil map values.
func Present(v any) RawValue {
	if v == nil {
		return Null()
	}
	return RawValue{state: rawPresent, value: v}
}

// IsAbsent reports whether no entry existed at the looked-up path.
func (rv RawValue) IsAbsent() bool { return rv.state == rawAbsent }

// IsNull reports whether the entry existed with an explicit null value.
func (rv RawValue) IsNull() bool { return rv.state == rawNull }

// IsPresent reports whether the entry existed with a non-null value.
func (rv RawValue) IsPresent() bool { return rv.state == rawPresent }

// Get returns the wrapped value, or nil for both the absent and null
// states. Use IsAbsent/IsNull to tell those two apart.
func (rv RawValue) Get() any {
	if rv.state != rawPresent {
		return nil
	}
	return rv.value
}

// Unwrap returns the value a custom predicate should be applied to:
// the wrapped value for present entries, nil otherwise. Predicates
// written against the raw config surface receive exactly this.
func (rv RawValue) Unwrap() any {
	return rv.Get()
}

func (rv RawValue) String() string {
	switch rv.state {
	case rawAbsent:
		return "RawValue(absent)"
	case rawNull:
		return "RawValue(null)"
	default:
		return fmt.Sprintf("RawValue(%v)", rv.value)
	}
}
