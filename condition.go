package nightconfig

import (
	"fmt"
	"reflect"
)

//go:generate go tool stringer -type=ConditionKind -trimprefix=Condition

// ConditionKind discriminates the SkipCondition variants.
type ConditionKind int

const (
	// ConditionMissing skips the field if no config entry exists at
	// its path. A present-but-null entry does NOT satisfy it.
	ConditionMissing ConditionKind = iota
	// ConditionNull skips the field if the config entry exists with
	// an explicit null value. An absent entry does NOT satisfy it.
	ConditionNull
	// ConditionEmpty skips the field if the raw value is logically
	// empty per IsEmptyValue.
	ConditionEmpty
	// ConditionCustom skips the field if a user-supplied predicate,
	// resolved from CustomType/CustomCheck, returns true for the raw
	// value.
	ConditionCustom
)

// SkipCondition is one declared skip rule on a field. The predefined
// kinds carry no extra data; ConditionCustom names the member (and
// optionally the declaring type) of the predicate to resolve.
type SkipCondition struct {
	Kind ConditionKind

	// CustomType is the type declaring the custom predicate. Nil is
	// the sentinel for "the type of the object currently being
	// deserialized".
	CustomType reflect.Type

	// CustomCheck is the field or method name of the predicate.
	CustomCheck string
}

func (sc SkipCondition) String() string {
	if sc.Kind != ConditionCustom {
		return sc.Kind.String()
	}
	if sc.CustomType == nil {
		return fmt.Sprintf("Custom(%s)", sc.CustomCheck)
	}
	return fmt.Sprintf("Custom(%s#%s)", sc.CustomType.Name(), sc.CustomCheck)
}

// MergeConditionGroups flattens repeated skip-condition groups into
// the single ordered sequence the aggregator consumes. Declaration
// order is preserved across groups; duplicates are kept as-is since
// evaluation is an OR and extra terms are harmless.
func MergeConditionGroups(groups ...[]SkipCondition) []SkipCondition {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if total == 0 {
		return nil
	}

	merged := make([]SkipCondition, 0, total)
	for _, g := range groups {
		merged = append(merged, g...)
	}
	return merged
}

// shouldSkip aggregates an ordered sequence of skip conditions over
// one raw value with OR semantics, short-circuiting at the first
// condition that holds. An empty sequence never skips.
//
// instance is the object currently being deserialized; it is only
// consulted when a ConditionCustom needs an instance-bound predicate.
// A predicate resolution failure aborts the aggregation.
func shouldSkip(
	conditions []SkipCondition,
	raw RawValue,
	instance reflect.Value,
	fieldName string,
) (bool, error) {

	for _, cond := range conditions {
		switch cond.Kind {
		case ConditionMissing:
			if raw.IsAbsent() {
				return true, nil
			}
		case ConditionNull:
			if raw.IsNull() {
				return true, nil
			}
		case ConditionEmpty:
			if IsEmptyValue(raw) {
				return true, nil
			}
		case ConditionCustom:
			handle, err := resolvePredicate(cond.CustomType, cond.CustomCheck, instance, fieldName)
			if err != nil {
				return false, err
			}
			if handle.Test(raw.Unwrap()) {
				return true, nil
			}
		default:
			return false, fmt.Errorf("%w: %d", ErrUnknownConditionKind, cond.Kind)
		}
	}

	return false, nil
}
