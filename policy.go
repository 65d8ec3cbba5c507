package nightconfig

import (
	"reflect"
	"sync"
)

// DecisionKind discriminates the three possible outcomes of policy
// evaluation for one field.
type DecisionKind int

const (
	// DecideProceed assigns the raw value normally.
	DecideProceed DecisionKind = iota
	// DecideSkip leaves the field exactly as it was.
	DecideSkip
	// DecideUseDefault assigns the default rule's computed value.
	DecideUseDefault
)

func (k DecisionKind) String() string {
	switch k {
	case DecideProceed:
		return "Proceed"
	case DecideSkip:
		return "Skip"
	case DecideUseDefault:
		return "UseDefault"
	default:
		return "DecisionKind(?)"
	}
}

// Decision is the outcome of policy evaluation for one (field, raw
// value) pair. DefaultValue is only meaningful for DecideUseDefault.
type Decision struct {
	Kind         DecisionKind
	DefaultValue any
}

// FieldMetadata is the immutable, per-(type, field) view of a field's
// declarative annotations. It is derived once from struct tags and
// shared by every deserialization of the declaring type, so it must
// never be mutated after derivation.
type FieldMetadata struct {
	DeclaringType  reflect.Type
	FieldName      string
	FieldIndex     int
	Path           []string
	Required       bool
	SkipConditions []SkipCondition
	DefaultRule    DefaultRule

	// Recurse marks plain struct fields the walker descends into
	// instead of treating as a single config value.
	Recurse bool
}

// structMetadata is the derived view of all walkable fields of one
// struct type, in declaration order.
type structMetadata struct {
	Type   reflect.Type
	Fields []*FieldMetadata
}

// metadataCache holds derived structMetadata keyed by struct type.
// Annotation metadata never changes at runtime, so concurrent
// derivations of the same type race harmlessly to store equal
// results, last write wins.
var metadataCache sync.Map // reflect.Type -> *structMetadata

// metadataForType returns the derived metadata for a struct type,
// deriving and caching it on first encounter.
func metadataForType(t reflect.Type) (*structMetadata, error) {
	if cached, ok := metadataCache.Load(t); ok {
		return cached.(*structMetadata), nil
	}

	derived, err := deriveStructMetadata(t)
	if err != nil {
		return nil, err
	}

	metadataCache.Store(t, derived)
	return derived, nil
}

func deriveStructMetadata(t reflect.Type) (*structMetadata, error) {
	sm := &structMetadata{Type: t}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		meta, err := deriveFieldMetadata(t, field, i)
		if err != nil {
			return nil, err
		}
		if meta == nil {
			continue
		}

		sm.Fields = append(sm.Fields, meta)
	}

	return sm, nil
}

func deriveFieldMetadata(t reflect.Type, field reflect.StructField, index int) (*FieldMetadata, error) {
	path, required, ignore, err := decodeConfigTag(field)
	if err != nil {
		return nil, err
	}
	if ignore {
		return nil, nil
	}

	conditions, err := decodeSkipTag(field.Tag.Get(SkipIfTagPrefix), field.Name)
	if err != nil {
		return nil, err
	}

	return &FieldMetadata{
		DeclaringType:  t,
		FieldName:      field.Name,
		FieldIndex:     index,
		Path:           path,
		Required:       required,
		SkipConditions: conditions,
		DefaultRule:    decodeDefaultTag(field),
		Recurse:        field.Type.Kind() == reflect.Struct && !isSpecialStructType(field.Type),
	}, nil
}

// MetadataFor returns the derived field metadata for a struct type,
// in declaration order, for callers that drive their own object walk.
// The returned values are shared and must not be mutated.
func MetadataFor(t reflect.Type) ([]*FieldMetadata, error) {
	sm, err := metadataForType(t)
	if err != nil {
		return nil, err
	}
	return sm.Fields, nil
}

// Decide evaluates the deserialization policy for one field.
//
// Skip conditions are checked first: if any holds, the field is
// skipped even when a default rule would also fire. Otherwise an
// active default rule wins over plain assignment. This two-stage
// precedence is a contract, not an implementation detail: a skip
// annotation must be able to leave a field entirely untouched.
//
// instance is the object currently being deserialized; it is needed
// for instance-bound custom predicates. Evaluation reads meta and raw
// but never mutates them.
func Decide(meta *FieldMetadata, raw RawValue, instance reflect.Value) (Decision, error) {
	if len(meta.SkipConditions) > 0 {
		skip, err := shouldSkip(meta.SkipConditions, raw, instance, meta.FieldName)
		if err != nil {
			return Decision{}, err
		}
		if skip {
			return Decision{Kind: DecideSkip}, nil
		}
	}

	if meta.DefaultRule != nil && meta.DefaultRule.IsActive(raw) {
		value, err := meta.DefaultRule.ComputeDefault()
		if err != nil {
			return Decision{}, err
		}
		return Decision{Kind: DecideUseDefault, DefaultValue: value}, nil
	}

	return Decision{Kind: DecideProceed}, nil
}
