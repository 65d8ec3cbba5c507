package nightconfig

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNilDestination        = errors.New("dest cannot be nil")
	ErrDestinationNotPointer = errors.New("dest must be a non-nil pointer to a struct type")
	ErrRequiredEntryMissing  = errors.New("required config entry is missing")
)

// Deserializer walks annotated structs and populates them from a
// Config tree, one policy decision per field.
//
// The walk is synchronous and single pass. Derived field metadata is
// shared process-wide, so a single Deserializer (or several) may be
// used from multiple goroutines as long as each call gets its own
// dest.
type Deserializer struct {
	opts DeserializerOpts
}

type DeserializerOpts struct {
	// NullClearsFields makes an explicit-null entry reset nilable
	// fields to their zero value instead of failing. Entries for
	// non-nilable field types still fail on null.
	NullClearsFields bool
}

func NewDeserializer(opts DeserializerOpts) *Deserializer {
	return &Deserializer{opts: opts}
}

// Deserialize populates dest from cfg.
//
// It expects dest to be a non-nil pointer to a struct. Each exported,
// non-ignored field gets exactly one policy decision: skip conditions
// first, then the default rule, then plain assignment. A predicate
// resolution error is fatal for the whole call, since it means the
// annotations themselves are wrong.
func (d *Deserializer) Deserialize(cfg *Config, dest any) error {
	if dest == nil {
		return ErrNilDestination
	}
	if reflect.TypeOf(dest).Kind() != reflect.Ptr ||
		reflect.ValueOf(dest).IsNil() ||
		reflect.TypeOf(dest).Elem().Kind() != reflect.Struct {
		return ErrDestinationNotPointer
	}

	return d.deserializeStruct(cfg, reflect.ValueOf(dest), nil)
}

func (d *Deserializer) deserializeStruct(cfg *Config, instance reflect.Value, prefix []string) error {
	elem := instance.Elem()

	sm, err := metadataForType(elem.Type())
	if err != nil {
		return err
	}

	for _, meta := range sm.Fields {
		field := elem.Field(meta.FieldIndex)
		if !field.CanSet() {
			continue
		}

		if err := d.deserializeField(cfg, instance, field, meta, prefix); err != nil {
			return fmt.Errorf("failed to deserialize field %s: %w", meta.FieldName, err)
		}
	}

	return nil
}

func (d *Deserializer) deserializeField(
	cfg *Config,
	instance reflect.Value,
	field reflect.Value,
	meta *FieldMetadata,
	prefix []string,
) error {

	path := joinPath(prefix, meta.Path)
	raw := cfg.GetRaw(path)

	decision, err := Decide(meta, raw, instance)
	if err != nil {
		return err
	}

	switch decision.Kind {
	case DecideSkip:
		return nil

	case DecideUseDefault:
		return setFieldValue(field, decision.DefaultValue)

	default:
		if meta.Recurse {
			return d.deserializeStruct(cfg, field.Addr(), path)
		}

		if raw.IsAbsent() {
			if meta.Required {
				return fmt.Errorf("%w: %s", ErrRequiredEntryMissing, pathString(path))
			}
			// No entry, no rule: the zero value stands.
			return nil
		}

		if raw.IsNull() && d.opts.NullClearsFields {
			field.SetZero()
			return nil
		}

		return setFieldValue(field, raw.Get())
	}
}

func joinPath(prefix, path []string) []string {
	if len(prefix) == 0 {
		return path
	}
	joined := make([]string, 0, len(prefix)+len(path))
	joined = append(joined, prefix...)
	joined = append(joined, path...)
	return joined
}

func pathString(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += PathSeparator
		}
		out += p
	}
	return out
}

///////////////////////////////////////////////////////////////////////////////
// Package-level convenience front doors
///////////////////////////////////////////////////////////////////////////////

var _gDeserializer = NewDeserializer(DeserializerOpts{})

// Deserialize populates dest from cfg with the default options.
func Deserialize(cfg *Config, dest any) error {
	return _gDeserializer.Deserialize(cfg, dest)
}

// DeserializeJSON parses a JSON document and populates dest from it.
func DeserializeJSON(data []byte, dest any) error {
	cfg, err := ParseJSONConfig(data)
	if err != nil {
		return err
	}
	return _gDeserializer.Deserialize(cfg, dest)
}

// DeserializeYAML parses a YAML document and populates dest from it.
func DeserializeYAML(data []byte, dest any) error {
	cfg, err := ParseYAMLConfig(data)
	if err != nil {
		return err
	}
	return _gDeserializer.Deserialize(cfg, dest)
}
