package nightconfig

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// setFieldValue assigns a raw config value to a destination field
// with type conversion.
//
// Currently supports:
//   - direct assignment when the raw type already fits
//   - numeric widening/narrowing with overflow checking
//   - string conversions (int, uint, float, bool, complex)
//   - string to uuid.UUID and time.Time
//   - []any into typed slices, element by element
//   - map[string]any into typed maps
//   - TextUnmarshaler support for custom types
//   - interface{} fields take any value
func setFieldValue(field reflect.Value, value any) error {
	if value == nil {
		return handleEmptyValue(field)
	}

	// Check for TextUnmarshaler interface when the raw value is text
	if text, ok := value.(string); ok {
		if field.CanAddr() {
			if unmarshaler, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
				return unmarshaler.UnmarshalText([]byte(text))
			}
		}
	}

	rv := reflect.ValueOf(value)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		return setStringValue(field, value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setIntValue(field, value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return setUintValue(field, value)
	case reflect.Float32, reflect.Float64:
		return setFloatValue(field, value)
	case reflect.Bool:
		return setBoolValue(field, value)
	case reflect.Slice:
		return setSliceValue(field, value)
	case reflect.Array:
		return setArrayValue(field, value)
	case reflect.Map:
		return setMapValue(field, value)
	case reflect.Struct:
		return setStructValue(field, value)
	case reflect.Ptr:
		return setPointerValue(field, value)
	case reflect.Interface:
		return setInterfaceValue(field, value)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Type())
	}
}

// handleEmptyValue handles explicit-null values for different field types
func handleEmptyValue(field reflect.Value) error {
	switch field.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Ptr, reflect.Interface:
		field.SetZero()
		return nil
	default:
		return fmt.Errorf("cannot set null value for field type: %s", field.Type())
	}
}

func setStringValue(field reflect.Value, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("cannot convert %T to string", value)
	}
	field.SetString(s)
	return nil
}

// setIntValue sets integer field values with overflow checking
func setIntValue(field reflect.Value, value any) error {
	var intValue int64

	switch v := value.(type) {
	case int64:
		intValue = v
	case int:
		intValue = int64(v)
	case uint64:
		if v > 1<<63-1 {
			return fmt.Errorf("value %d overflows int64", v)
		}
		intValue = int64(v)
	case float64:
		if v != float64(int64(v)) {
			return fmt.Errorf("value %v is not an integer", v)
		}
		intValue = int64(v)
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting value to int: %w", err)
		}
		intValue = parsed
	default:
		return fmt.Errorf("cannot convert %T to int", value)
	}

	if field.OverflowInt(intValue) {
		return fmt.Errorf("value %d overflows %s", intValue, field.Type())
	}

	field.SetInt(intValue)
	return nil
}

// setUintValue sets unsigned integer field values with overflow checking
func setUintValue(field reflect.Value, value any) error {
	var uintValue uint64

	switch v := value.(type) {
	case uint64:
		uintValue = v
	case int64:
		if v < 0 {
			return fmt.Errorf("negative value %d for unsigned field", v)
		}
		uintValue = uint64(v)
	case int:
		if v < 0 {
			return fmt.Errorf("negative value %d for unsigned field", v)
		}
		uintValue = uint64(v)
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return fmt.Errorf("value %v is not an unsigned integer", v)
		}
		uintValue = uint64(v)
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("error converting value to uint: %w", err)
		}
		uintValue = parsed
	default:
		return fmt.Errorf("cannot convert %T to uint", value)
	}

	if field.OverflowUint(uintValue) {
		return fmt.Errorf("value %d overflows %s", uintValue, field.Type())
	}

	field.SetUint(uintValue)
	return nil
}

// setFloatValue sets float field values with overflow checking
func setFloatValue(field reflect.Value, value any) error {
	var floatValue float64

	switch v := value.(type) {
	case float64:
		floatValue = v
	case float32:
		floatValue = float64(v)
	case int64:
		floatValue = float64(v)
	case int:
		floatValue = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("error converting value to float: %w", err)
		}
		floatValue = parsed
	default:
		return fmt.Errorf("cannot convert %T to float", value)
	}

	if field.OverflowFloat(floatValue) {
		return fmt.Errorf("value %f overflows %s", floatValue, field.Type())
	}

	field.SetFloat(floatValue)
	return nil
}

// setBoolValue sets boolean field values with better validation
//
// Many common boolean representations are supported for string raw
// values:
//   - "true", "1", "yes", "on" (case insensitive)
//   - "false", "0", "no", "off" (case insensitive)
//   - Standard boolean parsing using strconv.ParseBool
func setBoolValue(field reflect.Value, value any) error {
	switch v := value.(type) {
	case bool:
		field.SetBool(v)
		return nil
	case string:
		switch v {
		case "true", "1", "yes", "on", "True", "TRUE", "YES", "ON":
			field.SetBool(true)
			return nil
		case "false", "0", "no", "off", "False", "FALSE", "NO", "OFF":
			field.SetBool(false)
			return nil
		default:
			boolValue, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("error converting value to bool: %w", err)
			}
			field.SetBool(boolValue)
			return nil
		}
	default:
		return fmt.Errorf("cannot convert %T to bool", value)
	}
}

// setSliceValue sets slice field values element by element
func setSliceValue(field reflect.Value, value any) error {
	if s, ok := value.(string); ok && field.Type().Elem().Kind() == reflect.Uint8 {
		field.SetBytes([]byte(s))
		return nil
	}

	elems, ok := value.([]any)
	if !ok {
		return fmt.Errorf("cannot convert %T to %s", value, field.Type())
	}

	out := reflect.MakeSlice(field.Type(), len(elems), len(elems))
	for i, elem := range elems {
		if err := setFieldValue(out.Index(i), elem); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	field.Set(out)
	return nil
}

// setArrayValue sets array field values
func setArrayValue(field reflect.Value, value any) error {
	if field.Type() == UUIDType {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to UUID", value)
		}
		uuidValue, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("error converting value to UUID: %w", err)
		}
		field.Set(reflect.ValueOf(uuidValue))
		return nil
	}

	return fmt.Errorf("unsupported array type: %s", field.Type())
}

// setMapValue sets map field values element by element
func setMapValue(field reflect.Value, value any) error {
	table, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot convert %T to %s", value, field.Type())
	}
	if field.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("unsupported map key type: %s", field.Type().Key())
	}

	out := reflect.MakeMapWithSize(field.Type(), len(table))
	for k, v := range table {
		elem := reflect.New(field.Type().Elem()).Elem()
		if err := setFieldValue(elem, v); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(field.Type().Key()), elem)
	}
	field.Set(out)
	return nil
}

// setStructValue sets struct field values for special types
func setStructValue(field reflect.Value, value any) error {
	fieldType := field.Type()

	// Handle UUID type
	if fieldType == UUIDType {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to UUID", value)
		}
		uuidValue, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("error converting value to UUID: %w", err)
		}
		field.Set(reflect.ValueOf(uuidValue))
		return nil
	}

	// Handle time.Time type
	if fieldType == TimeType {
		if t, ok := value.(time.Time); ok {
			field.Set(reflect.ValueOf(t))
			return nil
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot convert %T to time.Time", value)
		}

		timeValue, err := time.Parse(time.RFC3339, s)
		if err != nil {
			// Try common time formats
			formats := []string{
				time.RFC3339Nano,
				"2006-01-02T15:04:05",
				"2006-01-02 15:04:05",
				"2006-01-02",
				"15:04:05",
			}

			for _, format := range formats {
				if timeValue, err = time.Parse(format, s); err == nil {
					break
				}
			}

			if err != nil {
				return fmt.Errorf("error converting value to time.Time: %w", err)
			}
		}
		field.Set(reflect.ValueOf(timeValue))
		return nil
	}

	return fmt.Errorf("unsupported struct type: %s", fieldType)
}

// setPointerValue allocates and fills the pointee
func setPointerValue(field reflect.Value, value any) error {
	ptr := reflect.New(field.Type().Elem())
	if err := setFieldValue(ptr.Elem(), value); err != nil {
		return err
	}
	field.Set(ptr)
	return nil
}

// setInterfaceValue sets interface{} field values
func setInterfaceValue(field reflect.Value, value any) error {
	if field.NumMethod() != 0 {
		return fmt.Errorf("cannot set value for interface with methods: %s", field.Type())
	}

	field.Set(reflect.ValueOf(value))
	return nil
}

// isSpecialStructType checks if a struct type should be treated as a
// primitive rather than being recursively walked. Special types
// include time.Time, uuid.UUID, etc.
func isSpecialStructType(t reflect.Type) bool {
	specialTypes := []reflect.Type{TimeType, UUIDType}

	for _, specialType := range specialTypes {
		if t == specialType {
			return true
		}
	}
	return false
}
