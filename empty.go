package nightconfig

import "reflect"

// IsEmptyValue reports whether a raw config value is logically empty.
//
// Classification is tried in order, first match wins:
//  1. absent or null raw values are empty
//  2. character-sequence-like values ([]byte, []rune, string kinds)
//     are empty iff their length is zero
//  3. collections (slice, array, map, chan) are empty iff their
//     element count is zero
//  4. as a last resort, a niladic IsEmpty() bool method on the value
//     is invoked dynamically and its result used
//  5. anything else is never considered empty
//
// The dynamic step is best-effort only: a panicking or wrongly shaped
// IsEmpty never aborts deserialization, it falls through to "not
// empty".
func IsEmptyValue(rv RawValue) bool {
	if rv.IsAbsent() || rv.IsNull() {
		return true
	}
	return isEmptyConcrete(rv.Get())
}

func isEmptyConcrete(v any) bool {
	if v == nil {
		return true
	}

	rval := reflect.ValueOf(v)
	switch rval.Kind() {
	case reflect.String:
		return rval.Len() == 0
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return rval.Len() == 0
	case reflect.Ptr, reflect.Interface:
		if rval.IsNil() {
			return true
		}
		return isEmptyConcrete(rval.Elem().Interface())
	}

	return isEmptyDynamic(rval)
}

// isEmptyDynamic probes for the conventional IsEmpty() bool query.
// Unknown types without one are never empty.
func isEmptyDynamic(rval reflect.Value) (empty bool) {
	defer func() {
		if recover() != nil {
			empty = false
		}
	}()

	method := rval.MethodByName(emptinessQueryMethod)
	if !method.IsValid() {
		return false
	}

	mtype := method.Type()
	if mtype.NumIn() != 0 || mtype.NumOut() != 1 || mtype.Out(0).Kind() != reflect.Bool {
		return false
	}

	return method.Call(nil)[0].Bool()
}
