package nightconfig

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Predicate is the shape of a custom skip check: it receives the raw
// config value (nil for absent or null entries) and reports whether
// the field should be skipped.
type Predicate func(v any) bool

// Base error kinds for custom predicate resolution. A misdeclared
// predicate is a programming error in the annotations, so these are
// returned to the caller rather than swallowed.
var (
	ErrPredicateNotFound    = errors.New("no predicate field or method with this name")
	ErrPredicateAmbiguous   = errors.New("both a field and a method with this name exist")
	ErrPredicateBadShape    = errors.New("member does not have the predicate shape func(any) bool")
	ErrPredicateNotStatic   = errors.New("predicate method on a foreign type must not require a pointer receiver")
	ErrPredicateNil         = errors.New("predicate field value is nil")
	ErrPredicateNoInstance  = errors.New("no instance available to resolve an instance-bound predicate")
	ErrPredicateNotStruct   = errors.New("predicate declaring type is not a struct")
	ErrUnknownConditionKind = errors.New("unknown skip-condition kind")
)

// PredicateResolutionError reports a failed custom predicate lookup
// with enough context to pinpoint the offending declaration.
type PredicateResolutionError struct {
	DeclaringType reflect.Type // type searched for the member
	Member        string       // customCheck member name
	Field         string       // annotated field being deserialized
	Kind          error        // one of the ErrPredicate* sentinels
}

func (e *PredicateResolutionError) Error() string {
	return fmt.Sprintf(
		"cannot resolve skip predicate %q on %s for field %s: %v",
		e.Member, typeName(e.DeclaringType), e.Field, e.Kind,
	)
}

func (e *PredicateResolutionError) Unwrap() error {
	return e.Kind
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<current type>"
	}
	return t.String()
}

// PredicateHandle is a resolved, invocable skip test. Downstream code
// calls Test without ever branching on whether the declaration was a
// predicate field or a method, static or instance-bound.
type PredicateHandle struct {
	fn Predicate
}

// Test applies the resolved predicate to a raw config value.
func (h PredicateHandle) Test(v any) bool {
	return h.fn(v)
}

type handleCacheKey struct {
	declaring reflect.Type
	member    string
}

// handleCache holds resolved handles for the foreign-type case only.
// Those are bound to a registered checker instance or a zero value,
// never to the object being deserialized, so they are safe to share
// across instances. Instance-bound handles are re-resolved per object.
var handleCache sync.Map // handleCacheKey -> PredicateHandle

// resolvePredicate produces the PredicateHandle for one
// custom='...' declaration.
//
// declaring is the hinted checker type; nil is the sentinel for "use
// the type of the object currently being deserialized". instance is
// that object (as an addressable struct or a pointer to one); it is
// only consulted for the sentinel case.
//
// The member search requires exactly one match: a field assignable to
// Predicate, or a method taking exactly one any parameter and
// returning bool. Both present is ambiguous, neither is not-found,
// and a wrongly shaped match is its own error. Members must be
// exported; unexported ones are invisible to the resolver.
func resolvePredicate(
	declaring reflect.Type,
	member string,
	instance reflect.Value,
	fieldName string,
) (PredicateHandle, error) {

	if declaring == nil {
		return resolveOnInstance(member, instance, fieldName)
	}
	return resolveOnForeignType(declaring, member, fieldName)
}

// resolveOnInstance handles the sentinel "use current type" case: the
// predicate lives on the object being deserialized and may be bound
// to it. The result must not be cached across instances.
func resolveOnInstance(member string, instance reflect.Value, fieldName string) (PredicateHandle, error) {
	if !instance.IsValid() {
		return PredicateHandle{}, &PredicateResolutionError{
			Member: member, Field: fieldName, Kind: ErrPredicateNoInstance,
		}
	}

	// Methods with pointer receivers live on the pointer's method
	// set, so keep the pointer view when we have one.
	recv := instance
	elem := instance
	if elem.Kind() == reflect.Ptr {
		if elem.IsNil() {
			return PredicateHandle{}, &PredicateResolutionError{
				Member: member, Field: fieldName, Kind: ErrPredicateNoInstance,
			}
		}
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: elem.Type(), Member: member, Field: fieldName,
			Kind: ErrPredicateNotStruct,
		}
	}

	declaring := elem.Type()
	structField, fieldExists := exportedFieldByName(declaring, member)
	method := recv.MethodByName(member)
	methodExists := method.IsValid()

	switch {
	case fieldExists && methodExists:
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateAmbiguous,
		}
	case fieldExists:
		return bindPredicateField(structField, elem.FieldByIndex(structField.Index), declaring, member, fieldName)
	case methodExists:
		return bindPredicateMethod(method, declaring, member, fieldName)
	default:
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateNotFound,
		}
	}
}

// resolveOnForeignType handles an explicit declaring type. The Go
// analog of Java's "must be static" rule: the predicate is bound to a
// shared checker instance from the registry when one is registered,
// or to the type's zero value, never to the object being
// deserialized. Pointer-receiver-only methods are rejected because
// they advertise receiver mutation.
func resolveOnForeignType(declaring reflect.Type, member string, fieldName string) (PredicateHandle, error) {
	key := handleCacheKey{declaring: declaring, member: member}
	if cached, ok := handleCache.Load(key); ok {
		return cached.(PredicateHandle), nil
	}

	if declaring.Kind() != reflect.Struct {
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateNotStruct,
		}
	}

	// A registered checker instance stands in for Java's static
	// members: one shared value, independent of the object being
	// deserialized.
	recv, registered := CheckerFor(declaring)
	if !registered {
		recv = reflect.New(declaring).Elem()
	}

	structField, fieldExists := exportedFieldByName(declaring, member)
	_, valueMethodExists := declaring.MethodByName(member)
	_, ptrMethodExists := reflect.PointerTo(declaring).MethodByName(member)

	var handle PredicateHandle
	var err error
	switch {
	case fieldExists && ptrMethodExists:
		err = &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateAmbiguous,
		}
	case fieldExists:
		handle, err = bindPredicateField(structField, fieldValueOf(recv, structField), declaring, member, fieldName)
	case valueMethodExists:
		handle, err = bindPredicateMethod(recv.MethodByName(member), declaring, member, fieldName)
	case ptrMethodExists:
		if registered && recv.Kind() == reflect.Ptr {
			handle, err = bindPredicateMethod(recv.MethodByName(member), declaring, member, fieldName)
		} else {
			err = &PredicateResolutionError{
				DeclaringType: declaring, Member: member, Field: fieldName,
				Kind: ErrPredicateNotStatic,
			}
		}
	default:
		err = &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateNotFound,
		}
	}

	if err != nil {
		return PredicateHandle{}, err
	}

	handleCache.Store(key, handle)
	return handle, nil
}

func bindPredicateField(
	structField reflect.StructField,
	value reflect.Value,
	declaring reflect.Type,
	member, fieldName string,
) (PredicateHandle, error) {

	if !structField.Type.AssignableTo(PredicateType) {
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateBadShape,
		}
	}
	if !value.IsValid() || value.IsNil() {
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateNil,
		}
	}

	fn := value.Convert(PredicateType).Interface().(Predicate)
	return PredicateHandle{fn: fn}, nil
}

func bindPredicateMethod(
	method reflect.Value,
	declaring reflect.Type,
	member, fieldName string,
) (PredicateHandle, error) {

	mtype := method.Type()
	if mtype.NumIn() != 1 || mtype.In(0) != AnyType ||
		mtype.NumOut() != 1 || mtype.Out(0) != BoolType {
		return PredicateHandle{}, &PredicateResolutionError{
			DeclaringType: declaring, Member: member, Field: fieldName,
			Kind: ErrPredicateBadShape,
		}
	}

	fn := func(v any) bool {
		arg := reflect.New(AnyType).Elem()
		if v != nil {
			arg.Set(reflect.ValueOf(v))
		}
		return method.Call([]reflect.Value{arg})[0].Bool()
	}
	return PredicateHandle{fn: fn}, nil
}

// exportedFieldByName looks up a struct field, treating unexported
// matches as not found. reflect.Type.FieldByName finds unexported
// fields too, but their values cannot be read through reflection, so
// letting one through would panic later instead of resolving.
func exportedFieldByName(t reflect.Type, name string) (reflect.StructField, bool) {
	structField, ok := t.FieldByName(name)
	if !ok || structField.PkgPath != "" {
		return reflect.StructField{}, false
	}
	return structField, true
}

// fieldValueOf reads a struct field off a receiver that may be a
// pointer to the declaring struct.
func fieldValueOf(recv reflect.Value, structField reflect.StructField) reflect.Value {
	if recv.Kind() == reflect.Ptr {
		recv = recv.Elem()
	}
	return recv.FieldByIndex(structField.Index)
}
