package nightconfig

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	ErrCheckerAlreadyRegistered = errors.New("a checker instance for this type is already registered")
	ErrCheckerNameConflict      = errors.New("a checker type with this bare name is already registered")
	ErrCheckerNotStruct         = errors.New("checker instance must be a struct or pointer to struct")
	ErrNilChecker               = errors.New("checker instance cannot be nil")
)

// CheckerRegistry holds shared checker instances for custom skip
// predicates declared on a type other than the one being
// deserialized (the custom='Type#Member' form).
//
// Where the original annotation surface reaches for static members,
// Go code registers one instance per checker type; predicate fields
// and methods are then resolved against that instance. Types with
// only value-receiver methods work without registration, resolved
// against their zero value.
//
// Register checkers before the first deserialization that uses them;
// resolved handles are cached per (type, member).
type CheckerRegistry struct {
	mu    sync.RWMutex
	m     map[reflect.Type]reflect.Value // checker struct type -> instance
	names map[string]reflect.Type        // bare type name -> checker struct type
}

type CheckerRegistryOpts struct {
	Checkers []any
}

func NewCheckerRegistry(opts CheckerRegistryOpts) (*CheckerRegistry, error) {
	reg := &CheckerRegistry{
		m:     make(map[reflect.Type]reflect.Value),
		names: make(map[string]reflect.Type),
	}

	for _, checker := range opts.Checkers {
		if err := reg.Register(checker); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register stores checker as the shared instance for its type.
// checker may be a struct value or a pointer to struct; either way it
// is keyed by the struct type named in custom='Type#Member' specs.
func (reg *CheckerRegistry) Register(checker any) error {
	if checker == nil {
		return ErrNilChecker
	}

	v := reflect.ValueOf(checker)
	t := v.Type()
	if t.Kind() == reflect.Ptr {
		if v.IsNil() {
			return ErrNilChecker
		}
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T", ErrCheckerNotStruct, checker)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.m[t]; exists {
		return fmt.Errorf("%w: %s", ErrCheckerAlreadyRegistered, t)
	}
	// Tags name checkers by bare type name, so two registered types
	// sharing one would make TypeNamed a coin flip.
	if prior, exists := reg.names[t.Name()]; exists {
		return fmt.Errorf("%w: %s conflicts with %s", ErrCheckerNameConflict, t, prior)
	}

	reg.m[t] = v
	reg.names[t.Name()] = t
	return nil
}

// For returns the registered instance for a checker struct type.
func (reg *CheckerRegistry) For(t reflect.Type) (reflect.Value, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	v, ok := reg.m[t]
	return v, ok
}

// TypeNamed finds a registered checker type by its bare name, for
// resolving the Type part of a custom='Type#Member' tag.
func (reg *CheckerRegistry) TypeNamed(name string) (reflect.Type, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	t, ok := reg.names[name]
	return t, ok
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gCheckerRegistry *CheckerRegistry = nil

func init() {
	var err error
	_gCheckerRegistry, err = NewCheckerRegistry(CheckerRegistryOpts{})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize global CheckerRegistry: %v", err))
	}
}

// Package-level functions that delegate to the global CheckerRegistry instance

func RegisterChecker(checker any) error {
	return _gCheckerRegistry.Register(checker)
}

func CheckerFor(t reflect.Type) (reflect.Value, bool) {
	return _gCheckerRegistry.For(t)
}

func CheckerTypeNamed(name string) (reflect.Type, bool) {
	return _gCheckerRegistry.TypeNamed(name)
}
