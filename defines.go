package nightconfig

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// constants for the struct tags consumed by the deserializer
const (
	ConfigTagPrefix  = "config"
	SkipIfTagPrefix  = "skipif"
	DefaultTagPrefix = "default"

	ConfigTagIgnoreField = "-"

	TagGroupDelimiter    = ";"
	TagListDelimiter     = ","
	KeyValueTagDelimiter = ":"
	SubTagScopeDelimiter = byte('\'')
)

// constants for the predefined skip-condition names in skipif tags
const (
	MissingConditionName = "missing"
	NullConditionName    = "null"
	EmptyConditionName   = "empty"
	CustomConditionName  = "custom"
)

// constants for field modifiers in config tags
const (
	RequiredFieldModifier = "required"
)

// delimiter between a checker type name and its member in a
// custom:'Type#Member' tag value
const CustomCheckTypeDelimiter = "#"

// name of the conventional emptiness query probed by the classifier
const emptinessQueryMethod = "IsEmpty"

// config path separator for the dotted helper forms
const PathSeparator = "."

// reflect.TypeOf constants for type checks
var (
	PredicateType = reflect.TypeOf(Predicate(nil))
	AnyType       = reflect.TypeOf((*any)(nil)).Elem()
	BoolType      = reflect.TypeOf(true)
	TimeType      = reflect.TypeOf(time.Time{})
	UUIDType      = reflect.TypeOf(uuid.UUID{})
)
