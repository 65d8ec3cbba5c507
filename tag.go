package nightconfig

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Base error types for tag decoding errors
var (
	ErrUnknownSkipCondition     = errors.New("unknown skip condition name")
	ErrInvalidCustomCheckFormat = errors.New("invalid custom check format")
	ErrEmptyCustomCheck         = errors.New("custom check member name cannot be empty")
	ErrUnknownCheckerType       = errors.New("custom check names an unregistered checker type")
	ErrUnknownFieldModifier     = errors.New("unknown config tag modifier")
	ErrEmptyConfigKey           = errors.New("config tag key cannot be empty")
)

// This file decodes the declarative annotation surface of the
// package, carried as struct tags:
//
//	Name    string   `config:"name" skipif:"missing,null"`
//	Servers []string `config:"servers" skipif:"empty"`
//	Port    int      `config:"port" default:"8080"`
//	Token   string   `config:"token" skipif:"custom:'SkipToken'"`
//	ID      int      `config:"id" skipif:"custom:'IDChecker#SkipID'"`
//
// Tag grammar:
//
// tag_config:
//     config:"<key>[,<modifier>]^*"        // key "-" excludes the field
// modifier:
//     required
//
// tag_skipif:
//     skipif:"<group>[;<group>]^*"         // groups merge in order
// group:
//     <condition>[,<condition>]^*
// condition:
//     missing | null | empty | custom:'<check>'
// check:
//     <member> | <checker_type>#<member>   // checker_type must be registered
//
// tag_default:
//     default:"<literal>"                  // JSON literal, or verbatim string

// decodeConfigTag extracts the config key and modifiers for a field.
// A missing config tag defaults the key to the lowercased field name.
func decodeConfigTag(field reflect.StructField) (path []string, required bool, ignore bool, err error) {
	tag, ok := field.Tag.Lookup(ConfigTagPrefix)
	if !ok || tag == "" {
		return []string{strings.ToLower(field.Name)}, false, false, nil
	}

	parts := strings.Split(tag, TagListDelimiter)
	key := strings.TrimSpace(parts[0])
	if key == ConfigTagIgnoreField {
		return nil, false, true, nil
	}
	if key == "" {
		return nil, false, false, fmt.Errorf("%w: field %s", ErrEmptyConfigKey, field.Name)
	}

	for _, modifier := range parts[1:] {
		switch strings.TrimSpace(modifier) {
		case RequiredFieldModifier:
			required = true
		default:
			return nil, false, false, fmt.Errorf("%w: %q on field %s", ErrUnknownFieldModifier, modifier, field.Name)
		}
	}

	return strings.Split(key, PathSeparator), required, false, nil
}

// decodeSkipTag parses a skipif tag into the flattened, ordered
// condition sequence. Semicolons separate repeated condition groups;
// the groups are merged in declaration order.
func decodeSkipTag(tag string, fieldName string) ([]SkipCondition, error) {
	if strings.TrimSpace(tag) == "" {
		return nil, nil
	}

	var groups [][]SkipCondition
	for _, group := range strings.Split(tag, TagGroupDelimiter) {
		conds, err := decodeConditionGroup(group, fieldName)
		if err != nil {
			return nil, err
		}
		groups = append(groups, conds)
	}

	return MergeConditionGroups(groups...), nil
}

func decodeConditionGroup(group string, fieldName string) ([]SkipCondition, error) {
	var conds []SkipCondition

	for _, item := range strings.Split(group, TagListDelimiter) {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		switch {
		case item == MissingConditionName:
			conds = append(conds, SkipCondition{Kind: ConditionMissing})
		case item == NullConditionName:
			conds = append(conds, SkipCondition{Kind: ConditionNull})
		case item == EmptyConditionName:
			conds = append(conds, SkipCondition{Kind: ConditionEmpty})
		case strings.HasPrefix(item, CustomConditionName):
			cond, err := decodeCustomCondition(item, fieldName)
			if err != nil {
				return nil, err
			}
			conds = append(conds, cond)
		default:
			return nil, fmt.Errorf("%w: %q on field %s", ErrUnknownSkipCondition, item, fieldName)
		}
	}

	return conds, nil
}

// decodeCustomCondition parses custom:'Member' and
// custom:'Type#Member' items. The Type form is looked up in the
// checker registry, which is the only place a tag string can be tied
// back to a Go type.
func decodeCustomCondition(item string, fieldName string) (SkipCondition, error) {
	rest, found := strings.CutPrefix(item, CustomConditionName+KeyValueTagDelimiter)
	if !found {
		return SkipCondition{}, fmt.Errorf("%w: %q on field %s", ErrInvalidCustomCheckFormat, item, fieldName)
	}

	check := trimDelimiter(strings.TrimSpace(rest), SubTagScopeDelimiter)
	if check == "" {
		return SkipCondition{}, fmt.Errorf("%w: field %s", ErrEmptyCustomCheck, fieldName)
	}

	checkerName, member, hasType := strings.Cut(check, CustomCheckTypeDelimiter)
	if !hasType {
		return SkipCondition{Kind: ConditionCustom, CustomCheck: check}, nil
	}

	if checkerName == "" || member == "" {
		return SkipCondition{}, fmt.Errorf("%w: %q on field %s", ErrInvalidCustomCheckFormat, item, fieldName)
	}

	declaring, ok := CheckerTypeNamed(checkerName)
	if !ok {
		return SkipCondition{}, fmt.Errorf("%w: %q on field %s", ErrUnknownCheckerType, checkerName, fieldName)
	}

	return SkipCondition{Kind: ConditionCustom, CustomType: declaring, CustomCheck: member}, nil
}

// decodeDefaultTag turns a default tag into its rule, or nil when the
// field declares no default.
func decodeDefaultTag(field reflect.StructField) DefaultRule {
	literal, ok := field.Tag.Lookup(DefaultTagPrefix)
	if !ok {
		return nil
	}
	return newLiteralDefaultRule(literal)
}

func trimDelimiter(value string, delim byte) string {
	if len(value) > 0 && value[0] == delim {
		value = value[1:]
	}
	if len(value) > 0 && value[len(value)-1] == delim {
		value = value[:len(value)-1]
	}
	return value
}
