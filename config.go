package nightconfig

import (
	"strings"
)

// Config is an immutable nested key->value tree extracted from a
// configuration source. Values are plain Go data: map[string]any for
// tables, []any for arrays, scalars for everything else, and nil for
// an explicit null entry.
//
// Entries that exist with a null value and entries that do not exist
// at all are kept distinct; GetRaw surfaces the difference through
// the RawValue tri-state.
type Config struct {
	root map[string]any
}

// ConfigFromMap builds a Config from a nested map. The map is deep
// copied so later mutation of the argument cannot leak into the tree.
// Nil map values become explicit-null entries.
func ConfigFromMap(m map[string]any) *Config {
	return &Config{root: deepCopyTable(m)}
}

func deepCopyTable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return deepCopyTable(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}

// GetRaw looks up the raw value at path.
//
// It returns Absent when any path component has no entry (or an
// intermediate component is not a table), Null when the final entry
// exists with a nil value, and Present otherwise. An empty path is
// Absent.
func (c *Config) GetRaw(path []string) RawValue {
	if c == nil || len(path) == 0 {
		return Absent()
	}

	table := c.root
	for _, key := range path[:len(path)-1] {
		next, ok := table[key]
		if !ok {
			return Absent()
		}
		sub, ok := next.(map[string]any)
		if !ok {
			return Absent()
		}
		table = sub
	}

	v, ok := table[path[len(path)-1]]
	if !ok {
		return Absent()
	}
	if v == nil {
		return Null()
	}
	return Present(v)
}

// GetRawString is GetRaw with a dot-separated path.
func (c *Config) GetRawString(dotted string) RawValue {
	if dotted == "" {
		return Absent()
	}
	return c.GetRaw(strings.Split(dotted, PathSeparator))
}

// Contains reports whether an entry (null or not) exists at path.
func (c *Config) Contains(path []string) bool {
	return !c.GetRaw(path).IsAbsent()
}

// Len returns the number of top-level entries.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.root)
}
