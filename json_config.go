package nightconfig

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSONConfig   = errors.New("config data is not valid JSON")
	ErrConfigRootNotObject = errors.New("config root must be an object")
)

// ParseJSONConfig builds a Config tree from a JSON document.
//
// gjson keeps explicit nulls as a distinct result type, so a
// `"key": null` entry survives as an explicit-null tree entry rather
// than collapsing into "missing".
func ParseJSONConfig(data []byte) (*Config, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSONConfig
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: got %s", ErrConfigRootNotObject, root.Type)
	}

	return &Config{root: jsonObjectToTable(root)}, nil
}

// ParseJSONConfigString is ParseJSONConfig for string input.
func ParseJSONConfigString(data string) (*Config, error) {
	return ParseJSONConfig([]byte(data))
}

func jsonObjectToTable(obj gjson.Result) map[string]any {
	table := make(map[string]any)
	obj.ForEach(func(key, value gjson.Result) bool {
		table[key.String()] = jsonToValue(value)
		return true
	})
	return table
}

func jsonToValue(r gjson.Result) any {
	switch {
	case r.Type == gjson.Null:
		return nil
	case r.IsObject():
		return jsonObjectToTable(r)
	case r.IsArray():
		elems := r.Array()
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = jsonToValue(e)
		}
		return out
	}

	switch r.Type {
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		// Integral literals stay integral so int fields convert
		// without a float round trip. The range check must come
		// first: int64(f) is only defined for in-range floats, and
		// float64(MaxInt64) rounds up to 2^63 so the upper bound is
		// strict.
		if f := r.Float(); f >= math.MinInt64 && f < math.MaxInt64 && f == float64(int64(f)) {
			return r.Int()
		}
		return r.Float()
	default:
		return r.String()
	}
}
