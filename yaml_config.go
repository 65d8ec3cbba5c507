package nightconfig

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAMLConfig builds a Config tree from a YAML document.
//
// yaml.v3 decodes `key: null` (and bare `key:`) into a present map
// entry with a nil value, which maps onto the explicit-null state of
// the tree directly.
func ParseYAMLConfig(data []byte) (*Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("error unmarshaling YAML config: %w", err)
	}

	return &Config{root: normalizeYAMLTable(m)}, nil
}

func normalizeYAMLTable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeYAMLValue(v)
	}
	return out
}

func normalizeYAMLValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalizeYAMLTable(t)
	case map[any]any:
		// Non-string keys are stringified; config paths are strings.
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalizeYAMLValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalizeYAMLValue(e)
		}
		return out
	default:
		return v
	}
}
