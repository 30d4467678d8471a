// Package fields normalizes loosely-typed form values. Multipart clients
// send array and map fields either as native JSON structures, as
// JSON-encoded strings, or (for arrays) as comma-separated text; the
// parsers here fold all three encodings into one normalized shape.
package fields

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseStringList normalizes a value that should be a sequence of strings.
//
// A native sequence is returned as-is. A string is first tried as strict
// JSON: a JSON string-array is accepted, any other valid JSON document is
// rejected, and text that is not JSON at all falls back to comma splitting
// with whitespace trimmed and empty segments dropped. An absent value
// fails when required, otherwise yields nil.
func ParseStringList(value any, field string, required bool) ([]string, error) {
	if value == nil {
		if required {
			return nil, fmt.Errorf("%s is required", field)
		}
		return nil, nil
	}

	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be an array", field)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		if json.Valid([]byte(v)) {
			var parsed []string
			if err := json.Unmarshal([]byte(v), &parsed); err != nil || parsed == nil {
				return nil, fmt.Errorf("%s must be an array", field)
			}
			return parsed, nil
		}
		var out []string
		for _, segment := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(segment); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out, nil
	}

	return nil, fmt.Errorf("%s must be an array", field)
}

// ParseStringMap normalizes a value that should be a string-keyed mapping.
//
// A native map is returned as-is. A string is accepted only when it decodes
// to a JSON object with string values; a JSON array or scalar for this
// field always fails. Absent values follow the same required/optional rule
// as ParseStringList.
func ParseStringMap(value any, field string, required bool) (map[string]string, error) {
	if value == nil {
		if required {
			return nil, fmt.Errorf("%s is required", field)
		}
		return nil, nil
	}

	switch v := value.(type) {
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for key, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be an object/map", field)
			}
			out[key] = s
		}
		return out, nil
	case string:
		var parsed map[string]string
		if err := json.Unmarshal([]byte(v), &parsed); err != nil || parsed == nil {
			return nil, fmt.Errorf("%s must be an object/map", field)
		}
		return parsed, nil
	}

	return nil, fmt.Errorf("%s must be an object/map", field)
}
