package feed

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CoerceString flattens the shapes feed publishers use for nominally-string
// fields (plain string, wrapped {"_": ...} object, JSON-encoded string,
// single-element array) into a display string. Absent values coerce to "".
func CoerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return coerceEncoded(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		return CoerceString(v[0])
	case []string:
		if len(v) == 0 {
			return ""
		}
		return v[0]
	case map[string]any:
		if inner := unwrap(v); inner != "" {
			return inner
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// coerceEncoded unwraps strings that are themselves JSON-encoded wrapper
// objects, a shape some aggregator feeds emit. Anything else passes through
// untouched.
func coerceEncoded(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return s
	}

	var wrapped map[string]any
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil {
		return s
	}
	if inner := unwrap(wrapped); inner != "" {
		return inner
	}
	return s
}

// unwrap pulls the payload out of a wrapper object. "_" is the conventional
// text key of XML-to-JSON conversions; the rest are common variants.
func unwrap(m map[string]any) string {
	for _, key := range []string{"_", "name", "text", "value"} {
		inner, ok := m[key]
		if !ok {
			continue
		}
		switch s := inner.(type) {
		case string:
			return s
		default:
			if s := CoerceString(inner); s != "" {
				return s
			}
		}
	}
	return ""
}
