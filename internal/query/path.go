package query

import (
	"strings"

	"github.com/andyleap/mockapi/internal/models"
)

// Resolve walks a dotted path ("address.city") through nested objects.
// The second result is false when any segment is absent or a non-object is
// reached before the last segment. A present JSON null resolves to (nil, true).
func Resolve(v any, path string) (any, bool) {
	if path == "" {
		return nil, false
	}

	cur := v
	for _, key := range strings.Split(path, ".") {
		var obj map[string]any
		switch t := cur.(type) {
		case models.Record:
			obj = t
		case map[string]any:
			obj = t
		default:
			return nil, false
		}

		next, ok := obj[key]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// number reports v as a float64 when it holds a JSON number.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
