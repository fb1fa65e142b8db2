package query

import (
	"cmp"
	"slices"

	"github.com/andyleap/mockapi/internal/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type sortClass int

const (
	classNumber sortClass = iota
	classString
	classMissing
)

func classify(v any) (sortClass, float64, string) {
	switch t := v.(type) {
	case string:
		return classString, 0, t
	case bool:
		if t {
			return classNumber, 1, ""
		}
		return classNumber, 0, ""
	default:
		if n, ok := number(v); ok {
			return classNumber, n, ""
		}
		return classMissing, 0, ""
	}
}

// Sort returns a copy of records stably ordered by the value at sortBy.
// Records whose value is missing, null, an object or an array go last in
// both directions. Strings use English collation, booleans compare as 0/1,
// and numbers sort before strings. An empty sortBy keeps the input order.
func Sort(records []models.Record, sortBy, order string) []models.Record {
	out := append([]models.Record(nil), records...)
	if sortBy == "" {
		return out
	}

	// Collators are not safe for concurrent use.
	col := collate.New(language.English)
	desc := order == SortDesc

	slices.SortStableFunc(out, func(a, b models.Record) int {
		va, _ := Resolve(a, sortBy)
		vb, _ := Resolve(b, sortBy)
		ca, na, sa := classify(va)
		cb, nb, sb := classify(vb)

		switch {
		case ca == classMissing && cb == classMissing:
			return 0
		case ca == classMissing:
			return 1
		case cb == classMissing:
			return -1
		}

		var c int
		switch {
		case ca != cb:
			c = cmp.Compare(ca, cb)
		case ca == classString:
			c = col.CompareString(sa, sb)
		default:
			c = cmp.Compare(na, nb)
		}
		if desc {
			return -c
		}
		return c
	})
	return out
}
