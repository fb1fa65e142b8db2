package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/andyleap/mockapi/internal/models"
)

// Predicate reports whether a record passes one filter.
type Predicate func(models.Record) bool

// BuildPredicates returns the predicates q implies for profile p, cheapest
// first: boolean and exact matches, then ranges and dates, search last.
func BuildPredicates(q Query, p Profile) []Predicate {
	var preds []Predicate

	if p.Active && q.Active != nil {
		want := *q.Active
		preds = append(preds, func(r models.Record) bool {
			v, ok := r["active"].(bool)
			return ok && v == want
		})
	}

	for _, f := range p.Exact {
		if want := q.Exact(f.Param); want != "" {
			preds = append(preds, exactMatch(f.Path, want))
		}
	}

	if p.ItemsPath != "" && q.ProductID != "" {
		preds = append(preds, itemsContain(p.ItemsPath, q.ProductID))
	}

	if p.Tags && len(q.Tags) > 0 {
		preds = append(preds, tagsIntersect(q.Tags))
	}

	for _, f := range p.Ranges {
		lo, hi := q.Range(f.Param)
		if lo != nil || hi != nil {
			preds = append(preds, numberBetween(f.Path, lo, hi))
		}
	}

	if p.Dates {
		if q.CreatedAfter != nil || q.CreatedBefore != nil {
			preds = append(preds, timeBetween(models.FieldCreatedAt, q.CreatedAfter, q.CreatedBefore))
		}
		if q.UpdatedAfter != nil || q.UpdatedBefore != nil {
			preds = append(preds, timeBetween(models.FieldUpdatedAt, q.UpdatedAfter, q.UpdatedBefore))
		}
	}

	if q.Search != "" && len(p.SearchFields) > 0 {
		preds = append(preds, searchMatch(p.SearchFields, q.Search))
	}

	return preds
}

// Filter returns the records passing every predicate, in their original order.
func Filter(records []models.Record, preds []Predicate) []models.Record {
	out := make([]models.Record, 0, len(records))
next:
	for _, r := range records {
		for _, pred := range preds {
			if !pred(r) {
				continue next
			}
		}
		out = append(out, r)
	}
	return out
}

func exactMatch(path, want string) Predicate {
	return func(r models.Record) bool {
		v, _ := Resolve(r, path)
		s, ok := v.(string)
		return ok && strings.EqualFold(s, want)
	}
}

func itemsContain(path, productID string) Predicate {
	return func(r models.Record) bool {
		v, _ := Resolve(r, path)
		items, _ := v.([]any)
		for _, item := range items {
			id, _ := Resolve(item, "productId")
			if s, ok := id.(string); ok && strings.EqualFold(s, productID) {
				return true
			}
		}
		return false
	}
}

func tagsIntersect(want []string) Predicate {
	return func(r models.Record) bool {
		tags, _ := r["tags"].([]any)
		for _, t := range tags {
			if s, ok := t.(string); ok && slices.Contains(want, strings.ToLower(strings.TrimSpace(s))) {
				return true
			}
		}
		return false
	}
}

func numberBetween(path string, lo, hi *float64) Predicate {
	return func(r models.Record) bool {
		v, _ := Resolve(r, path)
		n, ok := number(v)
		if !ok {
			return false
		}
		if lo != nil && n < *lo {
			return false
		}
		if hi != nil && n > *hi {
			return false
		}
		return true
	}
}

func timeBetween(path string, after, before *time.Time) Predicate {
	return func(r models.Record) bool {
		v, _ := Resolve(r, path)
		s, ok := v.(string)
		if !ok {
			return false
		}
		t, ok := ParseTime(s)
		if !ok {
			return false
		}
		if after != nil && t.Before(*after) {
			return false
		}
		if before != nil && t.After(*before) {
			return false
		}
		return true
	}
}

func searchMatch(fields []string, term string) Predicate {
	term = strings.ToLower(term)
	return func(r models.Record) bool {
		var parts []string
		for _, f := range fields {
			v, ok := Resolve(r, f)
			if !ok {
				continue
			}
			parts = appendSearchable(parts, v)
		}
		return strings.Contains(strings.ToLower(strings.Join(parts, " ")), term)
	}
}

func appendSearchable(parts []string, v any) []string {
	switch t := v.(type) {
	case nil:
		return parts
	case string:
		return append(parts, t)
	case []any:
		for _, e := range t {
			parts = appendSearchable(parts, e)
		}
		return parts
	case map[string]any:
		return parts
	default:
		return append(parts, fmt.Sprint(t))
	}
}
