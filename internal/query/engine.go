package query

import (
	"strings"
	"time"

	"github.com/andyleap/mockapi/internal/models"
)

// Page is a list response.
type Page struct {
	Data    []models.Record `json:"data"`
	Meta    Meta            `json:"meta"`
	Filters map[string]any  `json:"filters,omitempty"`
}

// Run filters, sorts, paginates and projects records for one list request.
func Run(records []models.Record, q Query, p Profile) Page {
	matched := Filter(records, BuildPredicates(q, p))
	sorted := Sort(matched, q.SortBy, q.SortOrder)
	data, meta := Paginate(sorted, q.Page, q.Limit)

	if len(q.Fields) > 0 {
		projected := make([]models.Record, len(data))
		for i, r := range data {
			projected[i] = Project(r, q.Fields)
		}
		data = projected
	}

	return Page{
		Data:    data,
		Meta:    meta,
		Filters: AppliedFilters(q, p),
	}
}

// AppliedFilters echoes the filters from q that profile p honours, or nil
// when none apply.
func AppliedFilters(q Query, p Profile) map[string]any {
	out := map[string]any{}

	if q.Search != "" && len(p.SearchFields) > 0 {
		out["search"] = q.Search
	}
	if p.Active && q.Active != nil {
		out["active"] = *q.Active
	}
	for _, f := range p.Exact {
		if v := q.Exact(f.Param); v != "" {
			out[f.Param] = v
		}
	}
	if p.ItemsPath != "" && q.ProductID != "" {
		out["productId"] = q.ProductID
	}
	if p.Tags && len(q.Tags) > 0 {
		out["tags"] = q.Tags
	}
	for _, f := range p.Ranges {
		lo, hi := q.Range(f.Param)
		if lo != nil {
			out["min"+titleCase(f.Param)] = *lo
		}
		if hi != nil {
			out["max"+titleCase(f.Param)] = *hi
		}
	}
	if p.Dates {
		dates := []struct {
			name string
			t    *time.Time
		}{
			{"createdAfter", q.CreatedAfter},
			{"createdBefore", q.CreatedBefore},
			{"updatedAfter", q.UpdatedAfter},
			{"updatedBefore", q.UpdatedBefore},
		}
		for _, d := range dates {
			if d.t != nil {
				out[d.name] = models.Timestamp(*d.t)
			}
		}
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
