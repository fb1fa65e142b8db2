package query

import (
	"errors"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/andyleap/mockapi/internal/apierr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query is the validated, typed form of a list request's query string.
// Optional filters are nil or empty when absent.
type Query struct {
	Page      int    `query:"page" validate:"min=1"`
	Limit     int    `query:"limit" validate:"min=1"`
	SortBy    string `query:"sortBy"`
	SortOrder string `query:"sortOrder" validate:"oneof=asc desc"`
	Search    string `query:"search"`

	Category      string `query:"category"`
	Brand         string `query:"brand"`
	Role          string `query:"role"`
	Status        string `query:"status"`
	PaymentMethod string `query:"paymentMethod"`
	Country       string `query:"country"`
	City          string `query:"city"`
	ProductID     string `query:"productId"`

	Active *bool `query:"active"`

	MinPrice  *float64 `query:"minPrice"`
	MaxPrice  *float64 `query:"maxPrice"`
	MinStock  *float64 `query:"minStock"`
	MaxStock  *float64 `query:"maxStock"`
	MinRating *float64 `query:"minRating"`
	MaxRating *float64 `query:"maxRating"`
	MinTotal  *float64 `query:"minTotal"`
	MaxTotal  *float64 `query:"maxTotal"`

	CreatedAfter  *time.Time `query:"createdAfter"`
	CreatedBefore *time.Time `query:"createdBefore"`
	UpdatedAfter  *time.Time `query:"updatedAfter"`
	UpdatedBefore *time.Time `query:"updatedBefore"`

	// Tags are trimmed and lowercased.
	Tags []string `query:"tags"`
	// Fields is the projection list; id is always included in output.
	Fields []string `query:"fields"`
}

// New returns a Query holding only the defaults.
func New() Query {
	return Query{Page: DefaultPage, Limit: DefaultLimit, SortOrder: SortAsc}
}

// Exact returns the value of a string filter by parameter name.
func (q Query) Exact(param string) string {
	switch param {
	case "category":
		return q.Category
	case "brand":
		return q.Brand
	case "role":
		return q.Role
	case "status":
		return q.Status
	case "paymentMethod":
		return q.PaymentMethod
	case "country":
		return q.Country
	case "city":
		return q.City
	case "productId":
		return q.ProductID
	}
	return ""
}

// Range returns the inclusive bounds for a numeric filter ("price", ...).
func (q Query) Range(param string) (lo, hi *float64) {
	switch param {
	case "price":
		return q.MinPrice, q.MaxPrice
	case "stock":
		return q.MinStock, q.MaxStock
	case "rating":
		return q.MinRating, q.MaxRating
	case "total":
		return q.MinTotal, q.MaxTotal
	}
	return nil, nil
}

type setter func(q *Query, raw string) error

func stringParam(field func(q *Query) *string) setter {
	return func(q *Query, raw string) error {
		*field(q) = raw
		return nil
	}
}

func intParam(name string, field func(q *Query) *int) setter {
	return func(q *Query, raw string) error {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if errors.Is(err, strconv.ErrRange) {
			return apierr.BadRequest("%s is out of range", name)
		}
		if err != nil {
			return apierr.BadRequest("%s must be an integer number", name)
		}
		*field(q) = n
		return nil
	}
}

func floatParam(name string, field func(q *Query) **float64) setter {
	return func(q *Query, raw string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return apierr.BadRequest("%s must be a number", name)
		}
		*field(q) = &f
		return nil
	}
}

func dateParam(name string, field func(q *Query) **time.Time) setter {
	return func(q *Query, raw string) error {
		t, ok := ParseTime(raw)
		if !ok {
			return apierr.BadRequest("%s must be a valid ISO 8601 date string", name)
		}
		*field(q) = &t
		return nil
	}
}

func listParam(lower bool, field func(q *Query) *[]string) setter {
	return func(q *Query, raw string) error {
		var out []string
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if lower {
				part = strings.ToLower(part)
			}
			out = append(out, part)
		}
		*field(q) = out
		return nil
	}
}

var params = map[string]setter{
	"page":      intParam("page", func(q *Query) *int { return &q.Page }),
	"limit":     intParam("limit", func(q *Query) *int { return &q.Limit }),
	"sortBy":    stringParam(func(q *Query) *string { return &q.SortBy }),
	"sortOrder": stringParam(func(q *Query) *string { return &q.SortOrder }),
	"search":    stringParam(func(q *Query) *string { return &q.Search }),

	"category":      stringParam(func(q *Query) *string { return &q.Category }),
	"brand":         stringParam(func(q *Query) *string { return &q.Brand }),
	"role":          stringParam(func(q *Query) *string { return &q.Role }),
	"status":        stringParam(func(q *Query) *string { return &q.Status }),
	"paymentMethod": stringParam(func(q *Query) *string { return &q.PaymentMethod }),
	"country":       stringParam(func(q *Query) *string { return &q.Country }),
	"city":          stringParam(func(q *Query) *string { return &q.City }),
	"productId":     stringParam(func(q *Query) *string { return &q.ProductID }),

	"active": func(q *Query, raw string) error {
		v := raw == "true"
		q.Active = &v
		return nil
	},

	"minPrice":  floatParam("minPrice", func(q *Query) **float64 { return &q.MinPrice }),
	"maxPrice":  floatParam("maxPrice", func(q *Query) **float64 { return &q.MaxPrice }),
	"minStock":  floatParam("minStock", func(q *Query) **float64 { return &q.MinStock }),
	"maxStock":  floatParam("maxStock", func(q *Query) **float64 { return &q.MaxStock }),
	"minRating": floatParam("minRating", func(q *Query) **float64 { return &q.MinRating }),
	"maxRating": floatParam("maxRating", func(q *Query) **float64 { return &q.MaxRating }),
	"minTotal":  floatParam("minTotal", func(q *Query) **float64 { return &q.MinTotal }),
	"maxTotal":  floatParam("maxTotal", func(q *Query) **float64 { return &q.MaxTotal }),

	"createdAfter":  dateParam("createdAfter", func(q *Query) **time.Time { return &q.CreatedAfter }),
	"createdBefore": dateParam("createdBefore", func(q *Query) **time.Time { return &q.CreatedBefore }),
	"updatedAfter":  dateParam("updatedAfter", func(q *Query) **time.Time { return &q.UpdatedAfter }),
	"updatedBefore": dateParam("updatedBefore", func(q *Query) **time.Time { return &q.UpdatedBefore }),

	"tags":   listParam(true, func(q *Query) *[]string { return &q.Tags }),
	"fields": listParam(false, func(q *Query) *[]string { return &q.Fields }),
}

// ParseQuery converts a raw query string into a validated Query. Unknown
// parameters and malformed values are BadRequest errors. When a parameter
// repeats, the last value wins.
func ParseQuery(values url.Values) (Query, error) {
	q := New()

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		set, ok := params[name]
		if !ok {
			return Query{}, apierr.BadRequest("property %s should not exist", name)
		}
		vs := values[name]
		if len(vs) == 0 {
			continue
		}
		if err := set(&q, vs[len(vs)-1]); err != nil {
			return Query{}, err
		}
	}

	if err := apierr.Validate(q); err != nil {
		return Query{}, err
	}
	return q, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTime accepts the ISO 8601 forms clients and fixtures use. Values
// without a zone are read as UTC.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
