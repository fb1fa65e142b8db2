package query

import "github.com/andyleap/mockapi/internal/models"

type Meta struct {
	Total       int  `json:"total"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	TotalPages  int  `json:"totalPages"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// Paginate slices one page out of records. A page past the end yields an
// empty, non-nil slice; meta always describes the full input.
func Paginate(records []models.Record, page, limit int) ([]models.Record, Meta) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	total := len(records)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}
	meta := Meta{
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}

	// page <= totalPages keeps (page-1)*limit below total, so it cannot overflow.
	if page > totalPages {
		return []models.Record{}, meta
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	return records[start:end:end], meta
}
