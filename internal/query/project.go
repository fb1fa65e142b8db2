package query

import (
	"strings"

	"github.com/andyleap/mockapi/internal/models"
)

// Project keeps only id and the requested fields. Dotted fields are looked
// up as nested paths but emitted under the dotted key. Fields absent from r
// are omitted. With no fields, r is returned as is.
func Project(r models.Record, fields []string) models.Record {
	if len(fields) == 0 {
		return r
	}

	out := models.Record{}
	if id, ok := r[models.FieldID]; ok {
		out[models.FieldID] = id
	}
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
			continue
		}
		if !strings.Contains(f, ".") {
			continue
		}
		if v, ok := Resolve(r, f); ok {
			out[f] = v
		}
	}
	return out
}
