package query

import (
	"testing"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestProjectForcesIDAndFlattensDottedKeys(t *testing.T) {
	r := models.Record{
		"id":      "s1",
		"status":  "paid",
		"pricing": map[string]any{"total": 42.0},
	}

	got := Project(r, []string{"pricing.total", "status", "missing", "pricing.none"})
	assert.Equal(t, models.Record{"id": "s1", "pricing.total": 42.0, "status": "paid"}, got)
}

func TestProjectWithoutFieldsReturnsRecord(t *testing.T) {
	r := models.Record{"id": "x", "a": 1.0}
	assert.Equal(t, r, Project(r, nil))
}

func TestProjectIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := models.Record{
			"id":     "r1",
			"name":   rapid.String().Draw(t, "name"),
			"nested": map[string]any{"value": rapid.Float64Range(-1e6, 1e6).Draw(t, "value")},
		}
		fields := rapid.SliceOfDistinct(
			rapid.SampledFrom([]string{"id", "name", "nested", "nested.value", "nope"}),
			func(s string) string { return s },
		).Draw(t, "fields")

		once := Project(r, fields)
		twice := Project(once, fields)
		assert.Equal(t, once, twice)
	})
}
