package query

import (
	"fmt"
	"testing"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSortNumbersBothDirections(t *testing.T) {
	records := []models.Record{
		{"id": "a", "price": float64(30)},
		{"id": "b", "price": float64(10)},
		{"id": "c", "price": float64(20)},
	}
	assert.Equal(t, []string{"b", "c", "a"}, ids(Sort(records, "price", SortAsc)))
	assert.Equal(t, []string{"a", "c", "b"}, ids(Sort(records, "price", SortDesc)))
}

func TestSortMissingLastInBothDirections(t *testing.T) {
	records := []models.Record{
		{"id": "none"},
		{"id": "low", "rating": float64(1)},
		{"id": "null", "rating": nil},
		{"id": "high", "rating": float64(5)},
		{"id": "obj", "rating": map[string]any{"avg": 3}},
	}
	assert.Equal(t, []string{"low", "high", "none", "null", "obj"}, ids(Sort(records, "rating", SortAsc)))
	assert.Equal(t, []string{"high", "low", "none", "null", "obj"}, ids(Sort(records, "rating", SortDesc)))
}

func TestSortStringsUseCollation(t *testing.T) {
	records := []models.Record{
		{"id": "1", "name": "banana"},
		{"id": "2", "name": "Cherry"},
		{"id": "3", "name": "apple"},
		{"id": "4", "name": "Éclair"},
	}
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(Sort(records, "name", SortAsc)))
}

func TestSortMixedTypes(t *testing.T) {
	records := []models.Record{
		{"id": "s", "v": "text"},
		{"id": "t", "v": true},
		{"id": "n", "v": 0.5},
		{"id": "f", "v": false},
	}
	assert.Equal(t, []string{"f", "n", "t", "s"}, ids(Sort(records, "v", SortAsc)))
	assert.Equal(t, []string{"s", "t", "n", "f"}, ids(Sort(records, "v", SortDesc)))
}

func TestSortNestedPath(t *testing.T) {
	records := []models.Record{
		{"id": "a", "address": map[string]any{"city": "Denver"}},
		{"id": "b", "address": map[string]any{"city": "Austin"}},
	}
	assert.Equal(t, []string{"b", "a"}, ids(Sort(records, "address.city", SortAsc)))
}

func TestSortWithoutKeyKeepsOrder(t *testing.T) {
	records := []models.Record{{"id": "z"}, {"id": "a"}}
	assert.Equal(t, []string{"z", "a"}, ids(Sort(records, "", SortDesc)))
}

func TestSortIsStable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		keys := rapid.SliceOf(rapid.IntRange(0, 3)).Draw(t, "keys")
		records := make([]models.Record, len(keys))
		for i, k := range keys {
			records[i] = models.Record{"id": fmt.Sprintf("%03d", i), "k": float64(k)}
		}
		order := rapid.SampledFrom([]string{SortAsc, SortDesc}).Draw(t, "order")

		sorted := Sort(records, "k", order)
		for i := 1; i < len(sorted); i++ {
			if sorted[i-1]["k"] == sorted[i]["k"] && sorted[i-1].ID() > sorted[i].ID() {
				t.Fatalf("equal keys reordered: %s before %s", sorted[i-1].ID(), sorted[i].ID())
			}
		}
	})
}
