package query

import (
	"fmt"
	"testing"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRunPriceRatingProjection(t *testing.T) {
	products := []models.Record{
		{"id": "p1", "name": "Laptop", "price": 1999.99, "rating": 4.5, "brand": "TechBrand"},
		{"id": "p2", "name": "Mouse", "price": float64(100), "rating": float64(5), "brand": "TechBrand"},
	}

	q := New()
	q.MinPrice = ptr(500.0)
	q.MaxPrice = ptr(2000.0)
	q.MinRating = ptr(4.0)
	q.Fields = []string{"id", "name", "price"}

	page := Run(products, q, Products)

	require.Len(t, page.Data, 1)
	assert.Equal(t, models.Record{"id": "p1", "name": "Laptop", "price": 1999.99}, page.Data[0])
	assert.Equal(t, 1, page.Meta.Total)
	assert.Equal(t, map[string]any{"minPrice": 500.0, "maxPrice": 2000.0, "minRating": 4.0}, page.Filters)
}

func TestRunPagePastEnd(t *testing.T) {
	q := New()
	q.Page = 5
	q.Limit = 10

	page := Run(makeRecords(3), q, Products)

	assert.Empty(t, page.Data)
	assert.Equal(t, 3, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.TotalPages)
	assert.False(t, page.Meta.HasNextPage)
	assert.True(t, page.Meta.HasPrevPage)
	assert.Nil(t, page.Filters)
}

func TestRunSortsBeforePaging(t *testing.T) {
	records := []models.Record{
		{"id": "a", "stock": float64(3)},
		{"id": "b", "stock": float64(1)},
		{"id": "c", "stock": float64(2)},
	}
	q := New()
	q.SortBy = "stock"
	q.Limit = 2

	page := Run(records, q, Products)
	assert.Equal(t, []string{"b", "c"}, ids(page.Data))
}

func TestRunTotalIndependentOfPaging(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		records := make([]models.Record, n)
		for i := range records {
			records[i] = models.Record{
				"id":     fmt.Sprintf("p%d", i),
				"price":  float64(rapid.IntRange(0, 100).Draw(t, "price")),
				"active": rapid.Bool().Draw(t, "active"),
			}
		}

		q := New()
		q.MinPrice = ptr(float64(rapid.IntRange(0, 100).Draw(t, "min")))
		if rapid.Bool().Draw(t, "withActive") {
			q.Active = ptr(rapid.Bool().Draw(t, "activeValue"))
		}
		q.SortBy = rapid.SampledFrom([]string{"", "price", "id"}).Draw(t, "sortBy")
		q.Page = rapid.IntRange(1, 8).Draw(t, "page")
		q.Limit = rapid.IntRange(1, 12).Draw(t, "limit")

		want := len(Filter(records, BuildPredicates(q, Products)))
		assert.Equal(t, want, Run(records, q, Products).Meta.Total)
	})
}
