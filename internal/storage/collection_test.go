package storage

import (
	"fmt"
	"sync"
	"testing"

	"github.com/andyleap/mockapi/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTestCollection(t *testing.T, ids ...string) *Collection {
	t.Helper()
	records := make([]models.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, models.Record{"id": id, "name": "item " + id})
	}
	c, err := NewCollection("items", records)
	require.NoError(t, err)
	return c
}

func TestNewCollectionRejectsDuplicates(t *testing.T) {
	_, err := NewCollection("items", []models.Record{{"id": "a"}, {"id": "a"}})
	assert.ErrorIs(t, err, ErrDuplicateID)

	_, err = NewCollection("items", []models.Record{{"name": "no id"}})
	assert.ErrorIs(t, err, ErrMissingID)
}

func TestCollectionCRUD(t *testing.T) {
	c := newTestCollection(t, "a", "b")

	require.NoError(t, c.Insert(models.Record{"id": "c"}))
	assert.ErrorIs(t, c.Insert(models.Record{"id": "a"}), ErrDuplicateID)
	assert.Equal(t, 3, c.Len())

	updated, err := c.Update("b", func(r models.Record) error {
		r["name"] = "renamed"
		r["id"] = "hijacked"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.ID())
	assert.Equal(t, "renamed", updated["name"])

	got, err := c.Get("b")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got["name"])

	require.NoError(t, c.Remove("a"))
	assert.ErrorIs(t, c.Remove("a"), ErrNotFound)
	_, err = c.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)

	ids := []string{}
	for _, r := range c.All() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{"b", "c"}, ids)
}

func TestCollectionSnapshotIsolation(t *testing.T) {
	c := newTestCollection(t, "a")
	snapshot := c.All()

	_, err := c.Update("a", func(r models.Record) error {
		r["name"] = "changed"
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "item a", snapshot[0]["name"])
}

func TestCollectionConcurrentInsertKeepsIDsUnique(t *testing.T) {
	c := newTestCollection(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if c.Insert(models.Record{"id": fmt.Sprintf("id-%d", i%10)}) == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, c.Len())
}

func TestCollectionIDsStayUnique(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, err := NewCollection("items", nil)
		require.NoError(t, err)

		ops := rapid.SliceOf(rapid.IntRange(0, 5)).Draw(t, "ops")
		for i, op := range ops {
			id := fmt.Sprintf("id-%d", op)
			if i%3 == 2 {
				_ = c.Remove(id)
			} else {
				_ = c.Insert(models.Record{"id": id})
			}
		}

		seen := map[string]bool{}
		for _, r := range c.All() {
			if seen[r.ID()] {
				t.Fatalf("duplicate id %s", r.ID())
			}
			seen[r.ID()] = true
		}
	})
}
