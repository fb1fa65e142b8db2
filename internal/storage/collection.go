package storage

import (
	"errors"
	"fmt"
	"sync"

	"github.com/andyleap/mockapi/internal/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrDuplicateID = errors.New("duplicate record id")
	ErrMissingID   = errors.New("record has no id")
)

// Collection is an ordered, id-unique set of records guarded by its own
// lock. Records are never mutated in place: updates clone, modify and swap,
// so slices returned by All stay valid after later writes.
type Collection struct {
	name    string
	records []models.Record
	mu      sync.RWMutex
}

func NewCollection(name string, records []models.Record) (*Collection, error) {
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		id := r.ID()
		if id == "" {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, ErrMissingID)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("%s[%d] id %q: %w", name, i, id, ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}

	return &Collection{
		name:    name,
		records: append([]models.Record(nil), records...),
	}, nil
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// All returns the records in insertion order.
func (c *Collection) All() []models.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Record(nil), c.records...)
}

func (c *Collection) indexOf(id string) int {
	for i, r := range c.records {
		if r.ID() == id {
			return i
		}
	}
	return -1
}

func (c *Collection) Get(id string) (models.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return c.records[i].Clone(), nil
}

// Find returns the first record matching pred.
func (c *Collection) Find(pred func(models.Record) bool) (models.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.records {
		if pred(r) {
			return r.Clone(), true
		}
	}
	return nil, false
}

func (c *Collection) Insert(r models.Record) error {
	id := r.ID()
	if id == "" {
		return ErrMissingID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(id) >= 0 {
		return fmt.Errorf("%s id %q: %w", c.name, id, ErrDuplicateID)
	}
	c.records = append(c.records, r.Clone())
	return nil
}

// Update applies fn to a copy of the record and stores the result. The id
// cannot be changed by fn.
func (c *Collection) Update(id string, fn func(models.Record) error) (models.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}

	next := c.records[i].Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next[models.FieldID] = id

	c.records[i] = next
	return next.Clone(), nil
}

func (c *Collection) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	c.records = append(c.records[:i:i], c.records[i+1:]...)
	return nil
}
