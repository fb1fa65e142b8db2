package models

import "time"

// Record is a schema-free entity (user, product or sale) as decoded from JSON.
// Every record carries an "id" plus "createdAt"/"updatedAt" timestamps.
type Record map[string]any

const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// ID returns the record identifier, or "" when missing or not a string.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Clone returns a shallow copy. Nested maps and slices are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge overwrites r key by key with patch. Nested objects in the patch
// replace the existing value wholesale. id and createdAt are never touched.
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		r[k] = v
	}
}

// Touch stamps updatedAt.
func (r Record) Touch(now time.Time) {
	r[FieldUpdatedAt] = Timestamp(now)
}

// Without returns a copy of r with the given keys removed.
func (r Record) Without(keys ...string) Record {
	out := r.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Timestamp formats t the way fixtures store times.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
