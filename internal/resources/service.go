package resources

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/andyleap/mockapi/internal/apierr"
	"github.com/andyleap/mockapi/internal/models"
	"github.com/andyleap/mockapi/internal/query"
	"github.com/andyleap/mockapi/internal/storage"
	"github.com/google/uuid"
)

// Entity describes one resource type: how it is queried, which fields never
// leave the service, and how request bodies become records.
type Entity struct {
	Name    string
	Profile query.Profile
	Hidden  []string
	// Create turns a create body into a record without id or timestamps.
	Create func(body []byte) (models.Record, error)
	// Update turns an update body into a shallow patch.
	Update func(body []byte) (models.Record, error)
}

// Service is the CRUD surface of one collection.
type Service struct {
	entity  Entity
	records *storage.Collection
	now     func() time.Time
	newID   func() string
}

func NewService(entity Entity, records *storage.Collection) *Service {
	return &Service{
		entity:  entity,
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) Entity() Entity {
	return s.entity
}

func (s *Service) present(r models.Record) models.Record {
	if len(s.entity.Hidden) == 0 {
		return r
	}
	return r.Without(s.entity.Hidden...)
}

func (s *Service) notFound(id string) error {
	return apierr.NotFound("%s with ID %s not found", s.entity.Name, id)
}

// List runs q over a snapshot of the collection.
func (s *Service) List(q query.Query) query.Page {
	all := s.records.All()
	visible := make([]models.Record, len(all))
	for i, r := range all {
		visible[i] = s.present(r)
	}
	return query.Run(visible, q, s.entity.Profile)
}

func (s *Service) Get(id string) (models.Record, error) {
	r, err := s.records.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, s.notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return s.present(r), nil
}

func (s *Service) Create(body []byte) (models.Record, error) {
	r, err := s.entity.Create(body)
	if err != nil {
		return nil, err
	}

	now := models.Timestamp(s.now())
	r[models.FieldID] = s.newID()
	r[models.FieldCreatedAt] = now
	r[models.FieldUpdatedAt] = now

	if err := s.records.Insert(r); err != nil {
		if errors.Is(err, storage.ErrDuplicateID) {
			return nil, apierr.Conflict("%s with ID %s already exists", s.entity.Name, r.ID())
		}
		return nil, fmt.Errorf("failed to insert %s: %w", s.entity.Name, err)
	}
	return s.present(r), nil
}

// Update shallow-merges the body into the stored record. Nested objects in
// the body replace stored ones wholesale.
func (s *Service) Update(id string, body []byte) (models.Record, error) {
	patch, err := s.entity.Update(body)
	if err != nil {
		return nil, err
	}
	delete(patch, models.FieldUpdatedAt)

	updated, err := s.records.Update(id, func(r models.Record) error {
		r.Merge(patch)
		r.Touch(s.now())
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil, s.notFound(id)
	}
	if err != nil {
		return nil, err
	}
	return s.present(updated), nil
}

func (s *Service) Delete(id string) error {
	err := s.records.Remove(id)
	if errors.Is(err, storage.ErrNotFound) {
		return s.notFound(id)
	}
	return err
}

// decodeBody unmarshals a JSON body, reporting malformed input as BadRequest.
func decodeBody(body []byte, v any) error {
	if len(body) == 0 {
		return apierr.BadRequest("Request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apierr.BadRequest("%s must be %s", typeErr.Field, jsonKind(typeErr.Type.Kind()))
		}
		return apierr.BadRequest("Invalid JSON body")
	}
	return nil
}

func jsonKind(k reflect.Kind) string {
	switch k {
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct, reflect.Pointer:
		return "an object"
	default:
		return "a number"
	}
}

// patchFrom validates body against dto and returns it as a generic patch,
// keeping fields dto does not declare.
func patchFrom(body []byte, dto any) (models.Record, error) {
	if err := decodeBody(body, dto); err != nil {
		return nil, err
	}
	if err := apierr.Validate(dto); err != nil {
		return nil, err
	}

	var patch models.Record
	if err := decodeBody(body, &patch); err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, apierr.BadRequest("Request body must be a JSON object")
	}
	return patch, nil
}
