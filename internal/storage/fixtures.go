package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/andyleap/mockapi/internal/models"
	"gopkg.in/yaml.v3"
)

func decodeFixture(data []byte, ext string, v any) error {
	switch ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// normalize rewrites YAML decoded values into the shapes encoding/json
// produces so the query engine sees one representation.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = normalize(e)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range t {
			t[i] = normalize(e)
		}
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case float32:
		return float64(t)
	case time.Time:
		return models.Timestamp(t)
	default:
		return v
	}
}

// LoadRecords reads and decodes a fixture holding an array of objects.
func LoadRecords(ctx context.Context, src FixtureSource, name string) ([]models.Record, error) {
	data, ext, err := src.ReadFixture(ctx, name)
	if err != nil {
		return nil, err
	}

	var raw []map[string]any
	if err := decodeFixture(data, ext, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}

	records := make([]models.Record, 0, len(raw))
	for _, r := range raw {
		records = append(records, models.Record(normalize(r).(map[string]any)))
	}
	return records, nil
}

// LoadCollection seeds a Collection from a fixture. A fixture that cannot be
// read or decoded yields an empty collection and a warning.
func LoadCollection(ctx context.Context, src FixtureSource, name string) *Collection {
	records, err := LoadRecords(ctx, src, name)
	if err == nil {
		var c *Collection
		if c, err = NewCollection(name, records); err == nil {
			slog.Info("Loaded fixture", "collection", name, "records", c.Len())
			return c
		}
	}

	slog.Warn("Failed to load fixture, starting with an empty collection", "collection", name, "error", err)
	empty, _ := NewCollection(name, nil)
	return empty
}

// LoadClients reads the OAuth client registry.
func LoadClients(ctx context.Context, src FixtureSource, name string) ([]models.Client, error) {
	data, ext, err := src.ReadFixture(ctx, name)
	if err != nil {
		return nil, err
	}

	var clients []models.Client
	if err := decodeFixture(data, ext, &clients); err != nil {
		return nil, fmt.Errorf("failed to decode clients fixture %s: %w", name, err)
	}
	return clients, nil
}
