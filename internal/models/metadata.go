package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMetadata is a dynamic key/value bag persisted as a Postgres jsonb
// column. Source adapters attach whatever fields are meaningful to them
// (category codes, video ids, thumbnails) without a fixed flat schema.
type JSONMetadata map[string]any

// Scan implements the sql.Scanner interface.
func (m *JSONMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMetadata{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMetadata", value)
	}

	if len(raw) == 0 {
		*m = JSONMetadata{}
		return nil
	}

	return json.Unmarshal(raw, m)
}

// Value implements the driver.Valuer interface.
func (m JSONMetadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return string(b), nil
}

// GormDataType tells GORM's auto-migration what column type to use.
func (JSONMetadata) GormDataType() string {
	return "jsonb"
}
