package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice persists a list of identifiers as a JSONB column.
type StringSlice []string

// Value marshals the slice to JSON for persistence.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal string slice: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the slice.
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan string slice: %w", err)
	}
	if len(data) == 0 {
		*s = nil
		return nil
	}
	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("unmarshal string slice: %w", err)
	}
	return nil
}

// StringMap persists free-form key/value metadata as a JSONB column.
type StringMap map[string]string

// Value marshals the map to JSON for persistence.
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		m = StringMap{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal string map: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the map.
func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	data, err := jsonBytes(value)
	if err != nil {
		return fmt.Errorf("scan string map: %w", err)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		return fmt.Errorf("unmarshal string map: %w", err)
	}
	return nil
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T for JSON column", value)
	}
}
