package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// MetadataMap stores type-specific message metadata (image dimensions, video
// length, ...) as a JSON text column. A nil map serializes to "{}" so the
// column is never NULL and callers can range over it without nil checks.
type MetadataMap map[string]string

// Value implements driver.Valuer.
func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *MetadataMap) Scan(src any) error {
	if src == nil {
		*m = MetadataMap{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("metadata: unsupported column type %T", src)
	}
	if len(b) == 0 {
		*m = MetadataMap{}
		return nil
	}
	out := MetadataMap{}
	if err := json.Unmarshal(b, &out); err != nil {
		return errors.Join(errors.New("metadata: malformed JSON"), err)
	}
	*m = out
	return nil
}
