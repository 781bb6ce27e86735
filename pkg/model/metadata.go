package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Metadata is a free-form JSON object stored in a jsonb column.
type Metadata map[string]any

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value any) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("invalid value of Metadata: %T", value)
	}

	out := Metadata{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
	}
	*m = out
	return nil
}
