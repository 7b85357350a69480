package memdb

import (
	"encoding/json"
	"fmt"
	"time"
)

// Timestamps are stored as fixed-width UTC RFC3339 text on every backend so
// scanning stays uniform and SQL string comparison orders chronologically;
// list and map columns are stored as JSON text.

// timeLayout pads the fraction to nine digits. RFC3339Nano trims trailing
// zeros, which breaks lexicographic ordering across fractional widths.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// encodeTime formats a timestamp for storage.
func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// decodeTime parses a stored timestamp. It accepts any fraction width.
func decodeTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// encodeJSON serializes a list or map column. Nil collections encode as their
// empty JSON form so columns stay NOT NULL.
func encodeJSON(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal column value: %w", err)
	}
	s := string(data)
	if s == "null" {
		switch v.(type) {
		case []string, []any:
			s = "[]"
		default:
			s = "{}"
		}
	}
	return s, nil
}

// decodeJSON deserializes a JSON text column into out. Empty text decodes as
// the zero value for forward compatibility with hand-edited rows.
func decodeJSON(s string, out any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), out); err != nil {
		return fmt.Errorf("failed to unmarshal column value: %w", err)
	}
	return nil
}
