// ABOUTME: Column encoding helpers shared by the stores
// ABOUTME: JSON string lists and unix-nanosecond timestamps
package sqlite

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// encodeStrings marshals a string list as a JSON array without HTML escaping,
// so substring search sees the literal text
func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(values); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

// decodeStrings unmarshals a JSON array column, treating NULL or garbage as empty
func decodeStrings(raw string) []string {
	values := []string{}
	if raw == "" {
		return values
	}
	if err := json.Unmarshal([]byte(raw), &values); err != nil || values == nil {
		return []string{}
	}
	return values
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().UnixNano()
}

func fromUnix(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
