package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/eslsoft/wordpicker/internal/entity"
)

// Timestamp stores capture times as UTC and tolerates the textual encodings
// SQLite hands back when a column's declared type is lost (aggregates, views).
type Timestamp time.Time

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Time returns the normalized time value.
func (t Timestamp) Time() time.Time {
	return entity.NormalizeTimestamp(time.Time(t))
}

// Scan implements sql.Scanner
func (t *Timestamp) Scan(src any) error {
	switch data := src.(type) {
	case nil:
		*t = Timestamp{}
		return nil
	case time.Time:
		*t = Timestamp(entity.NormalizeTimestamp(data))
		return nil
	case []byte:
		return t.parse(string(data))
	case string:
		return t.parse(data)
	default:
		return fmt.Errorf("Timestamp: unsupported src type %T", src)
	}
}

func (t *Timestamp) parse(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			*t = Timestamp(entity.NormalizeTimestamp(parsed))
			return nil
		}
	}
	return fmt.Errorf("Timestamp: cannot parse %q", raw)
}

// Value implements driver.Valuer
func (t Timestamp) Value() (driver.Value, error) {
	if time.Time(t).IsZero() {
		return nil, nil
	}
	return t.Time(), nil
}
