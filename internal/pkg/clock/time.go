package clock

import (
	"encoding/json"
	"fmt"
	"time"
)

// Time is a time.Time that serializes as "YYYY-MM-DD HH:MM:SS", the layout
// shared by every record file. The rendered string carries no zone offset;
// records are always written and read in the configured bank time zone.
type Time struct {
	time.Time
}

func At(t time.Time) Time {
	return Time{Time: t}
}

func (t Time) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(Layout))
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(Layout, s)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

func (t Time) String() string {
	return t.Format(Layout)
}

// ParseTimestamp accepts either the full record layout or a bare date, which
// is read as the start of that day. Date-range filters rely on the latter.
func ParseTimestamp(s string) (time.Time, error) {
	if parsed, err := time.Parse(Layout, s); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return parsed, nil
}
