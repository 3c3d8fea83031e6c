package clock

import (
	"fmt"
	"time"
)

// Layout is the timestamp format every persisted record uses.
const Layout = "2006-01-02 15:04:05"

// Clock supplies the current instant in the bank's configured time zone.
// Every ledger and account mutation takes its timestamp from here, one call
// per operation.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

func NewSystemClock(timeZone string) (Clock, error) {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", timeZone, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed returns a clock pinned to a single instant. Used by tests and
// anywhere a deterministic timestamp is needed.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time {
	return c.t
}
