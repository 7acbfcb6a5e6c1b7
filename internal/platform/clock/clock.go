package clock

import "time"

// Clock abstracts time to keep report exports deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in Location, or UTC when Location is nil.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}
