package providers

import (
	"panelkeeper/internal/structures"
	"time"
	_ "time/tzdata"
)

const fallbackTimezone = "UTC"

// Clock supplies the current time in the configured zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type zonedClock struct {
	loc *time.Location
}

func (c *zonedClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zonedClock) Location() *time.Location {
	return c.loc
}

// NewClockProvider loads mechanics.timezone. An unknown zone is logged and
// replaced by UTC so a typo never stops the service.
func NewClockProvider(conf *structures.Config, logger Logger) Clock {
	loc, err := time.LoadLocation(conf.Mechanics.Timezone)
	if err != nil {
		logger.Warnf(TypeApp, "Unknown timezone %q, falling back to %s: %s", conf.Mechanics.Timezone, fallbackTimezone, err)
		loc = time.UTC
	}
	return &zonedClock{loc: loc}
}
