// Package timeline holds the pure scheduling engines: civil-time resolution,
// interval math, day-view geometry, overlap layout and availability checks.
// Nothing in this package performs I/O; every function is safe for concurrent
// use over immutable inputs.
package timeline

import (
	"time"

	"go.uber.org/zap"
)

// Clock resolves the civil wall-clock time of an absolute instant in a named
// IANA timezone. Unknown identifiers fall back to the process-local zone
// instead of failing.
type Clock struct {
	logger *zap.Logger
}

// NewClock constructs a Clock.
func NewClock(logger *zap.Logger) *Clock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clock{logger: logger}
}

// CivilTime returns the hour and minute of ts as observed in tzID.
func (c *Clock) CivilTime(ts time.Time, tzID string) (hour, minute int) {
	local := ts.In(c.Location(tzID))
	return local.Hour(), local.Minute()
}

// Location loads the named zone, falling back to the local zone on failure.
func (c *Clock) Location(tzID string) *time.Location {
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		c.logger.Warn("unknown timezone, using local zone",
			zap.String("timezone", tzID),
			zap.Error(err))
		return time.Local
	}
	return loc
}
