package timeline

import (
	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
)

const (
	minutesPerDay = 24 * 60

	// DefaultSlotHeight is the pixel height of one slot row.
	DefaultSlotHeight = 40.0
	// DefaultSlotMinutes guards against a zero slot interval.
	DefaultSlotMinutes = 30
)

// PositionCalculator maps an event's interval onto vertical pixel coordinates
// for a single-day timeline.
type PositionCalculator struct {
	clock      *Clock
	slotHeight float64
	logger     *zap.Logger
}

// NewPositionCalculator constructs a calculator. A non-positive slotHeight
// falls back to DefaultSlotHeight.
func NewPositionCalculator(clock *Clock, slotHeight float64, logger *zap.Logger) *PositionCalculator {
	if clock == nil {
		clock = NewClock(logger)
	}
	if slotHeight <= 0 {
		slotHeight = DefaultSlotHeight
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionCalculator{clock: clock, slotHeight: slotHeight, logger: logger}
}

// Position computes the top offset and height of ev for a day view starting at
// startHour with rows of slotMinutes each. The computation uses civil time in
// tzID, so a booking keeps its wall-clock placement across zones.
//
// When the civil end precedes the civil start the event is assumed to cross a
// single midnight and the end is pushed forward one day. The correction never
// extends an event beyond 24 hours; anything longer is upstream data damage,
// so it is logged instead of silently stretched.
func (p *PositionCalculator) Position(ev models.Event, slotMinutes, startHour int, tzID string) models.EventPosition {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}

	startH, startM := p.clock.CivilTime(ev.Start, tzID)
	endH, endM := p.clock.CivilTime(ev.End, tzID)

	startTotal := startH*60 + startM
	endTotal := endH*60 + endM
	if endTotal < startTotal {
		p.logger.Warn("event civil end precedes start, assuming midnight crossing",
			zap.String("event_id", ev.ID))
		endTotal += minutesPerDay
	}

	pixelsPerHour := p.slotHeight * (60.0 / float64(slotMinutes))
	top := (float64(startTotal-startHour*60) / 60.0) * pixelsPerHour
	height := (float64(endTotal-startTotal) / 60.0) * pixelsPerHour

	return models.EventPosition{Top: top, Height: height}
}
