package timeline

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
)

// AvailabilityEngine decides, per resource, whether a candidate time range
// collides with existing bookings. Cancelled bookings and the booking being
// edited never count as conflicts.
type AvailabilityEngine struct {
	location *time.Location
	logger   *zap.Logger
}

// NewAvailabilityEngine constructs an engine. Calendar-day boundaries (all-day
// normalization, the today-schedule window) are computed in tzID; an unknown
// identifier falls back to the local zone.
func NewAvailabilityEngine(tzID string, logger *zap.Logger) *AvailabilityEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityEngine{
		location: NewClock(logger).Location(tzID),
		logger:   logger,
	}
}

// Location exposes the engine's resolved zone for callers that must agree on
// day boundaries (cache keys, schedule exports).
func (e *AvailabilityEngine) Location() *time.Location {
	return e.location
}

// Check evaluates rng against every resource's bookings, one result per
// resource in input order.
//
// An invalid range fails open: every resource is reported available with
// empty conflict and schedule lists. Individual events with zero-valued dates
// are skipped rather than aborting the resource.
func (e *AvailabilityEngine) Check(resources []models.Resource, events []models.Event, rng models.TimeRange, excludeEventID string) []models.ResourceAvailability {
	results := make([]models.ResourceAvailability, 0, len(resources))

	if !rng.IsValid() {
		e.logger.Debug("availability range invalid, failing open")
		for _, res := range resources {
			results = append(results, availableResult(res.ID))
		}
		return results
	}

	dayStart := StartOfDay(rng.Start, e.location)
	dayEnd := dayStart.AddDate(0, 0, 1)

	for _, res := range resources {
		conflicts := []models.Event{}
		schedule := []models.Event{}

		for _, ev := range events {
			if ev.ResourceID == nil || *ev.ResourceID != res.ID {
				continue
			}
			if excludeEventID != "" && ev.ID == excludeEventID {
				continue
			}
			if ev.Status == models.EventStatusCancelled {
				continue
			}
			if ev.Start.IsZero() || ev.End.IsZero() {
				e.logger.Debug("skipping event with degenerate dates",
					zap.String("event_id", ev.ID))
				continue
			}

			start, end := ev.Start, ev.End
			if CoerceAllDay(ev) {
				start, end = NormalizeAllDay(start, end, e.location)
			}

			if Overlaps(rng.Start, rng.End, start, end) {
				conflicts = append(conflicts, ev)
			}
			if Overlaps(dayStart, dayEnd, start, end) {
				schedule = append(schedule, ev)
			}
		}

		sort.SliceStable(schedule, func(i, j int) bool {
			return schedule[i].Start.Before(schedule[j].Start)
		})

		results = append(results, models.ResourceAvailability{
			ResourceID:    res.ID,
			Available:     len(conflicts) == 0,
			Conflicts:     conflicts,
			TodaySchedule: schedule,
		})
	}

	return results
}

func availableResult(resourceID string) models.ResourceAvailability {
	return models.ResourceAvailability{
		ResourceID:    resourceID,
		Available:     true,
		Conflicts:     []models.Event{},
		TodaySchedule: []models.Event{},
	}
}
