package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roombook-api/internal/models"
)

func newTestAvailabilityEngine() *AvailabilityEngine {
	return NewAvailabilityEngine("UTC", nil)
}

func booking(t *testing.T, id, resourceID, start, end string, status models.EventStatus) models.Event {
	t.Helper()
	return models.Event{
		ID:         id,
		ResourceID: &resourceID,
		Title:      id,
		Start:      ts(t, start),
		End:        ts(t, end),
		Status:     status,
	}
}

func queryRange(t *testing.T, start, end string) models.TimeRange {
	t.Helper()
	return models.TimeRange{Start: ts(t, start), End: ts(t, end)}
}

func TestCheckNoEventsEveryResourceAvailable(t *testing.T) {
	engine := newTestAvailabilityEngine()
	resources := []models.Resource{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}

	results := engine.Check(resources, nil,
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 3)
	for i, r := range results {
		assert.Equal(t, resources[i].ID, r.ResourceID)
		assert.True(t, r.Available)
		assert.Empty(t, r.Conflicts)
		assert.Empty(t, r.TodaySchedule)
	}
}

func TestCheckConflictingBooking(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "b1", "r1", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T11:30:00Z"), "")

	require.Len(t, results, 1)
	assert.False(t, results[0].Available)
	require.Len(t, results[0].Conflicts, 1)
	assert.Equal(t, "b1", results[0].Conflicts[0].ID)
}

func TestCheckNonOverlappingQueryIsAvailable(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "b1", "r1", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T13:00:00Z", "2025-01-01T13:30:00Z"), "")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
	assert.Empty(t, results[0].Conflicts)
	// The booking still shows on the day's schedule.
	require.Len(t, results[0].TodaySchedule, 1)
	assert.Equal(t, "b1", results[0].TodaySchedule[0].ID)
}

func TestCheckTouchingBoundaryDoesNotConflict(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "b1", "r1", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T12:00:00Z", "2025-01-01T13:00:00Z"), "")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
}

func TestCheckCancelledBookingsNeverBlock(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "b1", "r1", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusCancelled),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T10:30:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
	assert.Empty(t, results[0].Conflicts)
	assert.Empty(t, results[0].TodaySchedule)
}

func TestCheckExcludesEventBeingEdited(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "editing", "r1", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusBooked),
		booking(t, "other", "r1", "2025-01-01T14:00:00Z", "2025-01-01T15:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T10:30:00Z", "2025-01-01T11:00:00Z"), "editing")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
	// The excluded event also disappears from the schedule.
	require.Len(t, results[0].TodaySchedule, 1)
	assert.Equal(t, "other", results[0].TodaySchedule[0].ID)
}

func TestCheckInvalidRangeFailsOpen(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "b1", "r1", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events, models.TimeRange{}, "")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
	assert.Empty(t, results[0].Conflicts)
	assert.Empty(t, results[0].TodaySchedule)
}

func TestCheckIgnoresOtherResources(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "b1", "r2", "2025-01-01T10:00:00Z", "2025-01-01T12:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}, {ID: "r2"}}, events,
		queryRange(t, "2025-01-01T10:30:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 2)
	assert.True(t, results[0].Available)
	assert.False(t, results[1].Available)
}

func TestCheckUnassignedEventsNeverBlock(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		{ID: "notice", Start: ts(t, "2025-01-01T00:00:00Z"), End: ts(t, "2025-01-02T00:00:00Z"), Status: models.EventStatusBooked},
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
}

func TestCheckAllDayNormalization(t *testing.T) {
	engine := newTestAvailabilityEngine()

	// All-day booking stored with identical start and end instants still
	// occupies its full calendar day.
	ev := booking(t, "allday", "r1", "2025-01-01T09:00:00Z", "2025-01-01T09:00:00Z", models.EventStatusBooked)
	ev.AllDay = true

	results := engine.Check([]models.Resource{{ID: "r1"}}, []models.Event{ev},
		queryRange(t, "2025-01-01T22:00:00Z", "2025-01-01T23:00:00Z"), "")

	require.Len(t, results, 1)
	assert.False(t, results[0].Available)
	require.Len(t, results[0].Conflicts, 1)
	assert.Equal(t, "allday", results[0].Conflicts[0].ID)
}

func TestCheckAllDayFlagFromExtendedProps(t *testing.T) {
	engine := newTestAvailabilityEngine()

	ev := booking(t, "allday", "r1", "2025-01-01T09:00:00Z", "2025-01-01T09:30:00Z", models.EventStatusBooked)
	ev.ExtendedProps = models.JSONMap{"isAllDay": "1"}

	results := engine.Check([]models.Resource{{ID: "r1"}}, []models.Event{ev},
		queryRange(t, "2025-01-01T23:00:00Z", "2025-01-01T23:30:00Z"), "")

	require.Len(t, results, 1)
	assert.False(t, results[0].Available)
}

func TestCheckSkipsEventsWithDegenerateDates(t *testing.T) {
	engine := newTestAvailabilityEngine()

	broken := models.Event{ID: "broken", Status: models.EventStatusBooked}
	resourceID := "r1"
	broken.ResourceID = &resourceID

	good := booking(t, "good", "r1", "2025-01-01T14:00:00Z", "2025-01-01T15:00:00Z", models.EventStatusBooked)

	results := engine.Check([]models.Resource{{ID: "r1"}}, []models.Event{broken, good},
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 1)
	assert.True(t, results[0].Available)
	// The sibling event is still processed.
	require.Len(t, results[0].TodaySchedule, 1)
	assert.Equal(t, "good", results[0].TodaySchedule[0].ID)
}

func TestCheckTodayScheduleSortedByStart(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "late", "r1", "2025-01-01T16:00:00Z", "2025-01-01T17:00:00Z", models.EventStatusBooked),
		booking(t, "early", "r1", "2025-01-01T08:00:00Z", "2025-01-01T09:00:00Z", models.EventStatusBooked),
		booking(t, "mid", "r1", "2025-01-01T12:00:00Z", "2025-01-01T13:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T10:30:00Z"), "")

	require.Len(t, results, 1)
	require.Len(t, results[0].TodaySchedule, 3)
	assert.Equal(t, "early", results[0].TodaySchedule[0].ID)
	assert.Equal(t, "mid", results[0].TodaySchedule[1].ID)
	assert.Equal(t, "late", results[0].TodaySchedule[2].ID)
}

func TestCheckTodayScheduleLimitedToQueryDay(t *testing.T) {
	engine := newTestAvailabilityEngine()
	events := []models.Event{
		booking(t, "today", "r1", "2025-01-01T08:00:00Z", "2025-01-01T09:00:00Z", models.EventStatusBooked),
		booking(t, "tomorrow", "r1", "2025-01-02T08:00:00Z", "2025-01-02T09:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 1)
	require.Len(t, results[0].TodaySchedule, 1)
	assert.Equal(t, "today", results[0].TodaySchedule[0].ID)
}

func TestCheckResultOrderMatchesInput(t *testing.T) {
	engine := newTestAvailabilityEngine()
	resources := []models.Resource{{ID: "z"}, {ID: "a"}, {ID: "m"}}

	results := engine.Check(resources, nil,
		queryRange(t, "2025-01-01T10:00:00Z", "2025-01-01T11:00:00Z"), "")

	require.Len(t, results, 3)
	for i, res := range resources {
		assert.Equal(t, res.ID, results[i].ResourceID)
	}
}

func TestCheckDayBoundaryInEngineZone(t *testing.T) {
	engine := NewAvailabilityEngine("Asia/Tokyo", nil)
	tokyo := engine.Location()
	require.Equal(t, "Asia/Tokyo", tokyo.String())

	// 2025-01-01T20:00Z is Jan 2 in Tokyo, so a booking on Jan 2 Tokyo
	// morning belongs to the query day's schedule.
	events := []models.Event{
		booking(t, "jan2", "r1", "2025-01-01T23:00:00Z", "2025-01-02T00:00:00Z", models.EventStatusBooked),
	}

	results := engine.Check([]models.Resource{{ID: "r1"}}, events,
		queryRange(t, "2025-01-01T20:00:00Z", "2025-01-01T21:00:00Z"), "")

	require.Len(t, results, 1)
	require.Len(t, results[0].TodaySchedule, 1)

	dayStart := StartOfDay(ts(t, "2025-01-01T20:00:00Z"), tokyo)
	assert.Equal(t, 2, dayStart.In(tokyo).Day())
}
