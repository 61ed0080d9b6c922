package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/timeline"
)

type stubEventRepo struct {
	events      []models.Event
	listCalls   int
	listErr     error
	lastListArg [2]time.Time
}

func (s *stubEventRepo) ListBetween(_ context.Context, from, to time.Time) ([]models.Event, error) {
	s.listCalls++
	s.lastListArg = [2]time.Time{from, to}
	return s.events, s.listErr
}

type stubResourceRepo struct {
	resources []models.Resource
	listErr   error
}

func (s *stubResourceRepo) List(_ context.Context) ([]models.Resource, error) {
	return s.resources, s.listErr
}

func strPtr(v string) *string { return &v }

func newTestAvailabilityService(events *stubEventRepo, resources *stubResourceRepo) *AvailabilityService {
	engine := timeline.NewAvailabilityEngine("UTC", zap.NewNop())
	memo := NewAvailabilityCache(engine.Location())
	cache := NewCacheService(nil, nil, 0, zap.NewNop(), false)
	return NewAvailabilityService(events, resources, engine, memo, cache, nil, zap.NewNop())
}

func TestAvailabilityCheckDetectsConflict(t *testing.T) {
	events := &stubEventRepo{events: []models.Event{
		{
			ID:         "evt-1",
			ResourceID: strPtr("room-1"),
			Start:      time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			Status:     models.EventStatusBooked,
		},
	}}
	resources := &stubResourceRepo{resources: []models.Resource{{ID: "room-1"}}}
	svc := newTestAvailabilityService(events, resources)

	result, err := svc.Check(context.Background(), AvailabilityRequest{
		Start: "2025-06-02T10:00:00Z",
		End:   "2025-06-02T11:30:00Z",
		View:  models.ViewDay,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.False(t, result[0].Available)
	require.Len(t, result[0].Conflicts, 1)
	assert.Equal(t, "evt-1", result[0].Conflicts[0].ID)
}

func TestAvailabilityCheckMemoizesPerDateAndView(t *testing.T) {
	events := &stubEventRepo{}
	resources := &stubResourceRepo{resources: []models.Resource{{ID: "room-1"}}}
	svc := newTestAvailabilityService(events, resources)

	req := AvailabilityRequest{
		Start: "2025-06-02T10:00:00Z",
		End:   "2025-06-02T11:00:00Z",
		View:  models.ViewDay,
	}

	_, err := svc.Check(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, events.listCalls)

	// Same civil date, different time of day: served from memo.
	req.Start = "2025-06-02T15:00:00Z"
	req.End = "2025-06-02T16:00:00Z"
	_, err = svc.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, events.listCalls)

	// Different view recomputes.
	req.View = models.ViewWeek
	_, err = svc.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, events.listCalls)
}

func TestAvailabilityCheckExcludeBypassesCache(t *testing.T) {
	events := &stubEventRepo{}
	resources := &stubResourceRepo{resources: []models.Resource{{ID: "room-1"}}}
	svc := newTestAvailabilityService(events, resources)

	req := AvailabilityRequest{
		Start:          "2025-06-02T10:00:00Z",
		End:            "2025-06-02T11:00:00Z",
		View:           models.ViewDay,
		ExcludeEventID: "evt-1",
	}

	_, err := svc.Check(context.Background(), req)
	require.NoError(t, err)
	_, err = svc.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, events.listCalls)
	assert.Equal(t, 0, svc.memo.Len())
}

func TestAvailabilityCheckInvalidRangeFailsOpen(t *testing.T) {
	events := &stubEventRepo{}
	resources := &stubResourceRepo{resources: []models.Resource{{ID: "room-1"}, {ID: "room-2"}}}
	svc := newTestAvailabilityService(events, resources)

	result, err := svc.Check(context.Background(), AvailabilityRequest{
		Start: "not-a-timestamp",
		End:   "also-bad",
		View:  models.ViewDay,
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	for _, r := range result {
		assert.True(t, r.Available)
	}
	// No event fetch and no caching for unparseable ranges.
	assert.Equal(t, 0, events.listCalls)
	assert.Equal(t, 0, svc.memo.Len())
}

func TestAvailabilityCheckFetchesPaddedWindow(t *testing.T) {
	events := &stubEventRepo{}
	resources := &stubResourceRepo{resources: []models.Resource{{ID: "room-1"}}}
	svc := newTestAvailabilityService(events, resources)

	_, err := svc.Check(context.Background(), AvailabilityRequest{
		Start: "2025-06-02T10:00:00Z",
		End:   "2025-06-02T11:00:00Z",
		View:  models.ViewDay,
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), events.lastListArg[0])
	assert.Equal(t, time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), events.lastListArg[1])
}

func TestInvalidateCachesDropsMemo(t *testing.T) {
	events := &stubEventRepo{}
	resources := &stubResourceRepo{resources: []models.Resource{{ID: "room-1"}}}
	svc := newTestAvailabilityService(events, resources)

	req := AvailabilityRequest{
		Start: "2025-06-02T10:00:00Z",
		End:   "2025-06-02T11:00:00Z",
		View:  models.ViewDay,
	}
	_, err := svc.Check(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, 1, svc.memo.Len())

	svc.InvalidateCaches(context.Background())
	assert.Equal(t, 0, svc.memo.Len())

	_, err = svc.Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, events.listCalls)
}
