package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/timeline"
	appErrors "github.com/noah-isme/roombook-api/pkg/errors"
)

type availabilityEventRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
}

type availabilityResourceRepository interface {
	List(ctx context.Context) ([]models.Resource, error)
}

// AvailabilityRequest carries the raw query parameters. Start and End arrive
// as RFC 3339 strings; unparseable values deliberately survive as zero
// instants so the engine can fail open instead of erroring.
type AvailabilityRequest struct {
	Start          string
	End            string
	View           models.ViewGranularity
	ExcludeEventID string
}

// AvailabilityService runs the availability engine over stored bookings and
// memoizes results per (date, view).
type AvailabilityService struct {
	events    availabilityEventRepository
	resources availabilityResourceRepository
	engine    *timeline.AvailabilityEngine
	memo      *AvailabilityCache
	cache     *CacheService
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(
	events availabilityEventRepository,
	resources availabilityResourceRepository,
	engine *timeline.AvailabilityEngine,
	memo *AvailabilityCache,
	cache *CacheService,
	metrics *MetricsService,
	logger *zap.Logger,
) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = timeline.NewAvailabilityEngine("", logger)
	}
	if memo == nil {
		memo = NewAvailabilityCache(engine.Location())
	}
	return &AvailabilityService{
		events:    events,
		resources: resources,
		engine:    engine,
		memo:      memo,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

// Check answers an availability query across all resources.
//
// Results are cached per (civil date of the query start, view). Queries that
// exclude an event (an edit in progress) bypass both cache layers, since the
// exclusion is not part of the key.
func (s *AvailabilityService) Check(ctx context.Context, req AvailabilityRequest) ([]models.ResourceAvailability, error) {
	rng := s.parseRange(req.Start, req.End)
	view := req.View
	if !view.IsValid() {
		view = models.ViewDay
	}

	cacheable := rng.IsValid() && req.ExcludeEventID == ""
	if cacheable {
		if result, ok := s.memo.Get(rng.Start, view); ok {
			return result, nil
		}
		key := s.cacheKey(rng.Start, view)
		var cached []models.ResourceAvailability
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			s.memo.Put(rng.Start, view, cached)
			return cached, nil
		}
	}

	result, err := s.compute(ctx, rng, req.ExcludeEventID)
	if err != nil {
		return nil, err
	}

	if cacheable {
		s.memo.Put(rng.Start, view, result)
		_ = s.cache.Set(ctx, s.cacheKey(rng.Start, view), result, 0)
	}

	return result, nil
}

// InvalidateCaches drops every availability entry. Event mutations call this:
// one change can flip conflict verdicts for any resource and any day, so
// invalidation is deliberately coarse.
func (s *AvailabilityService) InvalidateCaches(ctx context.Context) {
	s.memo.InvalidateAll()
	if err := s.cache.Invalidate(ctx, "availability:*"); err != nil {
		s.logger.Warn("failed to invalidate shared availability cache", zap.Error(err))
	}
}

func (s *AvailabilityService) compute(ctx context.Context, rng models.TimeRange, excludeEventID string) ([]models.ResourceAvailability, error) {
	resources, err := s.resources.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list resources")
	}

	var events []models.Event
	if rng.IsValid() {
		// Fetch a padded window so all-day bookings and midnight crossers
		// on neighboring days are visible to the engine.
		dayStart := timeline.StartOfDay(rng.Start, s.engine.Location())
		events, err = s.events.ListBetween(ctx, dayStart.AddDate(0, 0, -1), dayStart.AddDate(0, 0, 2))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
		}
	}

	start := time.Now()
	result := s.engine.Check(resources, events, rng, excludeEventID)
	s.metrics.ObserveEngine("availability", time.Since(start))

	return result, nil
}

func (s *AvailabilityService) parseRange(startRaw, endRaw string) models.TimeRange {
	var rng models.TimeRange
	if start, err := time.Parse(time.RFC3339, startRaw); err == nil {
		rng.Start = start
	} else {
		s.logger.Warn("unparseable availability range start, failing open", zap.String("start", startRaw))
	}
	if end, err := time.Parse(time.RFC3339, endRaw); err == nil {
		rng.End = end
	} else {
		s.logger.Warn("unparseable availability range end, failing open", zap.String("end", endRaw))
	}
	return rng
}

func (s *AvailabilityService) cacheKey(at time.Time, view models.ViewGranularity) string {
	return fmt.Sprintf("availability:%s:%s", at.In(s.engine.Location()).Format("2006-01-02"), view)
}
