package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/timeline"
	"github.com/noah-isme/roombook-api/pkg/config"
	appErrors "github.com/noah-isme/roombook-api/pkg/errors"
)

type layoutEventRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
}

// LayoutService produces day-view geometry for the presentation layer.
type LayoutService struct {
	events  layoutEventRepository
	engine  *timeline.LayoutEngine
	clock   *timeline.Clock
	cfg     config.TimelineConfig
	metrics *MetricsService
	logger  *zap.Logger
}

// NewLayoutService constructs the service.
func NewLayoutService(events layoutEventRepository, engine *timeline.LayoutEngine, clock *timeline.Clock, cfg config.TimelineConfig, metrics *MetricsService, logger *zap.Logger) *LayoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = timeline.NewClock(logger)
	}
	if engine == nil {
		engine = timeline.NewLayoutEngine(timeline.NewPositionCalculator(clock, cfg.SlotHeight, logger))
	}
	return &LayoutService{events: events, engine: engine, clock: clock, cfg: cfg, metrics: metrics, logger: logger}
}

// DayLayout computes column assignments and pixel geometry for every booking
// on the given civil date (YYYY-MM-DD), optionally restricted to one resource.
// Cancelled bookings are not drawn.
func (s *LayoutService) DayLayout(ctx context.Context, date, resourceID string) ([]models.EventLayout, error) {
	loc := s.clock.Location(s.cfg.Timezone)
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	events, err := s.events.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	visible := make([]models.Event, 0, len(events))
	for _, ev := range events {
		if ev.Status == models.EventStatusCancelled {
			continue
		}
		if resourceID != "" && (ev.ResourceID == nil || *ev.ResourceID != resourceID) {
			continue
		}
		visible = append(visible, ev)
	}

	start := time.Now()
	layouts := s.engine.Layout(visible, s.cfg.SlotMinutes, s.cfg.StartHour, s.cfg.Timezone)
	s.metrics.ObserveEngine("layout", time.Since(start))

	return layouts, nil
}
