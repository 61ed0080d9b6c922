package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/timeline"
	appErrors "github.com/noah-isme/roombook-api/pkg/errors"
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
	FindByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
}

// cacheInvalidator is notified after every successful mutation.
type cacheInvalidator interface {
	InvalidateCaches(ctx context.Context)
}

// CreateEventRequest describes payload for creating a booking.
type CreateEventRequest struct {
	ResourceID    *string        `json:"resource_id"`
	GroupID       *string        `json:"group_id"`
	Title         string         `json:"title" validate:"required"`
	Start         time.Time      `json:"start" validate:"required"`
	End           time.Time      `json:"end" validate:"required"`
	Status        string         `json:"status" validate:"omitempty,oneof=booked completed cancelled"`
	AllDay        bool           `json:"all_day"`
	ExtendedProps models.JSONMap `json:"extended_props"`
	Notes         *string        `json:"notes"`
	Force         bool           `json:"force"`
}

// UpdateEventRequest modifies an existing booking.
type UpdateEventRequest struct {
	ResourceID    *string        `json:"resource_id"`
	GroupID       *string        `json:"group_id"`
	Title         string         `json:"title" validate:"required"`
	Start         time.Time      `json:"start" validate:"required"`
	End           time.Time      `json:"end" validate:"required"`
	Status        string         `json:"status" validate:"omitempty,oneof=booked completed cancelled"`
	AllDay        bool           `json:"all_day"`
	ExtendedProps models.JSONMap `json:"extended_props"`
	Notes         *string        `json:"notes"`
	Force         bool           `json:"force"`
}

// EventService coordinates booking mutations and conflict checks.
type EventService struct {
	repo        eventRepository
	engine      *timeline.AvailabilityEngine
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEventService instantiates EventService.
func NewEventService(repo eventRepository, engine *timeline.AvailabilityEngine, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = timeline.NewAvailabilityEngine("", logger)
	}
	return &EventService{repo: repo, engine: engine, invalidator: invalidator, validator: validate, logger: logger}
}

// List returns events with pagination metadata.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, *models.Pagination, error) {
	events, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return events, pagination, nil
}

// Get returns an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	return event, nil
}

// Create inserts a booking after a conflict check against the target resource.
// Force skips the check for operators who book over existing reservations.
func (s *EventService) Create(ctx context.Context, req CreateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event := &models.Event{
		ResourceID:    req.ResourceID,
		GroupID:       req.GroupID,
		Title:         req.Title,
		Start:         req.Start,
		End:           req.End,
		Status:        models.EventStatus(req.Status),
		AllDay:        req.AllDay,
		ExtendedProps: req.ExtendedProps,
		Notes:         req.Notes,
	}
	if event.Status == "" {
		event.Status = models.EventStatusBooked
	}

	if !req.Force {
		if err := s.ensureNoConflict(ctx, event, ""); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.afterMutation(ctx)
	return event, nil
}

// Update rewrites a booking. The event itself is excluded from the conflict
// check so that editing a booking in place never conflicts with itself.
func (s *EventService) Update(ctx context.Context, id string, req UpdateEventRequest) (*models.Event, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid event payload")
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load event")
	}

	event.ResourceID = req.ResourceID
	event.GroupID = req.GroupID
	event.Title = req.Title
	event.Start = req.Start
	event.End = req.End
	if req.Status != "" {
		event.Status = models.EventStatus(req.Status)
	}
	event.AllDay = req.AllDay
	event.ExtendedProps = req.ExtendedProps
	event.Notes = req.Notes

	if !req.Force {
		if err := s.ensureNoConflict(ctx, event, event.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	s.afterMutation(ctx)
	return event, nil
}

// Delete removes a booking.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	s.afterMutation(ctx)
	return nil
}

func (s *EventService) ensureNoConflict(ctx context.Context, event *models.Event, excludeID string) error {
	if event.ResourceID == nil || event.Status == models.EventStatusCancelled {
		return nil
	}

	dayStart := timeline.StartOfDay(event.Start, s.engine.Location())
	existing, err := s.repo.ListBetween(ctx, dayStart.AddDate(0, 0, -1), dayStart.AddDate(0, 0, 2))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check conflicts")
	}

	resources := []models.Resource{{ID: *event.ResourceID}}
	rng := models.TimeRange{Start: event.Start, End: event.End}
	results := s.engine.Check(resources, existing, rng, excludeID)
	if len(results) == 1 && !results[0].Available {
		s.logger.Info("booking conflict detected",
			zap.String("resource_id", *event.ResourceID),
			zap.Int("conflicts", len(results[0].Conflicts)))
		return appErrors.Clone(appErrors.ErrConflict, "the resource is already booked for this time range")
	}
	return nil
}

func (s *EventService) afterMutation(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCaches(ctx)
	}
}
