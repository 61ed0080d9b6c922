package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/timeline"
	appErrors "github.com/noah-isme/roombook-api/pkg/errors"
	"github.com/noah-isme/roombook-api/pkg/export"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type exportEventRepository interface {
	ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error)
}

type exportResourceRepository interface {
	FindByID(ctx context.Context, id string) (*models.Resource, error)
}

// ExportResult bundles rendered bytes with download metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders a resource day schedule into downloadable documents.
type ExportService struct {
	events    exportEventRepository
	resources exportResourceRepository
	clock     *timeline.Clock
	timezone  string
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(events exportEventRepository, resources exportResourceRepository, clock *timeline.Clock, timezone string, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = timeline.NewClock(logger)
	}
	return &ExportService{
		events:    events,
		resources: resources,
		clock:     clock,
		timezone:  timezone,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
}

// DaySchedule exports the bookings of one resource on one civil date.
func (s *ExportService) DaySchedule(ctx context.Context, resourceID, date, format string) (*ExportResult, error) {
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	loc := s.clock.Location(s.timezone)
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	resource, err := s.resources.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "resource not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load resource")
	}

	events, err := s.events.ListBetween(ctx, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}

	dataset := s.buildDataset(resource.ID, events, loc)
	title := fmt.Sprintf("%s schedule %s", resource.Name, date)

	switch format {
	case FormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("schedule-%s-%s.csv", resource.ID, date),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		data, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			FileName:    fmt.Sprintf("schedule-%s-%s.pdf", resource.ID, date),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
}

func (s *ExportService) buildDataset(resourceID string, events []models.Event, loc *time.Location) export.Dataset {
	dataset := export.Dataset{Headers: []string{"Start", "End", "Title", "Status", "All Day"}}
	for _, ev := range events {
		if ev.ResourceID == nil || *ev.ResourceID != resourceID {
			continue
		}
		if ev.Status == models.EventStatusCancelled {
			continue
		}
		allDay := "no"
		if timeline.CoerceAllDay(ev) {
			allDay = "yes"
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Start":   ev.Start.In(loc).Format("15:04"),
			"End":     ev.End.In(loc).Format("15:04"),
			"Title":   ev.Title,
			"Status":  string(ev.Status),
			"All Day": allDay,
		})
	}
	return dataset
}
