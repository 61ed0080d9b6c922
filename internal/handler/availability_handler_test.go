package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/service"
	"github.com/noah-isme/roombook-api/internal/timeline"
)

type fakeEventRepo struct {
	events []models.Event
}

func (f *fakeEventRepo) ListBetween(context.Context, time.Time, time.Time) ([]models.Event, error) {
	return f.events, nil
}

type fakeResourceRepo struct {
	resources []models.Resource
}

func (f *fakeResourceRepo) List(context.Context) ([]models.Resource, error) {
	return f.resources, nil
}

func newAvailabilityHandler(events []models.Event, resources []models.Resource) *AvailabilityHandler {
	logger := zap.NewNop()
	engine := timeline.NewAvailabilityEngine("UTC", logger)
	svc := service.NewAvailabilityService(
		&fakeEventRepo{events: events},
		&fakeResourceRepo{resources: resources},
		engine,
		nil,
		service.NewCacheService(nil, nil, 0, logger, false),
		nil,
		logger,
	)
	return NewAvailabilityHandler(svc)
}

func TestAvailabilityHandlerConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	roomID := "room-1"
	handler := newAvailabilityHandler(
		[]models.Event{{
			ID:         "evt-1",
			ResourceID: &roomID,
			Start:      time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
			End:        time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
			Status:     models.EventStatusBooked,
		}},
		[]models.Resource{{ID: roomID}},
	)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/availability?start=2025-06-02T10%3A00%3A00Z&end=2025-06-02T11%3A00%3A00Z", nil)

	handler.Check(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.ResourceAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.False(t, envelope.Data[0].Available)
	require.Len(t, envelope.Data[0].Conflicts, 1)
	assert.Equal(t, "evt-1", envelope.Data[0].Conflicts[0].ID)
}

func TestAvailabilityHandlerBadRangeFailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newAvailabilityHandler(nil, []models.Resource{{ID: "room-1"}})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/availability?start=garbage&end=garbage", nil)

	handler.Check(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.ResourceAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.True(t, envelope.Data[0].Available)
}
