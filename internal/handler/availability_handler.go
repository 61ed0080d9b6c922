package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/roombook-api/internal/models"
	"github.com/noah-isme/roombook-api/internal/service"
	"github.com/noah-isme/roombook-api/pkg/response"
)

// AvailabilityHandler wires HTTP endpoints to the availability service.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Check godoc
// @Summary Check resource availability
// @Description Reports per-resource availability and conflicts for a candidate window
// @Tags Availability
// @Produce json
// @Param start query string true "RFC 3339 window start"
// @Param end query string true "RFC 3339 window end"
// @Param view query string false "day, week or month" default(day)
// @Param exclude_event_id query string false "Event excluded from conflicts (edit in progress)"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) Check(c *gin.Context) {
	req := service.AvailabilityRequest{
		Start:          c.Query("start"),
		End:            c.Query("end"),
		View:           models.ViewGranularity(c.DefaultQuery("view", string(models.ViewDay))),
		ExcludeEventID: c.Query("exclude_event_id"),
	}

	result, err := h.service.Check(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
