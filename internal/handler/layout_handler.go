package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/roombook-api/internal/service"
	"github.com/noah-isme/roombook-api/pkg/response"
)

// LayoutHandler wires HTTP endpoints to the layout service.
type LayoutHandler struct {
	service *service.LayoutService
}

// NewLayoutHandler creates a new handler.
func NewLayoutHandler(svc *service.LayoutService) *LayoutHandler {
	return &LayoutHandler{service: svc}
}

// Day godoc
// @Summary Day-view layout
// @Description Returns pixel geometry and column assignments for a day's bookings
// @Tags Layout
// @Produce json
// @Param date query string false "Civil date YYYY-MM-DD, defaults to today"
// @Param resource_id query string false "Restrict layout to one resource"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /layout [get]
func (h *LayoutHandler) Day(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	resourceID := c.Query("resource_id")

	layouts, err := h.service.DayLayout(c.Request.Context(), date, resourceID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, layouts, nil)
}
