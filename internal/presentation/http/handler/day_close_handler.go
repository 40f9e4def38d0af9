package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
)

// DayCloseHandler handles the end-of-day reconciliation
type DayCloseHandler struct {
	dayCloseService *service.DayCloseService
}

// NewDayCloseHandler creates a new day close handler
func NewDayCloseHandler(dayCloseService *service.DayCloseService) *DayCloseHandler {
	return &DayCloseHandler{dayCloseService: dayCloseService}
}

// Summary returns the figures of a day
func (h *DayCloseHandler) Summary(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	var q request.DayCloseQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}

	data, err := h.dayCloseService.Summary(c.Request.Context(), q.Date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Day close summary retrieved successfully", data)
}

// Close posts the closing record
func (h *DayCloseHandler) Close(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var in service.DayCloseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}

	data, err := h.dayCloseService.Close(c.Request.Context(), actor, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Day closed successfully", data)
}
