package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
)

// HoldHandler handles parked orders
type HoldHandler struct {
	holdService *service.HoldService
}

// NewHoldHandler creates a new hold handler
func NewHoldHandler(holdService *service.HoldService) *HoldHandler {
	return &HoldHandler{holdService: holdService}
}

// Hold parks the current order
func (h *HoldHandler) Hold(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	result, err := h.holdService.Hold(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order held successfully", result)
}

// List returns the held orders
func (h *HoldHandler) List(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	orders, err := h.holdService.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held orders retrieved successfully", orders)
}

// Retrieve loads a held order into the current session
func (h *HoldHandler) Retrieve(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	view, err := h.holdService.Retrieve(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Held order retrieved successfully", view)
}

// Delete discards a held order
func (h *HoldHandler) Delete(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}

	if err := h.holdService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
