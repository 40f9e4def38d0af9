package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
)

// CartHandler handles cart HTTP requests
type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get returns the cart and its totals
func (h *CartHandler) Get(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	view, err := h.cartService.GetCart(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart retrieved successfully", view)
}

// AddLine adds a line or updates the matching one
func (h *CartHandler) AddLine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.cartService.AddLine(c.Request.Context(), actor, req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart updated successfully", view)
}

// Replace swaps the whole cart
func (h *CartHandler) Replace(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	lines := make([]entity.CartLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, l.ToEntity())
	}

	view, err := h.cartService.ReplaceLines(c.Request.Context(), actor, lines)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart replaced successfully", view)
}

// RemoveLine drops the line identified by the query parameters
func (h *CartHandler) RemoveLine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.LineKeyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	view, err := h.cartService.RemoveLine(c.Request.Context(), actor, req.ToEntity())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Line removed successfully", view)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	view, err := h.cartService.Clear(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cart cleared successfully", view)
}
