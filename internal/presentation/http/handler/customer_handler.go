package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
)

// CustomerHandler handles the customer of the current order
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// Lookup finds a customer by mobile number and attaches it to the order
func (h *CustomerHandler) Lookup(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.CustomerLookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.customerService.Lookup(c.Request.Context(), actor, req.MobileNumber)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Customer found"
	if !result.Found {
		message = "Customer not found, continuing as new customer"
	}
	response.OK(c, message, result)
}

// Set replaces the customer with details entered by hand
func (h *CustomerHandler) Set(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req entity.CustomerDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	customer, err := h.customerService.SetCustomer(c.Request.Context(), actor, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer updated successfully", customer)
}

// Reset restores the walk-in customer
func (h *CustomerHandler) Reset(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	customer, err := h.customerService.Reset(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Customer reset successfully", customer)
}
