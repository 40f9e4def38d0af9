package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
)

// CheckoutHandler handles payment, order submission and the next order
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Session returns the whole POS screen state
func (h *CheckoutHandler) Session(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	view, err := h.checkoutService.Session(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Session retrieved successfully", view)
}

// Summary returns the totals, with the cash return when received_amount is given
func (h *CheckoutHandler) Summary(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var received *float64
	if raw := strings.TrimSpace(c.Query("received_amount")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "received_amount", Message: "Must be a number"}})
			return
		}
		received = &v
	}

	summary, err := h.checkoutService.Summary(c.Request.Context(), actor, received)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Summary retrieved successfully", summary)
}

// SetAdjustments updates shipping, coupon and round-off
func (h *CheckoutHandler) SetAdjustments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.AdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	summary, err := h.checkoutService.SetAdjustments(c.Request.Context(), actor, service.AdjustmentsInput{
		Shipping: req.Shipping,
		Coupon:   req.Coupon,
		RoundOff: req.RoundOff,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Adjustments updated successfully", summary)
}

// SelectPaymentMethod records the payment method
func (h *CheckoutHandler) SelectPaymentMethod(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	method, valid := enum.ParsePaymentMethod(req.PaymentMethod)
	if !valid {
		response.ValidationError(c, []apperror.FieldError{{Field: "payment_method", Message: "Must be one of cash, card, split, credit"}})
		return
	}

	summary, err := h.checkoutService.SelectPaymentMethod(c.Request.Context(), actor, method)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment method selected", summary)
}

// OpenPayment opens the payment dialog and locks the cart
func (h *CheckoutHandler) OpenPayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	summary, err := h.checkoutService.OpenPayment(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment opened", summary)
}

// ClosePayment closes the payment dialog
func (h *CheckoutHandler) ClosePayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	summary, err := h.checkoutService.ClosePayment(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment closed", summary)
}

// PlaceOrder submits the order
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req request.PlaceOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	if req.SplitsJSON != "" && len(req.Splits) == 0 {
		if err := json.Unmarshal([]byte(req.SplitsJSON), &req.Splits); err != nil {
			response.ValidationError(c, []apperror.FieldError{{Field: "splits", Message: "Must be a JSON array of payments"}})
			return
		}
	}

	prescription, closeFile, err := formFile(c, "prescription_upload")
	if err != nil {
		response.BadRequest(c, "Failed to read prescription upload")
		return
	}
	defer closeFile()

	invoice, err := h.checkoutService.PlaceOrder(c.Request.Context(), actor, service.PlaceOrderInput{
		ReceivedAmount: req.ReceivedAmount,
		CardReference:  req.CardReference,
		Splits:         req.Splits,
		Prescription:   prescription,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Order placed successfully", invoice)
}

// NextOrder resets the session for a new order
func (h *CheckoutHandler) NextOrder(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	summary, err := h.checkoutService.NextOrder(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Ready for the next order", summary)
}

// NextOrderID returns the next order id without changing the session
func (h *CheckoutHandler) NextOrderID(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	id, err := h.checkoutService.NextOrderID(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Next order id retrieved", gin.H{"order_id": id})
}
