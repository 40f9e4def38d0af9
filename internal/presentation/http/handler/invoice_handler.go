package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pharmacy-pos/internal/application/service"
	"github.com/sangkips/pharmacy-pos/internal/presentation/http/dto/response"
)

// InvoiceHandler serves the last invoice and drives the receipt printer
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Last returns the invoice of the last placed order
func (h *InvoiceHandler) Last(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	receipt, err := h.invoiceService.Receipt(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Invoice retrieved successfully", receipt)
}

// PDF downloads the last invoice as a PDF document
func (h *InvoiceHandler) PDF(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	pdf, err := h.invoiceService.RenderPDF(c.Request.Context(), actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, pdf.Filename, "application/pdf", pdf.Data)
}

// Print sends the last invoice to the receipt printer
func (h *InvoiceHandler) Print(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	receipt, err := h.invoiceService.PrintLast(c.Request.Context(), actor)
	if err != nil {
		if receipt == nil {
			response.Error(c, err)
			return
		}
		// Printer failed but the receipt exists; return it with a warning
		response.OK(c, "Receipt generated but printing failed: "+err.Error(), receipt)
		return
	}
	response.OK(c, "Receipt printed successfully", receipt)
}

// PrinterStatus returns the printer connection status
func (h *InvoiceHandler) PrinterStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.invoiceService.Status(c.Request.Context()))
}

// TestPrint sends a test receipt to the printer
func (h *InvoiceHandler) TestPrint(c *gin.Context) {
	receipt, err := h.invoiceService.TestPrint(c.Request.Context())
	if err != nil {
		response.OK(c, "Test receipt generated but printing failed: "+err.Error(), receipt)
		return
	}
	response.OK(c, "Test receipt printed successfully", receipt)
}
