package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/invoicepdf"
	"github.com/sangkips/pharmacy-pos/pkg/printer"
	"go.uber.org/zap"
)

// InvoiceService renders and prints the invoice of the last placed order.
type InvoiceService struct {
	sessions *SessionStore
	printer  printer.Printer
	header   entity.ReceiptHeader
	width    int
	log      *zap.Logger
}

// NewInvoiceService creates a new invoice service. width is the receipt line
// width in characters: 32 for 58mm paper, 48 for 80mm.
func NewInvoiceService(sessions *SessionStore, p printer.Printer, header entity.ReceiptHeader, width int, log *zap.Logger) *InvoiceService {
	return &InvoiceService{
		sessions: sessions,
		printer:  p,
		header:   header,
		width:    width,
		log:      log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// PDF is a rendered invoice document.
type PDF struct {
	Filename string
	Data     []byte
}

// LastInvoice returns the invoice of the user's last placed order.
func (s *InvoiceService) LastInvoice(ctx context.Context, actor Actor) (*entity.Invoice, error) {
	session, err := s.sessions.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	if session.LastInvoice == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return session.LastInvoice, nil
}

// Receipt returns the printable view of the last invoice.
func (s *InvoiceService) Receipt(ctx context.Context, actor Actor) (*entity.Receipt, error) {
	inv, err := s.LastInvoice(ctx, actor)
	if err != nil {
		return nil, err
	}
	return entity.NewReceipt(s.header, inv), nil
}

// RenderPDF renders the last invoice as an A4 PDF.
func (s *InvoiceService) RenderPDF(ctx context.Context, actor Actor) (*PDF, error) {
	receipt, err := s.Receipt(ctx, actor)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := invoicepdf.Render(&buf, receipt); err != nil {
		s.log.Error("failed to render invoice pdf", zap.String("invoice_no", receipt.InvoiceNo), zap.Error(err))
		return nil, err
	}
	return &PDF{Filename: "invoice-" + receipt.InvoiceNo + ".pdf", Data: buf.Bytes()}, nil
}

// PrintLast sends the receipt of the last invoice to the printer. The receipt
// is returned even when printing fails so the terminal can show it.
func (s *InvoiceService) PrintLast(ctx context.Context, actor Actor) (*entity.Receipt, error) {
	receipt, err := s.Receipt(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.log.Warn("printer error", zap.String("invoice_no", receipt.InvoiceNo), zap.Error(err))
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// Status returns printer connection status.
func (s *InvoiceService) Status(ctx context.Context) *PrinterStatus {
	kind := s.printer.Kind()
	return &PrinterStatus{
		Configured: kind != "none",
		Connected:  s.printer.IsConnected(ctx),
		Type:       kind,
	}
}

// TestPrint sends a sample receipt to the printer.
func (s *InvoiceService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:        s.header,
		InvoiceNo:     "TEST-001",
		Date:          "Printer test",
		Cashier:       "System",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", BatchNo: "T1", Quantity: 1, MRP: 10, Total: 10},
			{Name: "Test Item 2", BatchNo: "T2", Quantity: 2, MRP: 5, Total: 10},
		},
		TaxGroups: []entity.TaxGroup{{CGSTRate: 6, SGSTRate: 6, TaxableAmount: 17.86, CGSTAmount: 1.07, SGSTAmount: 1.07, TotalTax: 2.14}},
		SubTotal:  20,
		TotalTax:  2.14,
		Total:     20,
		Paid:      20,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}
