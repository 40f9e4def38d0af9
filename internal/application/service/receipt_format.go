package service

import (
	"fmt"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/pkg/printer"
)

// FormatReceipt converts a Receipt into ESC/POS bytes for a printer with
// width characters per line.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.TextF("Ph: %s", r.Header.Phone)
	}
	if r.Header.GSTIN != "" {
		doc.TextF("GSTIN: %s", r.Header.GSTIN)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Invoice:", r.InvoiceNo).
		KeyValue("Date:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.Contact != "" {
		doc.KeyValue("Mobile:", r.Contact)
	}
	if r.DoctorName != "" {
		doc.KeyValue("Doctor:", r.DoctorName)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		detail := fmt.Sprintf("  MRP %.2f", item.MRP)
		if item.Discount > 0 {
			detail += fmt.Sprintf(" -%.0f%%", item.Discount)
		}
		if item.BatchNo != "" {
			detail += " B:" + item.BatchNo
		}
		if item.Expiry != "" {
			detail += " E:" + item.Expiry
		}
		doc.Text(detail)
	}

	doc.Separator('-')

	// GST
	if len(r.TaxGroups) > 0 {
		first := doc.Width() / 4
		doc.Columns([]printer.Column{
			{Text: "GST%"},
			{Text: "Taxable", Align: printer.AlignRight},
			{Text: "CGST", Align: printer.AlignRight},
			{Text: "SGST", Align: printer.AlignRight},
		}, first)
		for _, g := range r.TaxGroups {
			doc.Columns([]printer.Column{
				{Text: fmt.Sprintf("%g+%g", g.CGSTRate, g.SGSTRate)},
				{Text: fmt.Sprintf("%.2f", g.TaxableAmount), Align: printer.AlignRight},
				{Text: fmt.Sprintf("%.2f", g.CGSTAmount), Align: printer.AlignRight},
				{Text: fmt.Sprintf("%.2f", g.SGSTAmount), Align: printer.AlignRight},
			}, first)
		}
		doc.Separator('-')
	}

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.TotalTax > 0 {
		doc.KeyValue("GST (incl.):", fmt.Sprintf("%.2f", r.TotalTax))
	}
	if r.RoundOff != 0 {
		doc.KeyValue("Round off:", fmt.Sprintf("%.2f", r.RoundOff))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}
	if r.Paid > 0 {
		doc.KeyValue("Paid:", fmt.Sprintf("%.2f", r.Paid))
	}
	if r.Change > 0 {
		doc.KeyValue("Change:", fmt.Sprintf("%.2f", r.Change))
	}

	if r.Savings > 0 {
		doc.Separator('-').
			SetAlign(printer.AlignCenter).
			TextF("You saved %.2f", r.Savings).
			SetAlign(printer.AlignLeft)
	}

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you! Get well soon.").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
