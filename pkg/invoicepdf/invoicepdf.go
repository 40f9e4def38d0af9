// Package invoicepdf renders a sales invoice as an A4 PDF.
package invoicepdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
)

const (
	pageWidth = 190.0 // A4 width less 10mm margins
	rowHeight = 6.0
)

type column struct {
	title string
	width float64
	align string
}

var itemColumns = []column{
	{"#", 8, "C"},
	{"Item", 60, "L"},
	{"Batch", 24, "L"},
	{"Expiry", 20, "C"},
	{"Qty", 12, "R"},
	{"MRP", 22, "R"},
	{"Disc %", 18, "R"},
	{"Amount", 26, "R"},
}

var taxColumns = []column{
	{"Taxable", 38, "R"},
	{"CGST %", 24, "R"},
	{"CGST", 30, "R"},
	{"SGST %", 24, "R"},
	{"SGST", 30, "R"},
	{"Total Tax", 44, "R"},
}

// Render writes the PDF invoice of r to w.
func Render(w io.Writer, r *entity.Receipt) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle("Invoice "+r.InvoiceNo, true)
	pdf.SetCreator(r.Header.StoreName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	header(pdf, tr, r)
	parties(pdf, tr, r)
	items(pdf, tr, r)
	taxes(pdf, r)
	totals(pdf, tr, r)

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(pageWidth, 5, tr("Thank you for your purchase. Get well soon!"), "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("invoicepdf: %w", err)
	}
	return pdf.Output(w)
}

func header(pdf *gofpdf.Fpdf, tr func(string) string, r *entity.Receipt) {
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 8, tr(r.Header.StoreName), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{r.Header.Address, phoneLine(r.Header.Phone), gstinLine(r.Header.GSTIN)} {
		if line != "" {
			pdf.CellFormat(pageWidth, 5, tr(line), "", 1, "C", false, 0, "")
		}
	}

	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(pageWidth, 7, "TAX INVOICE", "TB", 1, "C", false, 0, "")
	pdf.Ln(2)
}

func parties(pdf *gofpdf.Fpdf, tr func(string) string, r *entity.Receipt) {
	left := [][2]string{
		{"Customer", orDash(r.Customer)},
		{"Contact", orDash(r.Contact)},
		{"Doctor", orDash(r.DoctorName)},
	}
	right := [][2]string{
		{"Invoice No", r.InvoiceNo},
		{"Date", r.Date},
		{"Cashier", orDash(r.Cashier)},
	}

	half := pageWidth / 2
	for i := range left {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(25, 5, left[i][0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(half-25, 5, tr(left[i][1]), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(25, 5, right[i][0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(half-25, 5, tr(right[i][1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
}

func items(pdf *gofpdf.Fpdf, tr func(string) string, r *entity.Receipt) {
	tableHeader(pdf, itemColumns)

	pdf.SetFont("Arial", "", 9)
	for i, item := range r.Items {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			truncate(pdf, tr(item.Name), itemColumns[1].width-2),
			item.BatchNo,
			item.Expiry,
			fmt.Sprintf("%d", item.Quantity),
			money(item.MRP),
			fmt.Sprintf("%.2f", item.Discount),
			money(item.Total),
		}
		for j, c := range itemColumns {
			pdf.CellFormat(c.width, rowHeight, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func taxes(pdf *gofpdf.Fpdf, r *entity.Receipt) {
	if len(r.TaxGroups) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(pageWidth, 6, "GST Summary", "", 1, "L", false, 0, "")
	tableHeader(pdf, taxColumns)

	pdf.SetFont("Arial", "", 9)
	for _, g := range r.TaxGroups {
		cells := []string{
			money(g.TaxableAmount),
			fmt.Sprintf("%.2f", g.CGSTRate),
			money(g.CGSTAmount),
			fmt.Sprintf("%.2f", g.SGSTRate),
			money(g.SGSTAmount),
			money(g.TotalTax),
		}
		for j, c := range taxColumns {
			pdf.CellFormat(c.width, rowHeight, cells[j], "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func totals(pdf *gofpdf.Fpdf, tr func(string) string, r *entity.Receipt) {
	rows := [][2]string{
		{"Sub Total", money(r.SubTotal)},
		{"Total GST", money(r.TotalTax)},
		{"Round Off", money(r.RoundOff)},
	}
	label, value := 40.0, 35.0
	indent := pageWidth - label - value

	pdf.SetFont("Arial", "", 10)
	for _, row := range rows {
		pdf.CellFormat(indent, rowHeight, "", "", 0, "", false, 0, "")
		pdf.CellFormat(label, rowHeight, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(value, rowHeight, row[1], "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(indent, 8, "", "", 0, "", false, 0, "")
	pdf.CellFormat(label, 8, "Total Payable", "TB", 0, "L", true, 0, "")
	pdf.CellFormat(value, 8, "Rs. "+money(r.Total), "TB", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	if r.Savings > 0 {
		pdf.CellFormat(indent, rowHeight, "", "", 0, "", false, 0, "")
		pdf.CellFormat(label, rowHeight, "You Saved", "", 0, "L", false, 0, "")
		pdf.CellFormat(value, rowHeight, money(r.Savings), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	payment := "Payment: " + strings.ToUpper(orDash(r.PaymentMethod))
	if r.Paid > 0 {
		payment += fmt.Sprintf("    Paid: %s", money(r.Paid))
	}
	if r.Change > 0 {
		payment += fmt.Sprintf("    Change: %s", money(r.Change))
	}
	pdf.CellFormat(pageWidth, rowHeight, tr(payment), "", 1, "L", false, 0, "")
}

func tableHeader(pdf *gofpdf.Fpdf, cols []column) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(220, 235, 245)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width {
		s = s[:len(s)-1]
	}
	return s + "..."
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func phoneLine(phone string) string {
	if phone == "" {
		return ""
	}
	return "Phone: " + phone
}

func gstinLine(gstin string) string {
	if gstin == "" {
		return ""
	}
	return "GSTIN: " + gstin
}
