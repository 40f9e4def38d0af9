package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	GSTIN     string `json:"gstin,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name     string  `json:"name"`
	BatchNo  string  `json:"batch_no,omitempty"`
	Expiry   string  `json:"expiry,omitempty"`
	Quantity int     `json:"quantity"`
	MRP      float64 `json:"mrp"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Receipt is a printable view of an invoice.
// It is NOT a database entity, it is composed from the invoice at print time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	InvoiceNo     string        `json:"invoice_no"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Customer      string        `json:"customer,omitempty"`
	Contact       string        `json:"contact,omitempty"`
	DoctorName    string        `json:"doctor_name,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []ReceiptItem `json:"items"`
	TaxGroups     []TaxGroup    `json:"tax_groups,omitempty"`
	SubTotal      float64       `json:"sub_total"`
	TotalTax      float64       `json:"total_tax"`
	RoundOff      float64       `json:"round_off"`
	Total         float64       `json:"total"`
	Savings       float64       `json:"savings"`
	Paid          float64       `json:"paid"`
	Change        float64       `json:"change"`
}

// NewReceipt builds the printable receipt of inv under header.
func NewReceipt(header ReceiptHeader, inv *Invoice) *Receipt {
	r := &Receipt{
		Header:        header,
		InvoiceNo:     inv.Number(),
		Date:          inv.InvoiceDate,
		Cashier:       inv.Cashier,
		Customer:      inv.Customer.CustomerName,
		Contact:       inv.Customer.ContactNumber,
		DoctorName:    inv.Customer.DoctorName,
		PaymentMethod: inv.Payment.Method,
		TaxGroups:     inv.Totals.TaxGroups,
		SubTotal:      inv.Totals.Subtotal,
		TotalTax:      inv.Totals.GrandTotalTax,
		RoundOff:      inv.Totals.RoundOff,
		Total:         inv.Totals.TotalPayable,
		Savings:       inv.Totals.TotalSavings,
		Paid:          inv.Payment.ReceivedAmount,
		Change:        inv.Payment.ReturnAmount,
	}
	if r.Date == "" && !inv.PlacedAt.IsZero() {
		r.Date = inv.PlacedAt.Format("02-01-2006 15:04")
	}
	for _, l := range inv.Lines {
		r.Items = append(r.Items, ReceiptItem{
			Name:     l.Name,
			BatchNo:  l.BatchNo,
			Expiry:   l.ExpiryDate,
			Quantity: l.Quantity,
			MRP:      l.MRP,
			Discount: l.DiscountPercent,
			Total:    l.TotalPrice,
		})
	}
	return r
}
