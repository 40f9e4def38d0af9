package entity

import "time"

// Invoice is the record of a placed order kept for reprinting.
type Invoice struct {
	InvoiceNo   string          `json:"invoice_no"`
	OrderID     string          `json:"order_id"`
	InvoiceDate string          `json:"invoice_date"`
	Cashier     string          `json:"cashier,omitempty"`
	Customer    CustomerDetails `json:"customer"`
	Lines       []CartLine      `json:"lines"`
	Totals      OrderTotals     `json:"totals"`
	Payment     OrderPayment    `json:"payment"`
	PlacedAt    time.Time       `json:"placed_at"`
}

// Number returns the invoice number, falling back to the order id.
func (i *Invoice) Number() string {
	if i.InvoiceNo != "" {
		return i.InvoiceNo
	}
	return i.OrderID
}
