package entity

// TaxGroup is the GST breakdown of all lines sharing a (cgst, sgst) pair.
type TaxGroup struct {
	CGSTRate      float64 `json:"cgst"`
	SGSTRate      float64 `json:"sgst"`
	TaxableAmount float64 `json:"taxable_amount"`
	CGSTAmount    float64 `json:"cgst_amount"`
	SGSTAmount    float64 `json:"sgst_amount"`
	TotalTax      float64 `json:"total_tax"`
}

// OrderTotals is the computed money summary of a cart.
type OrderTotals struct {
	MedicalSubtotal    float64    `json:"medical_subtotal"`
	NonMedicalSubtotal float64    `json:"non_medical_subtotal"`
	MedicalDiscount    float64    `json:"medical_discount"`
	NonMedicalDiscount float64    `json:"non_medical_discount"`
	Subtotal           float64    `json:"sub_total"`
	TaxGroups          []TaxGroup `json:"tax_groups"`
	GrandTotalTax      float64    `json:"grand_total_tax"`
	Shipping           float64    `json:"shipping"`
	Coupon             float64    `json:"coupon"`
	RoundOff           float64    `json:"round_off"`
	TotalPayable       float64    `json:"total_payable"`
	TotalSavings       float64    `json:"total_savings"`
}

// PaymentSplit is one leg of a split payment.
type PaymentSplit struct {
	Method    string  `json:"method"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference,omitempty"`
}

// OrderPayment is how the order was settled.
type OrderPayment struct {
	Method         string         `json:"payment_method"`
	ReceivedAmount float64        `json:"received_amount"`
	ReturnAmount   float64        `json:"return_amount"`
	CardReference  string         `json:"card_reference,omitempty"`
	Splits         []PaymentSplit `json:"splits,omitempty"`
	Amount         float64        `json:"amount"`
}

// OrderCharges are the order-level charges entered by the cashier.
type OrderCharges struct {
	Shipping float64 `json:"shipping"`
	Coupon   float64 `json:"coupon"`
}

// OrderDiscounts are the discount accumulators of the order.
type OrderDiscounts struct {
	MedicalDiscount    float64 `json:"medical_discount"`
	NonMedicalDiscount float64 `json:"non_medical_discount"`
	TotalSavings       float64 `json:"total_savings"`
}

// OrderTaxDetails is the tax table of the order.
type OrderTaxDetails struct {
	Groups        []TaxGroup `json:"groups"`
	GrandTotalTax float64    `json:"grand_total_tax"`
}

// OrderPayload is the body submitted to the backend's sales endpoint.
type OrderPayload struct {
	OrderID        string          `json:"order_id"`
	UserID         string          `json:"user_id"`
	StoreID        string          `json:"store_id,omitempty"`
	Customer       CustomerDetails `json:"customer"`
	ProductDetails []CartLine      `json:"product_details"`
	Payment        OrderPayment    `json:"payment"`
	Charges        OrderCharges    `json:"charges"`
	Discounts      OrderDiscounts  `json:"discounts"`
	TaxDetails     OrderTaxDetails `json:"tax_details"`
	RoundOff       float64         `json:"round_off"`
	SubTotal       float64         `json:"sub_total"`
	Total          float64         `json:"total"`
}

// NewOrderPayload assembles the submitted order from the session state.
func NewOrderPayload(orderID, userID, storeID string, customer CustomerDetails, lines []CartLine, totals OrderTotals, payment OrderPayment) OrderPayload {
	return OrderPayload{
		OrderID:        orderID,
		UserID:         userID,
		StoreID:        storeID,
		Customer:       customer,
		ProductDetails: lines,
		Payment:        payment,
		Charges:        OrderCharges{Shipping: totals.Shipping, Coupon: totals.Coupon},
		Discounts: OrderDiscounts{
			MedicalDiscount:    totals.MedicalDiscount,
			NonMedicalDiscount: totals.NonMedicalDiscount,
			TotalSavings:       totals.TotalSavings,
		},
		TaxDetails: OrderTaxDetails{Groups: totals.TaxGroups, GrandTotalTax: totals.GrandTotalTax},
		RoundOff:   totals.RoundOff,
		SubTotal:   totals.Subtotal,
		Total:      totals.TotalPayable,
	}
}
