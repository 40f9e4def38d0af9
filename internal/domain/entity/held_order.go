package entity

// HoldSnapshot is the state parked server-side by a hold and restored by a
// retrieve.
type HoldSnapshot struct {
	Cart        []CartLine         `json:"cart"`
	Customer    CustomerDetails    `json:"customer"`
	Adjustments PaymentAdjustments `json:"payment"`
	OrderID     string             `json:"order_id,omitempty"`
}

// HeldOrder is a row of the held-orders list.
type HeldOrder struct {
	HoldID        string  `json:"hold_id"`
	CustomerName  string  `json:"customer_name"`
	ContactNumber string  `json:"contact_number"`
	TotalAmount   float64 `json:"total_amount"`
	CreatedAt     string  `json:"created_at"`
}
