package entity

// CustomerDetails is the customer attached to the order being rung up.
type CustomerDetails struct {
	CustomerID       string `json:"customer_id"`
	ContactNumber    string `json:"contact_number" validate:"omitempty,len=10,numeric"`
	CustomerName     string `json:"customer_name" validate:"max=255"`
	Email            string `json:"email" validate:"omitempty,email"`
	GSTIN            string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	CustomerType     string `json:"customerType"`
	ABHANumber       string `json:"abha_number" validate:"omitempty,len=14,numeric"`
	DoctorName       string `json:"doctor_name" validate:"max=255"`
	CustomerCategory string `json:"customer_category"`
}

// DefaultCustomer is the walk-in customer a fresh order starts with.
func DefaultCustomer() CustomerDetails {
	return CustomerDetails{CustomerCategory: "walk-in"}
}

// IsIdentified reports whether the customer is known to the backend.
func (c CustomerDetails) IsIdentified() bool {
	return c.CustomerID != ""
}
