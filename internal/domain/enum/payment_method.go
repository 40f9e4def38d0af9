package enum

import "strings"

// PaymentMethod is how the customer settles an order
type PaymentMethod string

const (
	PaymentMethodNone   PaymentMethod = ""
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodSplit  PaymentMethod = "split"
	PaymentMethodCredit PaymentMethod = "credit"
)

// ParsePaymentMethod normalises user input; ok is false for unknown methods.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	return m, m.IsValid()
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodSplit, PaymentMethodCredit:
		return true
	}
	return false
}

func (m PaymentMethod) String() string {
	return string(m)
}
