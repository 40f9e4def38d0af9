package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CheckoutStage is the position of a POS session in the checkout flow
type CheckoutStage int

const (
	CheckoutStageIdle                  CheckoutStage = 0
	CheckoutStagePaymentMethodSelected CheckoutStage = 1
	CheckoutStagePaymentOpen           CheckoutStage = 2
	CheckoutStageSubmitted             CheckoutStage = 3
	CheckoutStageFailed                CheckoutStage = 4
)

var checkoutStageNames = [...]string{"Idle", "PaymentMethodSelected", "PaymentOpen", "Submitted", "Failed"}

func (s CheckoutStage) String() string {
	if int(s) < 0 || int(s) >= len(checkoutStageNames) {
		return "Idle"
	}
	return checkoutStageNames[s]
}

// CartLocked reports whether cart mutations are refused in this stage.
func (s CheckoutStage) CartLocked() bool {
	return s == CheckoutStagePaymentOpen || s == CheckoutStageSubmitted
}

// CanSubmit reports whether an order may be placed from this stage.
func (s CheckoutStage) CanSubmit() bool {
	return s == CheckoutStagePaymentOpen || s == CheckoutStageFailed
}

func (s CheckoutStage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CheckoutStage) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CheckoutStage(i)
		return nil
	}
	for i, name := range checkoutStageNames {
		if name == str {
			*s = CheckoutStage(i)
			return nil
		}
	}
	*s = CheckoutStageIdle
	return nil
}

func (s CheckoutStage) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CheckoutStage) Scan(value interface{}) error {
	if value == nil {
		*s = CheckoutStageIdle
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CheckoutStage(v)
	case int:
		*s = CheckoutStage(v)
	}
	return nil
}
