package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
)

// PaymentAdjustments are the order-level inputs the cashier edits.
type PaymentAdjustments struct {
	Shipping float64 `json:"shipping"`
	Coupon   float64 `json:"coupon"`
	RoundOff bool    `json:"round_off"`
}

// PosSession is the in-progress POS state of one user.
type PosSession struct {
	UserID        string             `gorm:"size:64;primaryKey" json:"user_id"`
	StoreID       string             `gorm:"size:64;index" json:"store_id,omitempty"`
	Cart          Cart               `gorm:"serializer:json;type:text" json:"cart"`
	Customer      CustomerDetails    `gorm:"serializer:json;type:text" json:"customer"`
	Adjustments   PaymentAdjustments `gorm:"serializer:json;type:text" json:"adjustments"`
	PaymentMethod enum.PaymentMethod `gorm:"size:16" json:"payment_method"`
	Stage         enum.CheckoutStage `gorm:"not null;default:0" json:"stage"`
	DraftID       uuid.UUID          `gorm:"type:varchar(36)" json:"draft_id"`
	DraftDigest   string             `gorm:"size:64" json:"-"`
	OrderID       string             `gorm:"size:64" json:"order_id"`
	LastInvoice   *Invoice           `gorm:"serializer:json;type:text" json:"last_invoice,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TableName returns the table name for the PosSession model
func (PosSession) TableName() string {
	return "pos_sessions"
}

// NewPosSession returns an idle session for userID.
func NewPosSession(userID, storeID string) *PosSession {
	return &PosSession{
		UserID:   userID,
		StoreID:  storeID,
		Customer: DefaultCustomer(),
		Stage:    enum.CheckoutStageIdle,
		DraftID:  uuid.New(),
	}
}

// ResetForNextOrder clears the order in progress. The last invoice is kept so
// it can still be reprinted.
func (s *PosSession) ResetForNextOrder(orderID string) {
	s.Cart.Clear()
	s.Customer = DefaultCustomer()
	s.Adjustments = PaymentAdjustments{}
	s.PaymentMethod = enum.PaymentMethodNone
	s.Stage = enum.CheckoutStageIdle
	s.OrderID = orderID
	s.StartNewDraft()
}

// StartNewDraft gives the order in progress a fresh idempotency key.
func (s *PosSession) StartNewDraft() {
	s.DraftID = uuid.New()
	s.DraftDigest = ""
}

// ReviseDraft is called before the order is edited. A failed submission keeps
// its key only while the order is unchanged, so an edit after a failure
// starts a new draft and sends the checkout back to payment selection.
func (s *PosSession) ReviseDraft() {
	if s.Stage != enum.CheckoutStageFailed {
		return
	}
	s.StartNewDraft()
	if s.PaymentMethod == enum.PaymentMethodNone {
		s.Stage = enum.CheckoutStageIdle
	} else {
		s.Stage = enum.CheckoutStagePaymentMethodSelected
	}
}
