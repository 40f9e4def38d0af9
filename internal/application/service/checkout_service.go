package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
	"github.com/sangkips/pharmacy-pos/internal/domain/pricing"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// CheckoutService drives a session through payment, submission and the
// start of the next order
type CheckoutService struct {
	sessions *SessionStore
	backend  OrderBackend
	log      *zap.Logger
	orderIDs singleflight.Group
	now      func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(sessions *SessionStore, backend OrderBackend, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		sessions: sessions,
		backend:  backend,
		log:      log,
		now:      time.Now,
	}
}

// AdjustmentsInput holds the order-level fields to change; nil leaves a field as is.
type AdjustmentsInput struct {
	Shipping *float64
	Coupon   *float64
	RoundOff *bool
}

// CheckoutSummary is the totals panel of the POS screen.
type CheckoutSummary struct {
	Summary        pricing.Summary           `json:"summary"`
	Adjustments    entity.PaymentAdjustments `json:"adjustments"`
	PaymentMethod  enum.PaymentMethod        `json:"payment_method"`
	Stage          enum.CheckoutStage        `json:"stage"`
	OrderID        string                    `json:"order_id"`
	ReceivedAmount *float64                  `json:"received_amount,omitempty"`
	ReturnAmount   *float64                  `json:"return_amount,omitempty"`
}

func newCheckoutSummary(s *entity.PosSession) *CheckoutSummary {
	return &CheckoutSummary{
		Summary:       summarize(s),
		Adjustments:   s.Adjustments,
		PaymentMethod: s.PaymentMethod,
		Stage:         s.Stage,
		OrderID:       s.OrderID,
	}
}

// PlaceOrderInput carries the payment details entered in the payment dialog.
type PlaceOrderInput struct {
	ReceivedAmount *float64
	CardReference  string
	Splits         []entity.PaymentSplit
	Prescription   *pharmacyapi.File
}

// Summary returns the current totals. When received is given the cash return
// amount is included; a negative value means the customer still owes money.
func (s *CheckoutService) Summary(ctx context.Context, actor Actor, received *float64) (*CheckoutSummary, error) {
	session, err := s.sessions.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := newCheckoutSummary(session)
	if received != nil {
		ret := out.Summary.ReturnAmount(*received).InexactFloat64()
		out.ReceivedAmount = received
		out.ReturnAmount = &ret
	}
	return out, nil
}

// SetAdjustments updates shipping, coupon and the round-off toggle.
func (s *CheckoutService) SetAdjustments(ctx context.Context, actor Actor, in AdjustmentsInput) (*CheckoutSummary, error) {
	var errs []apperror.FieldError
	if in.Shipping != nil && *in.Shipping < 0 {
		errs = append(errs, apperror.FieldError{Field: "shipping", Message: "Shipping cannot be negative"})
	}
	if in.Coupon != nil && *in.Coupon < 0 {
		errs = append(errs, apperror.FieldError{Field: "coupon", Message: "Coupon cannot be negative"})
	}
	if len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}

	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		if in.Shipping != nil {
			session.Adjustments.Shipping = *in.Shipping
		}
		if in.Coupon != nil {
			session.Adjustments.Coupon = *in.Coupon
		}
		if in.RoundOff != nil {
			session.Adjustments.RoundOff = *in.RoundOff
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutSummary(session), nil
}

// SelectPaymentMethod records how the customer will pay.
func (s *CheckoutService) SelectPaymentMethod(ctx context.Context, actor Actor, method enum.PaymentMethod) (*CheckoutSummary, error) {
	if !method.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "payment_method", Message: "Payment method must be one of cash, card, split, credit"},
		})
	}

	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if session.Stage == enum.CheckoutStageSubmitted {
			return apperror.NewConflictError("Order already submitted, start the next order")
		}
		if session.Cart.IsEmpty() {
			return apperror.ErrEmptyCart
		}
		session.PaymentMethod = method
		session.Stage = enum.CheckoutStagePaymentMethodSelected
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutSummary(session), nil
}

// OpenPayment opens the payment dialog of the selected method. The cart is
// locked until the dialog is closed or the order is placed.
func (s *CheckoutService) OpenPayment(ctx context.Context, actor Actor) (*CheckoutSummary, error) {
	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		switch session.Stage {
		case enum.CheckoutStageSubmitted:
			return apperror.NewConflictError("Order already submitted, start the next order")
		case enum.CheckoutStagePaymentOpen:
			return nil
		}
		if session.PaymentMethod == enum.PaymentMethodNone {
			return apperror.NewConflictError("Select a payment method first")
		}
		if session.Cart.IsEmpty() {
			return apperror.ErrEmptyCart
		}
		session.Stage = enum.CheckoutStagePaymentOpen
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutSummary(session), nil
}

// ClosePayment dismisses the payment dialog without placing the order.
func (s *CheckoutService) ClosePayment(ctx context.Context, actor Actor) (*CheckoutSummary, error) {
	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if session.Stage == enum.CheckoutStagePaymentOpen {
			session.Stage = enum.CheckoutStagePaymentMethodSelected
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutSummary(session), nil
}

// PlaceOrder submits the order once. On success the cart is cleared and the
// invoice kept on the session; on failure the cart and customer are left as
// they were so the cashier can correct and resubmit.
func (s *CheckoutService) PlaceOrder(ctx context.Context, actor Actor, in PlaceOrderInput) (*entity.Invoice, error) {
	var invoice *entity.Invoice

	_, err := s.sessions.Do(ctx, actor, func(session *entity.PosSession) (bool, error) {
		switch {
		case session.Stage == enum.CheckoutStageSubmitted:
			return false, apperror.NewConflictError("Order already submitted, start the next order")
		case !session.Stage.CanSubmit():
			return false, apperror.NewConflictError("Open the payment dialog before placing the order")
		case session.Cart.IsEmpty():
			return false, apperror.ErrEmptyCart
		}

		summary := summarize(session)
		payment, err := buildPayment(session, summary, in)
		if err != nil {
			return false, err
		}

		if session.OrderID == "" {
			id, err := s.nextOrderID(ctx, actor)
			if err != nil {
				return false, err
			}
			session.OrderID = id
		}

		totals := summary.Totals()
		lines := append([]entity.CartLine(nil), session.Cart.Lines...)
		payload := entity.NewOrderPayload(session.OrderID, actor.UserID, session.StoreID, session.Customer, lines, totals, payment)

		digest, err := payloadDigest(payload)
		if err != nil {
			return false, err
		}
		if session.DraftDigest != "" && session.DraftDigest != digest {
			session.StartNewDraft()
		}
		session.DraftDigest = digest

		placed, err := s.backend.PlaceOrder(ctx, payload, in.Prescription, session.DraftID.String())
		if err != nil {
			session.Stage = enum.CheckoutStageFailed
			s.log.Warn("order submission failed",
				zap.String("user_id", actor.UserID),
				zap.String("order_id", session.OrderID),
				zap.Error(err),
			)
			return true, err
		}

		now := s.now()
		invoice = &entity.Invoice{
			InvoiceNo:   placed.InvoiceNo.String(),
			OrderID:     session.OrderID,
			InvoiceDate: placed.InvoiceDate,
			Cashier:     actor.Name,
			Customer:    session.Customer,
			Lines:       lines,
			Totals:      totals,
			Payment:     payment,
			PlacedAt:    now,
		}
		if id := placed.OrderID.String(); id != "" {
			invoice.OrderID = id
		}
		if invoice.InvoiceDate == "" {
			invoice.InvoiceDate = now.Format("2006-01-02")
		}

		session.LastInvoice = invoice
		session.Cart.Clear()
		session.Stage = enum.CheckoutStageSubmitted

		s.log.Info("order placed",
			zap.String("user_id", actor.UserID),
			zap.String("order_id", invoice.OrderID),
			zap.String("invoice_no", invoice.InvoiceNo),
			zap.Float64("total", totals.TotalPayable),
		)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func buildPayment(session *entity.PosSession, summary pricing.Summary, in PlaceOrderInput) (entity.OrderPayment, error) {
	total := summary.Totals().TotalPayable
	payment := entity.OrderPayment{
		Method: session.PaymentMethod.String(),
		Amount: total,
	}

	switch session.PaymentMethod {
	case enum.PaymentMethodCash:
		received := total
		if in.ReceivedAmount != nil {
			received = *in.ReceivedAmount
		}
		if received < 0 {
			return payment, apperror.NewValidationError([]apperror.FieldError{
				{Field: "received_amount", Message: "Received amount cannot be negative"},
			})
		}
		payment.ReceivedAmount = received
		payment.ReturnAmount = summary.ReturnAmount(received).InexactFloat64()
	case enum.PaymentMethodCard:
		payment.ReceivedAmount = total
		payment.CardReference = in.CardReference
	case enum.PaymentMethodSplit:
		if err := summary.ValidateSplits(in.Splits); err != nil {
			return payment, err
		}
		payment.ReceivedAmount = total
		payment.Splits = in.Splits
	case enum.PaymentMethodCredit:
		if !session.Customer.IsIdentified() {
			return payment, apperror.NewValidationError([]apperror.FieldError{
				{Field: "customer", Message: "Credit sales need a registered customer"},
			})
		}
	default:
		return payment, apperror.NewConflictError("Select a payment method first")
	}
	return payment, nil
}

// SessionView is the whole POS screen state of a user.
type SessionView struct {
	Cart          *CartView                 `json:"cart"`
	Customer      entity.CustomerDetails    `json:"customer"`
	Adjustments   entity.PaymentAdjustments `json:"adjustments"`
	PaymentMethod enum.PaymentMethod        `json:"payment_method"`
	Stage         enum.CheckoutStage        `json:"stage"`
	OrderID       string                    `json:"order_id"`
	DraftID       string                    `json:"draft_id"`
	LastInvoiceNo string                    `json:"last_invoice_no,omitempty"`
}

// Session returns the state of actor's POS screen. A session without an
// order id gets one from the backend; when that fails the session is returned
// without it.
func (s *CheckoutService) Session(ctx context.Context, actor Actor) (*SessionView, error) {
	session, err := s.sessions.Get(ctx, actor)
	if err != nil {
		return nil, err
	}

	if session.OrderID == "" && session.Stage != enum.CheckoutStageSubmitted {
		id, err := s.nextOrderID(ctx, actor)
		if err != nil {
			s.log.Warn("next order id unavailable", zap.String("user_id", actor.UserID), zap.Error(err))
		} else {
			session, err = s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
				if session.OrderID == "" {
					session.OrderID = id
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	view := &SessionView{
		Cart:          newCartView(session),
		Customer:      session.Customer,
		Adjustments:   session.Adjustments,
		PaymentMethod: session.PaymentMethod,
		Stage:         session.Stage,
		OrderID:       session.OrderID,
		DraftID:       session.DraftID.String(),
	}
	if session.LastInvoice != nil {
		view.LastInvoiceNo = session.LastInvoice.Number()
	}
	return view, nil
}

// NextOrder starts a fresh order: the next order id is fetched and the cart,
// customer and payment state are reset.
func (s *CheckoutService) NextOrder(ctx context.Context, actor Actor) (*CheckoutSummary, error) {
	id, err := s.nextOrderID(ctx, actor)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		session.ResetForNextOrder(id)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return newCheckoutSummary(session), nil
}

// NextOrderID fetches the next order id without touching the session.
func (s *CheckoutService) NextOrderID(ctx context.Context, actor Actor) (string, error) {
	return s.nextOrderID(ctx, actor)
}

// nextOrderID collapses concurrent fetches of the same user into one call.
func (s *CheckoutService) nextOrderID(ctx context.Context, actor Actor) (string, error) {
	v, err, _ := s.orderIDs.Do(actor.UserID, func() (interface{}, error) {
		return s.backend.NextOrderID(context.WithoutCancel(ctx))
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// payloadDigest fingerprints an order payload. A retry reuses the draft key
// only when the digest is unchanged.
func payloadDigest(payload entity.OrderPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
