package service

import (
	"context"
	"fmt"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
	"github.com/sangkips/pharmacy-pos/internal/domain/pricing"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// CartService applies cart mutations to the user's POS session
type CartService struct {
	sessions *SessionStore
	log      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(sessions *SessionStore, log *zap.Logger) *CartService {
	return &CartService{sessions: sessions, log: log}
}

// CartView is the cart together with its computed totals.
type CartView struct {
	Lines   []entity.CartLine  `json:"lines"`
	Summary pricing.Summary    `json:"summary"`
	Stage   enum.CheckoutStage `json:"stage"`
}

func newCartView(s *entity.PosSession) *CartView {
	lines := s.Cart.Lines
	if lines == nil {
		lines = []entity.CartLine{}
	}
	return &CartView{
		Lines:   lines,
		Summary: summarize(s),
		Stage:   s.Stage,
	}
}

func summarize(s *entity.PosSession) pricing.Summary {
	return pricing.Compute(s.Cart.Lines, pricing.Options{
		Shipping: s.Adjustments.Shipping,
		Coupon:   s.Adjustments.Coupon,
		RoundOff: s.Adjustments.RoundOff,
	})
}

// beginDraftEdit refuses edits while the cart is locked and otherwise marks
// the draft as revised.
func beginDraftEdit(s *entity.PosSession) error {
	if s.Stage.CartLocked() {
		if s.Stage == enum.CheckoutStageSubmitted {
			return apperror.NewConflictError("Order already submitted, start the next order")
		}
		return apperror.NewConflictError("Close the payment dialog before changing the cart")
	}
	s.ReviseDraft()
	return nil
}

// ValidateLine checks a line before it enters the cart.
func ValidateLine(line entity.CartLine) error {
	var errs []apperror.FieldError
	if line.ProductID <= 0 {
		errs = append(errs, apperror.FieldError{Field: "product_id", Message: "Product is required"})
	}
	if !line.SaleType.IsValid() {
		errs = append(errs, apperror.FieldError{Field: "sale_type", Message: "Sale type must be pack or unit"})
	}
	if line.Quantity <= 0 {
		errs = append(errs, apperror.FieldError{Field: "quantity", Message: "Quantity must be greater than zero"})
	}
	if line.AvailableStock != nil && line.Quantity > *line.AvailableStock {
		errs = append(errs, apperror.FieldError{
			Field:   "quantity",
			Message: fmt.Sprintf("Only %d in stock for batch %s", *line.AvailableStock, line.BatchNo),
		})
	}
	if line.MRP < 0 {
		errs = append(errs, apperror.FieldError{Field: "mrp", Message: "MRP cannot be negative"})
	}
	if line.DiscountPercent < 0 || line.DiscountPercent > 100 {
		errs = append(errs, apperror.FieldError{Field: "discount_percent", Message: "Discount must be between 0 and 100"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// GetCart returns the cart of actor.
func (s *CartService) GetCart(ctx context.Context, actor Actor) (*CartView, error) {
	session, err := s.sessions.Get(ctx, actor)
	if err != nil {
		return nil, err
	}
	return newCartView(session), nil
}

// AddLine adds line or, when its key is already present, updates quantity and
// discount of the existing line.
func (s *CartService) AddLine(ctx context.Context, actor Actor, line entity.CartLine) (*CartView, error) {
	if err := ValidateLine(line); err != nil {
		return nil, err
	}
	line.TotalPrice = pricing.LineTotal(line)

	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		session.Cart.Add(line)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logMutation("add", actor, session, zap.Int64("product_id", line.ProductID), zap.String("batch_no", line.BatchNo))
	return newCartView(session), nil
}

// ReplaceLines swaps the whole cart.
func (s *CartService) ReplaceLines(ctx context.Context, actor Actor, lines []entity.CartLine) (*CartView, error) {
	for i := range lines {
		if err := ValidateLine(lines[i]); err != nil {
			return nil, err
		}
		lines[i].TotalPrice = pricing.LineTotal(lines[i])
	}

	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		session.Cart.Replace(lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logMutation("replace", actor, session)
	return newCartView(session), nil
}

// RemoveLine drops the line with key. Unknown keys are ignored.
func (s *CartService) RemoveLine(ctx context.Context, actor Actor, key entity.LineKey) (*CartView, error) {
	var removed bool
	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		removed = session.Cart.Remove(key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logMutation("remove", actor, session, zap.Int64("product_id", key.ProductID), zap.Bool("removed", removed))
	return newCartView(session), nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, actor Actor) (*CartView, error) {
	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		session.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logMutation("clear", actor, session)
	return newCartView(session), nil
}

func (s *CartService) logMutation(action string, actor Actor, session *entity.PosSession, fields ...zap.Field) {
	s.log.Debug("cart mutation", append([]zap.Field{
		zap.String("action", action),
		zap.String("user_id", actor.UserID),
		zap.Int("lines", session.Cart.Len()),
	}, fields...)...)
}
