package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"go.uber.org/zap"
)

// HoldService parks carts on the backend and brings them back
type HoldService struct {
	sessions *SessionStore
	backend  HoldBackend
	orders   OrderBackend
	log      *zap.Logger
}

// NewHoldService creates a new hold service
func NewHoldService(sessions *SessionStore, backend HoldBackend, orders OrderBackend, log *zap.Logger) *HoldService {
	return &HoldService{sessions: sessions, backend: backend, orders: orders, log: log}
}

// HoldResult is returned after a cart was parked.
type HoldResult struct {
	HoldID  string `json:"hold_id"`
	OrderID string `json:"order_id"`
}

// Hold parks the current cart, customer and adjustments and resets the
// session as for a new order.
func (s *HoldService) Hold(ctx context.Context, actor Actor) (*HoldResult, error) {
	result := &HoldResult{}

	_, err := s.sessions.Do(ctx, actor, func(session *entity.PosSession) (bool, error) {
		if session.Stage == enum.CheckoutStageSubmitted {
			return false, apperror.NewConflictError("Order already submitted, start the next order")
		}
		if session.Cart.IsEmpty() {
			return false, apperror.ErrEmptyCart
		}

		snapshot := entity.HoldSnapshot{
			Cart:        session.Cart.Lines,
			Customer:    session.Customer,
			Adjustments: session.Adjustments,
			OrderID:     session.OrderID,
		}
		summary := summarize(session).Totals()
		holdID, err := s.backend.HoldOrder(ctx, snapshot, pharmacyapi.HoldMeta{
			UserID:        actor.UserID,
			CustomerName:  session.Customer.CustomerName,
			ContactNumber: session.Customer.ContactNumber,
			TotalAmount:   summary.TotalPayable,
		})
		if err != nil {
			return false, err
		}
		result.HoldID = holdID

		// the held cart keeps its order id; the next order needs a new one
		nextID, err := s.orders.NextOrderID(context.WithoutCancel(ctx))
		if err != nil {
			s.log.Warn("next order id unavailable after hold", zap.String("user_id", actor.UserID), zap.Error(err))
			nextID = ""
		}
		session.ResetForNextOrder(nextID)
		result.OrderID = nextID
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order held", zap.String("user_id", actor.UserID), zap.String("hold_id", result.HoldID))
	return result, nil
}

// List returns the parked orders.
func (s *HoldService) List(ctx context.Context) ([]entity.HeldOrder, error) {
	rows, err := s.backend.ListHeldOrders(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.HeldOrder, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.HeldOrder{
			HoldID:        r.HoldID.String(),
			CustomerName:  r.CustomerName,
			ContactNumber: r.ContactNumber,
			TotalAmount:   r.TotalAmount,
			CreatedAt:     r.CreatedAt,
		})
	}
	return out, nil
}

// Retrieve loads a held order into the session and deletes it on the backend.
// The session is left untouched when the fetch or the delete fails.
func (s *HoldService) Retrieve(ctx context.Context, actor Actor, holdID string) (*CartView, error) {
	holdID = strings.TrimSpace(holdID)
	if holdID == "" {
		return nil, apperror.NewBadRequestError("Hold id is required")
	}

	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if session.Stage == enum.CheckoutStagePaymentOpen {
			return apperror.NewConflictError("Close the payment dialog before retrieving a held order")
		}

		held, err := s.backend.GetHeldOrder(ctx, holdID)
		if err != nil {
			return err
		}
		var snapshot entity.HoldSnapshot
		if err := json.Unmarshal(held.Snapshot, &snapshot); err != nil {
			return apperror.NewUpstreamError(http.StatusBadGateway, "Held order could not be read", nil)
		}

		if err := s.backend.DeleteHeldOrder(ctx, holdID); err != nil {
			return err
		}

		if session.Stage == enum.CheckoutStageSubmitted {
			session.ResetForNextOrder("")
		}
		session.Cart.Replace(snapshot.Cart)
		session.Customer = snapshot.Customer
		session.Adjustments = snapshot.Adjustments
		if snapshot.OrderID != "" {
			session.OrderID = snapshot.OrderID
		}
		session.PaymentMethod = enum.PaymentMethodNone
		session.Stage = enum.CheckoutStageIdle
		session.StartNewDraft()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("held order retrieved", zap.String("user_id", actor.UserID), zap.String("hold_id", holdID), zap.Int("lines", session.Cart.Len()))
	return newCartView(session), nil
}

// Delete discards a held order.
func (s *HoldService) Delete(ctx context.Context, holdID string) error {
	holdID = strings.TrimSpace(holdID)
	if holdID == "" {
		return apperror.NewBadRequestError("Hold id is required")
	}
	return s.backend.DeleteHeldOrder(ctx, holdID)
}
