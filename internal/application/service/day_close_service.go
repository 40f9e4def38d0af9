package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"github.com/sangkips/pharmacy-pos/pkg/validation"
	"go.uber.org/zap"
)

const dayCloseDateLayout = "2006-01-02"

// DayCloseService reads and posts the end-of-day reconciliation
type DayCloseService struct {
	backend DayCloseBackend
	log     *zap.Logger
	now     func() time.Time
}

// NewDayCloseService creates a new day close service
func NewDayCloseService(backend DayCloseBackend, log *zap.Logger) *DayCloseService {
	return &DayCloseService{backend: backend, log: log, now: time.Now}
}

// DayCloseInput are the closing figures counted by the cashier.
type DayCloseInput struct {
	Date        string  `json:"date" validate:"omitempty,datetime=2006-01-02"`
	OpeningCash float64 `json:"opening_cash" validate:"gte=0"`
	ClosingCash float64 `json:"closing_cash" validate:"gte=0"`
	CardTotal   float64 `json:"card_total" validate:"gte=0"`
	UPITotal    float64 `json:"upi_total" validate:"gte=0"`
	Expenses    float64 `json:"expenses" validate:"gte=0"`
	Remarks     string  `json:"remarks" validate:"max=500"`
}

// Summary returns the backend's figures for date (today when empty).
func (s *DayCloseService) Summary(ctx context.Context, date string) (json.RawMessage, error) {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(dayCloseDateLayout, date); err != nil {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "date", Message: "Must be a date in the format YYYY-MM-DD"},
			})
		}
	}
	return s.backend.GetDayClose(ctx, date)
}

// Close posts the closing record of actor.
func (s *DayCloseService) Close(ctx context.Context, actor Actor, in DayCloseInput) (json.RawMessage, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Date == "" {
		in.Date = s.now().Format(dayCloseDateLayout)
	}

	form := pharmacyapi.NewForm().
		Set("user_id", actor.UserID).
		Set("date", in.Date).
		Set("opening_cash", money2(in.OpeningCash)).
		Set("closing_cash", money2(in.ClosingCash)).
		Set("card_total", money2(in.CardTotal)).
		Set("upi_total", money2(in.UPITotal)).
		Set("expenses", money2(in.Expenses)).
		Set("remarks", in.Remarks)
	if actor.StoreID != "" {
		form.Set("store_id", actor.StoreID)
	}

	result, err := s.backend.CloseDay(ctx, form)
	if err != nil {
		return nil, err
	}
	s.log.Info("day closed", zap.String("user_id", actor.UserID), zap.String("date", in.Date))
	return result, nil
}

func money2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
