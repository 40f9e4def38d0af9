package service

import (
	"context"
	"strings"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"github.com/sangkips/pharmacy-pos/pkg/validation"
	"go.uber.org/zap"
)

// CustomerService looks up and attaches the customer of the current order
type CustomerService struct {
	sessions *SessionStore
	backend  CustomerBackend
	log      *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(sessions *SessionStore, backend CustomerBackend, log *zap.Logger) *CustomerService {
	return &CustomerService{sessions: sessions, backend: backend, log: log}
}

// CustomerLookup is the outcome of a mobile-number lookup.
type CustomerLookup struct {
	Found    bool                   `json:"found"`
	Customer entity.CustomerDetails `json:"customer"`
}

func validMobile(mobile string) bool {
	if len(mobile) != 10 {
		return false
	}
	for _, r := range mobile {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Lookup finds the customer by mobile number and attaches it to the session.
// An unknown number attaches a blank customer carrying that number.
func (s *CustomerService) Lookup(ctx context.Context, actor Actor, mobile string) (*CustomerLookup, error) {
	mobile = strings.TrimSpace(mobile)
	if !validMobile(mobile) {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "mob_no", Message: "Mobile number must be 10 digits"},
		})
	}

	record, err := s.backend.LookupCustomer(ctx, mobile)
	if err != nil {
		return nil, err
	}

	result := &CustomerLookup{Found: record != nil}
	if record != nil {
		result.Customer = customerFromRecord(record)
	} else {
		result.Customer = entity.DefaultCustomer()
		result.Customer.ContactNumber = mobile
	}

	_, err = s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		session.Customer = result.Customer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("customer lookup", zap.String("user_id", actor.UserID), zap.Bool("found", result.Found))
	return result, nil
}

// SetCustomer replaces the session customer with details entered by hand.
func (s *CustomerService) SetCustomer(ctx context.Context, actor Actor, details entity.CustomerDetails) (*entity.CustomerDetails, error) {
	details.ContactNumber = strings.TrimSpace(details.ContactNumber)
	details.GSTIN = strings.ToUpper(strings.TrimSpace(details.GSTIN))
	details.Email = strings.TrimSpace(details.Email)
	if err := validation.Struct(details); err != nil {
		return nil, err
	}
	if details.CustomerCategory == "" {
		details.CustomerCategory = entity.DefaultCustomer().CustomerCategory
	}

	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		session.Customer = details
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session.Customer, nil
}

// Reset puts the walk-in customer back on the session.
func (s *CustomerService) Reset(ctx context.Context, actor Actor) (*entity.CustomerDetails, error) {
	session, err := s.sessions.Update(ctx, actor, func(session *entity.PosSession) error {
		if err := beginDraftEdit(session); err != nil {
			return err
		}
		session.Customer = entity.DefaultCustomer()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session.Customer, nil
}

func customerFromRecord(r *pharmacyapi.CustomerRecord) entity.CustomerDetails {
	c := entity.CustomerDetails{
		CustomerID:       r.Identifier(),
		ContactNumber:    r.Contact(),
		CustomerName:     r.CustomerName,
		Email:            r.Email,
		GSTIN:            r.GSTIN,
		CustomerType:     r.CustomerType.String(),
		ABHANumber:       r.ABHANumber,
		DoctorName:       r.DoctorName,
		CustomerCategory: r.CustomerCategory,
	}
	if c.CustomerCategory == "" {
		c.CustomerCategory = "registered"
	}
	return c
}
