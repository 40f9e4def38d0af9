package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"go.uber.org/zap"
)

func TestCustomerService_Lookup(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	backend := newFakeBackend()
	backend.customers["9876543210"] = &pharmacyapi.CustomerRecord{
		ID:           "42",
		MobileNumber: "9876543210",
		CustomerName: "Ravi Kumar",
		DoctorName:   "Dr. Rao",
	}
	svc := NewCustomerService(store, backend, zap.NewNop())

	res, err := svc.Lookup(ctx, testActor, "9876543210")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !res.Found || res.Customer.CustomerID != "42" || res.Customer.ContactNumber != "9876543210" {
		t.Errorf("unexpected lookup %+v", res)
	}
	if res.Customer.CustomerCategory != "registered" {
		t.Errorf("expected registered category, got %q", res.Customer.CustomerCategory)
	}

	session, _ := store.Get(ctx, testActor)
	if session.Customer.CustomerName != "Ravi Kumar" {
		t.Errorf("customer should be attached to the session, got %+v", session.Customer)
	}

	res, err = svc.Lookup(ctx, testActor, "9000000000")
	if err != nil {
		t.Fatalf("lookup unknown: %v", err)
	}
	if res.Found || res.Customer.ContactNumber != "9000000000" || res.Customer.CustomerCategory != "walk-in" {
		t.Errorf("unknown number should give a walk-in customer, got %+v", res)
	}
}

func TestCustomerService_LookupRejectsBadNumber(t *testing.T) {
	svc := NewCustomerService(newTestStore(t), newFakeBackend(), zap.NewNop())

	for _, mobile := range []string{"", "12345", "98765432100", "98765abcde"} {
		_, err := svc.Lookup(context.Background(), testActor, mobile)
		assertStatus(t, err, http.StatusUnprocessableEntity)
	}
}

func TestCustomerService_SetCustomer(t *testing.T) {
	ctx := context.Background()
	svc := NewCustomerService(newTestStore(t), newFakeBackend(), zap.NewNop())

	got, err := svc.SetCustomer(ctx, testActor, entity.CustomerDetails{
		CustomerName:  "Meera",
		ContactNumber: " 9123456780 ",
		GSTIN:         "29abcde1234f1z5",
	})
	if err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if got.GSTIN != "29ABCDE1234F1Z5" || got.ContactNumber != "9123456780" {
		t.Errorf("unexpected normalised customer %+v", got)
	}

	_, err = svc.SetCustomer(ctx, testActor, entity.CustomerDetails{Email: "not-an-email"})
	assertStatus(t, err, http.StatusUnprocessableEntity)

	reset, err := svc.Reset(ctx, testActor)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.CustomerName != "" || reset.CustomerCategory != "walk-in" {
		t.Errorf("expected walk-in customer after reset, got %+v", reset)
	}
}
