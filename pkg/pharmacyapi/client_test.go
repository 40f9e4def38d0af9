package pharmacyapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/pharmacy-pos/pkg/apperror"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL, 5*time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClientRequiresAbsoluteURL(t *testing.T) {
	if _, err := NewClient("", time.Second, nil); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	if _, err := NewClient("pharmacy.local/backend", time.Second, nil); err == nil {
		t.Fatal("expected error for relative base URL")
	}
	c, err := NewClient("http://pharmacy.local/backend", time.Second, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.endpoint("drug/", nil); got != "http://pharmacy.local/backend/api/drug/" {
		t.Fatalf("unexpected endpoint %s", got)
	}
}

func TestRequestForwardsBearerToken(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"data": 42}`)
	})

	ctx := WithToken(context.Background(), "tok-1")
	id, err := c.NextOrderID(ctx)
	if err != nil {
		t.Fatalf("next order id: %v", err)
	}
	if id != "42" {
		t.Fatalf("expected id 42, got %q", id)
	}
	if auth != "Bearer tok-1" {
		t.Fatalf("expected bearer header, got %q", auth)
	}
}

func TestNextOrderIDAcceptsObjectShapes(t *testing.T) {
	bodies := []string{
		`{"order_id": "ORD-7"}`,
		`{"next_order_id": "ORD-7"}`,
		`{"data": {"orderId": "ORD-7"}}`,
	}
	for _, body := range bodies {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/get-next-orderId/" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = io.WriteString(w, body)
		})
		id, err := c.NextOrderID(context.Background())
		if err != nil {
			t.Fatalf("%s: %v", body, err)
		}
		if id != "ORD-7" {
			t.Fatalf("%s: expected ORD-7, got %q", body, id)
		}
	}
}

func TestUnreachableServerIsNormalised(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, time.Second, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.NextOrderID(context.Background())
	if !errors.Is(err, apperror.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestFieldErrorsAreExtracted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"name": ["This field is required."], "code": 400}`)
	})

	_, err := c.CreateCatalog(context.Background(), ResourceCategory, NewForm())
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", appErr.Code)
	}
	if len(appErr.Errors) != 1 || appErr.Errors[0].Field != "name" {
		t.Fatalf("unexpected field errors: %+v", appErr.Errors)
	}
	if appErr.Message != "name: This field is required." {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestServerErrorBecomesBadGateway(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `<html><body>Server Error</body></html>`)
	})

	err := c.DeleteCatalog(context.Background(), ResourceDrug, "5")
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", appErr.Code)
	}
	if strings.Contains(appErr.Message, "<html>") {
		t.Fatalf("html leaked into message: %q", appErr.Message)
	}
}

func TestNestedErrorMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = io.WriteString(w, `{"errors": {"message": "Brand already exists", "brand_name": "duplicate"}}`)
	})

	_, err := c.CreateCatalog(context.Background(), ResourceBrand, NewForm().Set("brand_name", "Cipla"))
	appErr := apperror.GetAppError(err)
	if appErr.Code != http.StatusConflict || appErr.Message != "Brand already exists" {
		t.Fatalf("unexpected error %+v", appErr)
	}
	if len(appErr.Errors) != 1 || appErr.Errors[0].Field != "brand_name" {
		t.Fatalf("unexpected field errors %+v", appErr.Errors)
	}
}

func TestUnwrapDataKeepsPlainObjects(t *testing.T) {
	raw := json.RawMessage(`{"data": [1], "hold_id": 3}`)
	if string(unwrapData(raw)) != string(raw) {
		t.Fatal("object with non-envelope keys must not be unwrapped")
	}
	if got := string(unwrapData(json.RawMessage(`{"data": [1], "message": "ok"}`))); got != "[1]" {
		t.Fatalf("expected [1], got %s", got)
	}
}
