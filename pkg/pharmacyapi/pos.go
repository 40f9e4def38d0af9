package pharmacyapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"go.uber.org/zap"
)

// CustomerRecord is a customer as returned by the mobile-number lookup.
type CustomerRecord struct {
	CustomerID       flexString `json:"customer_id"`
	ID               flexString `json:"id"`
	ContactNumber    string     `json:"contact_number"`
	MobileNumber     string     `json:"mob_no"`
	CustomerName     string     `json:"customer_name"`
	Email            string     `json:"email"`
	GSTIN            string     `json:"gstin"`
	CustomerType     flexString `json:"customer_type"`
	ABHANumber       string     `json:"abha_number"`
	DoctorName       string     `json:"doctor_name"`
	CustomerCategory string     `json:"customer_category"`
}

// Identifier returns the backend id of the customer.
func (r *CustomerRecord) Identifier() string {
	if r.CustomerID != "" {
		return r.CustomerID.String()
	}
	return r.ID.String()
}

// Contact returns the customer's mobile number.
func (r *CustomerRecord) Contact() string {
	if r.ContactNumber != "" {
		return r.ContactNumber
	}
	return r.MobileNumber
}

// HeldOrderSummary is a row of the held-orders list.
type HeldOrderSummary struct {
	HoldID        flexString `json:"hold_id"`
	CustomerName  string     `json:"customer_name"`
	ContactNumber string     `json:"contact_number"`
	TotalAmount   float64    `json:"total_amount"`
	CreatedAt     string     `json:"created_at"`
}

// HeldOrder is a parked cart snapshot.
type HeldOrder struct {
	HoldID   string
	Snapshot json.RawMessage
}

// HoldMeta is the searchable metadata sent alongside a snapshot.
type HoldMeta struct {
	UserID        string
	CustomerName  string
	ContactNumber string
	TotalAmount   float64
}

// PlacedOrder is the backend's answer to a submitted order.
type PlacedOrder struct {
	InvoiceNo   flexString      `json:"invoice_no"`
	OrderID     flexString      `json:"order_id"`
	InvoiceDate string          `json:"invoice_date"`
	Message     string          `json:"message"`
	Raw         json.RawMessage `json:"-"`
}

// NextOrderID asks the backend for the id of the next order.
func (c *Client) NextOrderID(ctx context.Context) (string, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "get-next-orderId/"}, &raw); err != nil {
		return "", err
	}

	var scalar flexString
	if err := json.Unmarshal(unwrapData(raw), &scalar); err == nil && scalar != "" {
		return scalar.String(), nil
	}

	var body struct {
		OrderID     flexString `json:"order_id"`
		NextOrderID flexString `json:"next_order_id"`
		CamelCase   flexString `json:"orderId"`
	}
	if err := json.Unmarshal(unwrapData(raw), &body); err != nil {
		return "", apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected next order id response", nil)
	}
	for _, id := range []flexString{body.OrderID, body.NextOrderID, body.CamelCase} {
		if id != "" {
			return id.String(), nil
		}
	}
	return "", apperror.NewUpstreamError(http.StatusBadGateway, "Pharmacy server returned no order id", nil)
}

// LookupCustomer finds a customer by mobile number. A missing customer is
// reported as (nil, nil).
func (c *Client) LookupCustomer(ctx context.Context, mobile string) (*CustomerRecord, error) {
	var raw json.RawMessage
	err := c.doJSON(ctx, request{method: http.MethodGet, path: "customer/", query: url.Values{"mob_no": {mobile}}}, &raw)
	if err != nil {
		if apperror.GetAppError(err).Code == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	data := unwrapData(raw)
	var list []CustomerRecord
	if err := json.Unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	}

	var record CustomerRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected customer response", nil)
	}
	if record.Identifier() == "" && record.Contact() == "" && record.CustomerName == "" {
		return nil, nil
	}
	return &record, nil
}

// HoldOrder parks a snapshot server-side and returns its hold id.
func (c *Client) HoldOrder(ctx context.Context, snapshot any, meta HoldMeta) (string, error) {
	form := NewForm()
	if err := form.SetJSON("data", snapshot); err != nil {
		return "", err
	}
	form.Set("user_id", meta.UserID).
		Set("customer_name", meta.CustomerName).
		Set("contact_number", meta.ContactNumber).
		Set("total_amount", strconv.FormatFloat(meta.TotalAmount, 'f', 2, 64))

	req, err := form.multipartRequest(http.MethodPost, "hold-sales/")
	if err != nil {
		return "", err
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return "", err
	}

	var body struct {
		HoldID flexString `json:"hold_id"`
		ID     flexString `json:"id"`
	}
	if err := json.Unmarshal(unwrapData(raw), &body); err != nil {
		c.log.Error("unreadable hold response", zap.ByteString("body", raw), zap.Error(err))
		return "", apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected hold response", nil)
	}
	id := body.HoldID
	if id == "" {
		id = body.ID
	}
	if id == "" {
		c.log.Error("hold response without an id", zap.ByteString("body", raw))
		return "", apperror.NewUpstreamError(http.StatusBadGateway, "Backend did not return a hold id", nil)
	}
	return id.String(), nil
}

// ListHeldOrders returns the parked orders.
func (c *Client) ListHeldOrders(ctx context.Context) ([]HeldOrderSummary, error) {
	var list ListResult
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "hold-sales/"}, &list); err != nil {
		return nil, err
	}
	out := make([]HeldOrderSummary, 0, len(list.Data))
	for _, item := range list.Data {
		var s HeldOrderSummary
		if err := json.Unmarshal(item, &s); err != nil {
			return nil, apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected held order list", nil)
		}
		out = append(out, s)
	}
	return out, nil
}

// GetHeldOrder fetches the snapshot of a held order.
func (c *Client) GetHeldOrder(ctx context.Context, holdID string) (*HeldOrder, error) {
	var raw json.RawMessage
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "hold-sales/", query: url.Values{"hold_id": {holdID}}}, &raw); err != nil {
		return nil, err
	}

	record := unwrapData(raw)
	var list []json.RawMessage
	if err := json.Unmarshal(record, &list); err == nil {
		if len(list) == 0 {
			return nil, apperror.NewNotFoundError("Held order")
		}
		record = list[0]
	}

	var body struct {
		HoldID flexString      `json:"hold_id"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(record, &body); err != nil || len(body.Data) == 0 {
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected held order response", nil)
	}

	snapshot := body.Data
	// snapshots posted as a form field may come back as a JSON string
	var embedded string
	if err := json.Unmarshal(snapshot, &embedded); err == nil {
		snapshot = json.RawMessage(embedded)
	}

	id := body.HoldID.String()
	if id == "" {
		id = holdID
	}
	return &HeldOrder{HoldID: id, Snapshot: snapshot}, nil
}

// DeleteHeldOrder removes a held order.
func (c *Client) DeleteHeldOrder(ctx context.Context, holdID string) error {
	return c.doJSON(ctx, request{method: http.MethodDelete, path: "hold-sales/", query: url.Values{"hold_id": {holdID}}}, nil)
}

// PlaceOrder submits an order. The payload travels as the "data" field; the
// prescription, when present, as "prescription_upload".
func (c *Client) PlaceOrder(ctx context.Context, payload any, prescription *File, idempotencyKey string) (*PlacedOrder, error) {
	form := NewForm()
	if err := form.SetJSON("data", payload); err != nil {
		return nil, err
	}
	if prescription != nil {
		p := *prescription
		p.Field = "prescription_upload"
		form.Attach(p)
	}

	req, err := form.multipartRequest(http.MethodPost, "sales-handler/")
	if err != nil {
		return nil, err
	}
	if idempotencyKey != "" {
		req.header = http.Header{"Idempotency-Key": {idempotencyKey}}
	}

	var raw json.RawMessage
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return nil, err
	}

	placed := &PlacedOrder{Raw: raw}
	if err := json.Unmarshal(unwrapData(raw), placed); err != nil {
		c.log.Error("unreadable order response", zap.String("idempotency_key", idempotencyKey), zap.ByteString("body", raw), zap.Error(err))
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "Unexpected order response", nil)
	}
	if placed.InvoiceNo == "" {
		c.log.Error("order response without an invoice number", zap.String("idempotency_key", idempotencyKey), zap.ByteString("body", raw))
		return nil, apperror.NewUpstreamError(http.StatusBadGateway, "Backend did not return an invoice number", nil)
	}
	if placed.Message == "" {
		var env struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &env)
		placed.Message = env.Message
	}
	return placed, nil
}

// GetDayClose returns the backend's day summary; date may be empty for today.
func (c *Client) GetDayClose(ctx context.Context, date string) (json.RawMessage, error) {
	query := url.Values{}
	if date != "" {
		query.Set("date", date)
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "day-close/", query: query}, &raw); err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}

// CloseDay posts the end-of-day record.
func (c *Client) CloseDay(ctx context.Context, form *Form) (json.RawMessage, error) {
	req, err := form.multipartRequest(http.MethodPost, "day-close/")
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.doJSON(ctx, req, &raw); err != nil {
		return nil, err
	}
	return unwrapData(raw), nil
}
