package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
	infrarepo "github.com/sangkips/pharmacy-pos/internal/infrastructure/repository"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testActor = Actor{UserID: "u1", Name: "Asha", StoreID: "store-1"}

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.PosSession{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewSessionStore(infrarepo.NewSessionRepository(db), zap.NewNop())
}

// fakeBackend stands in for the pharmacy backend in service tests.
type fakeBackend struct {
	mu sync.Mutex

	nextIDs     []string
	nextCalls   int32
	nextRelease chan struct{}

	placeErr  error
	placed    []entity.OrderPayload
	placeKeys []string

	customers map[string]*pharmacyapi.CustomerRecord

	holds     map[string]json.RawMessage
	holdMetas []pharmacyapi.HoldMeta
	deleteErr error

	dayCloseForm *pharmacyapi.Form

	catalogForm *pharmacyapi.Form
	listParams  pharmacyapi.ListParams
	uploads     int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextIDs:   []string{"ORD-1", "ORD-2", "ORD-3", "ORD-4"},
		customers: map[string]*pharmacyapi.CustomerRecord{},
		holds:     map[string]json.RawMessage{},
	}
}

func (f *fakeBackend) NextOrderID(ctx context.Context) (string, error) {
	atomic.AddInt32(&f.nextCalls, 1)
	if f.nextRelease != nil {
		<-f.nextRelease
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.nextIDs) == 0 {
		return "", apperror.ErrUpstreamUnavailable
	}
	id := f.nextIDs[0]
	f.nextIDs = f.nextIDs[1:]
	return id, nil
}

func (f *fakeBackend) PlaceOrder(ctx context.Context, payload any, prescription *pharmacyapi.File, key string) (*pharmacyapi.PlacedOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.placeKeys = append(f.placeKeys, key)
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	f.placed = append(f.placed, payload.(entity.OrderPayload))
	return &pharmacyapi.PlacedOrder{InvoiceNo: "INV-100", InvoiceDate: "2026-10-19"}, nil
}

func (f *fakeBackend) LookupCustomer(ctx context.Context, mobile string) (*pharmacyapi.CustomerRecord, error) {
	return f.customers[mobile], nil
}

func (f *fakeBackend) HoldOrder(ctx context.Context, snapshot any, meta pharmacyapi.HoldMeta) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.holds["H1"] = data
	f.holdMetas = append(f.holdMetas, meta)
	return "H1", nil
}

func (f *fakeBackend) ListHeldOrders(ctx context.Context) ([]pharmacyapi.HeldOrderSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []pharmacyapi.HeldOrderSummary
	for _, m := range f.holdMetas {
		out = append(out, pharmacyapi.HeldOrderSummary{HoldID: "H1", CustomerName: m.CustomerName, TotalAmount: m.TotalAmount})
	}
	return out, nil
}

func (f *fakeBackend) GetHeldOrder(ctx context.Context, holdID string) (*pharmacyapi.HeldOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.holds[holdID]
	if !ok {
		return nil, apperror.NewUpstreamError(404, "Held order not found", nil)
	}
	return &pharmacyapi.HeldOrder{Snapshot: data}, nil
}

func (f *fakeBackend) DeleteHeldOrder(ctx context.Context, holdID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.holds, holdID)
	return nil
}

func (f *fakeBackend) GetDayClose(ctx context.Context, date string) (json.RawMessage, error) {
	return json.RawMessage(`{"date":"` + date + `","total_sales":1200}`), nil
}

func (f *fakeBackend) CloseDay(ctx context.Context, form *pharmacyapi.Form) (json.RawMessage, error) {
	f.dayCloseForm = form
	return json.RawMessage(`{"status":"closed"}`), nil
}

func (f *fakeBackend) ListCatalog(ctx context.Context, r pharmacyapi.Resource, p pharmacyapi.ListParams) (*pharmacyapi.ListResult, error) {
	f.listParams = p
	return &pharmacyapi.ListResult{
		Data:       []json.RawMessage{json.RawMessage(`{"id":1}`), json.RawMessage(`{"id":2}`)},
		TotalItems: 25,
	}, nil
}

func (f *fakeBackend) GetCatalog(ctx context.Context, r pharmacyapi.Resource, id string) (json.RawMessage, error) {
	return json.RawMessage(`{"id":` + id + `}`), nil
}

func (f *fakeBackend) CreateCatalog(ctx context.Context, r pharmacyapi.Resource, form *pharmacyapi.Form) (json.RawMessage, error) {
	f.catalogForm = form
	return json.RawMessage(`{"id":9}`), nil
}

func (f *fakeBackend) UpdateCatalog(ctx context.Context, r pharmacyapi.Resource, id string, form *pharmacyapi.Form) (json.RawMessage, error) {
	f.catalogForm = form
	return json.RawMessage(`{"id":` + id + `}`), nil
}

func (f *fakeBackend) DeleteCatalog(ctx context.Context, r pharmacyapi.Resource, id string) error {
	return nil
}

func (f *fakeBackend) UploadExcel(ctx context.Context, r pharmacyapi.Resource, file pharmacyapi.File) (json.RawMessage, error) {
	f.uploads++
	return json.RawMessage(`{"imported":1}`), nil
}

func (f *fakeBackend) DownloadExcel(ctx context.Context, r pharmacyapi.Resource) (*pharmacyapi.Download, error) {
	return &pharmacyapi.Download{Filename: string(r) + ".xlsx", ContentType: "application/octet-stream", Data: []byte("xlsx")}, nil
}

func medicalLine(productID int64, batch string, qty int) entity.CartLine {
	return entity.CartLine{
		ProductID:       productID,
		Name:            "Paracetamol 500mg",
		MRP:             100,
		Quantity:        qty,
		DiscountPercent: 10,
		BatchNo:         batch,
		CGST:            6,
		SGST:            6,
		SaleType:        enum.SaleTypePack,
		Type:            enum.ItemTypeMedical,
	}
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError with code %d, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("expected code %d, got %d (%s)", code, appErr.Code, appErr.Message)
	}
}
