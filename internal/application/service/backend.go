package service

import (
	"context"
	"encoding/json"

	"github.com/sangkips/pharmacy-pos/pkg/pharmacyapi"
)

// The pharmacy backend as seen by each service. *pharmacyapi.Client
// satisfies all of them.

type CustomerBackend interface {
	LookupCustomer(ctx context.Context, mobile string) (*pharmacyapi.CustomerRecord, error)
}

type OrderBackend interface {
	NextOrderID(ctx context.Context) (string, error)
	PlaceOrder(ctx context.Context, payload any, prescription *pharmacyapi.File, idempotencyKey string) (*pharmacyapi.PlacedOrder, error)
}

type HoldBackend interface {
	HoldOrder(ctx context.Context, snapshot any, meta pharmacyapi.HoldMeta) (string, error)
	ListHeldOrders(ctx context.Context) ([]pharmacyapi.HeldOrderSummary, error)
	GetHeldOrder(ctx context.Context, holdID string) (*pharmacyapi.HeldOrder, error)
	DeleteHeldOrder(ctx context.Context, holdID string) error
}

type DayCloseBackend interface {
	GetDayClose(ctx context.Context, date string) (json.RawMessage, error)
	CloseDay(ctx context.Context, form *pharmacyapi.Form) (json.RawMessage, error)
}

type CatalogBackend interface {
	ListCatalog(ctx context.Context, r pharmacyapi.Resource, p pharmacyapi.ListParams) (*pharmacyapi.ListResult, error)
	GetCatalog(ctx context.Context, r pharmacyapi.Resource, id string) (json.RawMessage, error)
	CreateCatalog(ctx context.Context, r pharmacyapi.Resource, form *pharmacyapi.Form) (json.RawMessage, error)
	UpdateCatalog(ctx context.Context, r pharmacyapi.Resource, id string, form *pharmacyapi.Form) (json.RawMessage, error)
	DeleteCatalog(ctx context.Context, r pharmacyapi.Resource, id string) error
	UploadExcel(ctx context.Context, r pharmacyapi.Resource, file pharmacyapi.File) (json.RawMessage, error)
	DownloadExcel(ctx context.Context, r pharmacyapi.Resource) (*pharmacyapi.Download, error)
}
