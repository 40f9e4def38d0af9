package request

import (
	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
)

// CartLineRequest represents a line added to the cart
type CartLineRequest struct {
	ProductID       int64   `json:"product_id" binding:"required,gt=0"`
	Name            string  `json:"name" binding:"required,max=255"`
	MRP             float64 `json:"mrp" binding:"gte=0"`
	Quantity        int     `json:"quantity" binding:"required,gt=0"`
	SellingPrice    float64 `json:"selling_price" binding:"gte=0"`
	DiscountPercent float64 `json:"discount_percent" binding:"gte=0,lte=100"`
	BatchNo         string  `json:"batch_no" binding:"max=64"`
	ExpiryDate      string  `json:"expiry_date"`
	Manufacturer    string  `json:"manufacturer"`
	CGST            float64 `json:"cgst" binding:"gte=0,lte=100"`
	SGST            float64 `json:"sgst" binding:"gte=0,lte=100"`
	IGST            float64 `json:"igst" binding:"gte=0,lte=100"`
	SaleType        string  `json:"sale_type" binding:"required,oneof=pack unit"`
	StockID         int64   `json:"stock_id"`
	HSN             string  `json:"hsn"`
	ConversionID    int64   `json:"conversion_id"`
	Type            string  `json:"type" binding:"required,oneof=medical non-medical"`
	AvailableStock  *int    `json:"available_stock" binding:"omitempty,gte=0"`
}

// ToEntity converts the request to a cart line
func (r CartLineRequest) ToEntity() entity.CartLine {
	return entity.CartLine{
		ProductID:       r.ProductID,
		Name:            r.Name,
		MRP:             r.MRP,
		Quantity:        r.Quantity,
		SellingPrice:    r.SellingPrice,
		DiscountPercent: r.DiscountPercent,
		BatchNo:         r.BatchNo,
		ExpiryDate:      r.ExpiryDate,
		Manufacturer:    r.Manufacturer,
		CGST:            r.CGST,
		SGST:            r.SGST,
		IGST:            r.IGST,
		SaleType:        enum.SaleType(r.SaleType),
		StockID:         r.StockID,
		HSN:             r.HSN,
		ConversionID:    r.ConversionID,
		Type:            enum.ItemType(r.Type),
		AvailableStock:  r.AvailableStock,
	}
}

// ReplaceCartRequest swaps the whole cart
type ReplaceCartRequest struct {
	Lines []CartLineRequest `json:"lines" binding:"dive"`
}

// LineKeyRequest identifies a cart line
type LineKeyRequest struct {
	ProductID int64  `json:"product_id" form:"product_id" binding:"required,gt=0"`
	BatchNo   string `json:"batch_no" form:"batch_no"`
	SaleType  string `json:"sale_type" form:"sale_type" binding:"required,oneof=pack unit"`
}

// ToEntity converts the request to a line key
func (r LineKeyRequest) ToEntity() entity.LineKey {
	return entity.LineKey{ProductID: r.ProductID, BatchNo: r.BatchNo, SaleType: enum.SaleType(r.SaleType)}
}

// CustomerLookupRequest looks a customer up by mobile number
type CustomerLookupRequest struct {
	MobileNumber string `json:"mob_no" form:"mob_no" binding:"required"`
}

// AdjustmentsRequest updates the order-level charges
type AdjustmentsRequest struct {
	Shipping *float64 `json:"shipping"`
	Coupon   *float64 `json:"coupon"`
	RoundOff *bool    `json:"round_off"`
}

// PaymentMethodRequest selects the payment method
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// PlaceOrderRequest carries the payment dialog. It is accepted as JSON or as
// multipart form data with the prescription in `prescription_upload` and the
// splits as a JSON string.
type PlaceOrderRequest struct {
	ReceivedAmount *float64              `json:"received_amount" form:"received_amount" binding:"omitempty,gte=0"`
	CardReference  string                `json:"card_reference" form:"card_reference" binding:"max=100"`
	Splits         []entity.PaymentSplit `json:"splits" form:"-"`
	SplitsJSON     string                `json:"-" form:"splits"`
}

// CatalogListRequest represents catalog list parameters. page_size is
// accepted as an alias of per_page.
type CatalogListRequest struct {
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
	PageSize int    `form:"page_size"`
	Search   string `form:"search"`
}

// DayCloseQuery selects the day-close summary date
type DayCloseQuery struct {
	Date string `form:"date"`
}
