package entity

import "github.com/sangkips/pharmacy-pos/internal/domain/enum"

// CartLine is one product/batch/sale-type row of the POS cart.
type CartLine struct {
	ProductID       int64         `json:"product_id"`
	Name            string        `json:"name"`
	MRP             float64       `json:"mrp"`
	Quantity        int           `json:"quantity"`
	SellingPrice    float64       `json:"selling_price"`
	DiscountPercent float64       `json:"discount_percent"`
	BatchNo         string        `json:"batch_no"`
	ExpiryDate      string        `json:"expiry_date,omitempty"`
	Manufacturer    string        `json:"manufacturer,omitempty"`
	CGST            float64       `json:"cgst"`
	SGST            float64       `json:"sgst"`
	IGST            float64       `json:"igst"`
	SaleType        enum.SaleType `json:"sale_type"`
	StockID         int64         `json:"stock_id,omitempty"`
	HSN             string        `json:"hsn,omitempty"`
	ConversionID    int64         `json:"conversion_id,omitempty"`
	Type            enum.ItemType `json:"type"`
	TotalPrice      float64       `json:"total_price"`
	AvailableStock  *int          `json:"available_stock,omitempty"`
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID int64         `json:"product_id"`
	BatchNo   string        `json:"batch_no"`
	SaleType  enum.SaleType `json:"sale_type"`
}

// Key returns the identity of the line.
func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.ProductID, BatchNo: l.BatchNo, SaleType: l.SaleType}
}

// Cart is the keyed collection of lines. It performs no validation; callers
// check quantity and stock before mutating.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add merges line into the cart. A line with the same key has its quantity,
// discount and total price replaced; otherwise line is appended.
func (c *Cart) Add(line CartLine) {
	for i := range c.Lines {
		if c.Lines[i].Key() == line.Key() {
			c.Lines[i].Quantity = line.Quantity
			c.Lines[i].DiscountPercent = line.DiscountPercent
			c.Lines[i].TotalPrice = line.TotalPrice
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// Replace swaps the whole collection.
func (c *Cart) Replace(lines []CartLine) {
	c.Lines = append([]CartLine(nil), lines...)
}

// Remove drops the line with key. Unknown keys leave the cart unchanged.
func (c *Cart) Remove(key LineKey) bool {
	kept := c.Lines[:0]
	removed := false
	for _, l := range c.Lines {
		if l.Key() == key {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	c.Lines = kept
	return removed
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// Find returns the line with key.
func (c *Cart) Find(key LineKey) (CartLine, bool) {
	for _, l := range c.Lines {
		if l.Key() == key {
			return l, true
		}
	}
	return CartLine{}, false
}

func (c *Cart) Len() int {
	return len(c.Lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}
