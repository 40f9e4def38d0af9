package entity

import (
	"testing"

	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
)

func line(id int64, batch string, sale enum.SaleType, qty int) CartLine {
	return CartLine{ProductID: id, BatchNo: batch, SaleType: sale, Quantity: qty, MRP: 10, Type: enum.ItemTypeMedical}
}

func TestCartAddCollapsesSameKey(t *testing.T) {
	var c Cart
	c.Add(line(1, "B1", enum.SaleTypePack, 1))
	c.Add(line(2, "B1", enum.SaleTypePack, 1))

	update := line(1, "B1", enum.SaleTypePack, 5)
	update.DiscountPercent = 10
	update.TotalPrice = 45
	update.Name = "ignored"
	c.Add(update)

	if c.Len() != 2 {
		t.Fatalf("expected 2 lines, got %d", c.Len())
	}
	got, ok := c.Find(update.Key())
	if !ok {
		t.Fatal("line not found")
	}
	if got.Quantity != 5 || got.DiscountPercent != 10 || got.TotalPrice != 45 {
		t.Fatalf("line not updated: %+v", got)
	}
	if got.Name == "ignored" {
		t.Fatal("only quantity, discount and total price may change")
	}
}

func TestCartKeyIncludesBatchAndSaleType(t *testing.T) {
	var c Cart
	c.Add(line(1, "B1", enum.SaleTypePack, 1))
	c.Add(line(1, "B2", enum.SaleTypePack, 1))
	c.Add(line(1, "B1", enum.SaleTypeUnit, 1))

	if c.Len() != 3 {
		t.Fatalf("expected 3 distinct lines, got %d", c.Len())
	}
}

func TestCartRemoveUnknownKeyIsNoop(t *testing.T) {
	var c Cart
	c.Add(line(1, "B1", enum.SaleTypePack, 2))
	c.Add(line(2, "B1", enum.SaleTypeUnit, 3))

	if c.Remove(LineKey{ProductID: 9, BatchNo: "B1", SaleType: enum.SaleTypePack}) {
		t.Fatal("expected no removal")
	}
	if c.Len() != 2 {
		t.Fatalf("cart changed: %+v", c.Lines)
	}

	if !c.Remove(LineKey{ProductID: 2, BatchNo: "B1", SaleType: enum.SaleTypeUnit}) {
		t.Fatal("expected removal")
	}
	if c.Len() != 1 || c.Lines[0].ProductID != 1 {
		t.Fatalf("unexpected cart %+v", c.Lines)
	}
}

func TestCartClearAlwaysEmpties(t *testing.T) {
	carts := []Cart{
		{},
		{Lines: []CartLine{line(1, "B1", enum.SaleTypePack, 1)}},
		{Lines: []CartLine{line(1, "B1", enum.SaleTypePack, 1), line(2, "B2", enum.SaleTypeUnit, 4)}},
	}
	for i := range carts {
		carts[i].Clear()
		if !carts[i].IsEmpty() {
			t.Fatalf("cart %d not empty after clear", i)
		}
	}
}

func TestCartReplaceCopiesLines(t *testing.T) {
	var c Cart
	c.Add(line(1, "B1", enum.SaleTypePack, 1))

	src := []CartLine{line(7, "X", enum.SaleTypeUnit, 2), line(8, "Y", enum.SaleTypePack, 1)}
	c.Replace(src)
	src[0].Quantity = 99

	if c.Len() != 2 || c.Lines[0].ProductID != 7 {
		t.Fatalf("unexpected cart %+v", c.Lines)
	}
	if c.Lines[0].Quantity != 2 {
		t.Fatal("replace must not alias the caller's slice")
	}
}

func TestResetForNextOrderKeepsLastInvoice(t *testing.T) {
	s := NewPosSession("u1", "s1")
	s.Cart.Add(line(1, "B1", enum.SaleTypePack, 1))
	s.Customer.CustomerName = "Asha"
	s.Stage = enum.CheckoutStageSubmitted
	s.LastInvoice = &Invoice{InvoiceNo: "INV-1"}
	draft := s.DraftID

	s.ResetForNextOrder("ORD-2")

	if !s.Cart.IsEmpty() || s.Customer.CustomerName != "" || s.Stage != enum.CheckoutStageIdle {
		t.Fatalf("session not reset: %+v", s)
	}
	if s.DraftID == draft {
		t.Fatal("expected a new draft id")
	}
	if s.OrderID != "ORD-2" || s.LastInvoice == nil {
		t.Fatalf("unexpected session %+v", s)
	}
}

func TestReviseDraftOnlyAfterFailure(t *testing.T) {
	s := NewPosSession("u1", "s1")
	s.PaymentMethod = enum.PaymentMethodCard
	s.Stage = enum.CheckoutStagePaymentMethodSelected
	draft := s.DraftID

	s.ReviseDraft()
	if s.DraftID != draft {
		t.Fatal("an unsubmitted draft keeps its id")
	}

	s.Stage = enum.CheckoutStageFailed
	s.DraftDigest = "abc"
	s.ReviseDraft()
	if s.DraftID == draft || s.DraftDigest != "" {
		t.Fatalf("a failed draft must be replaced: %+v", s)
	}
	if s.Stage != enum.CheckoutStagePaymentMethodSelected {
		t.Fatalf("stage = %s", s.Stage)
	}
}
