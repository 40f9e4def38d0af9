package pricing

import (
	"math"
	"testing"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/internal/domain/enum"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

func medical(mrp float64, qty int, discount float64) entity.CartLine {
	return entity.CartLine{MRP: mrp, Quantity: qty, DiscountPercent: discount, Type: enum.ItemTypeMedical}
}

func nonMedical(mrp float64, qty int, discount float64) entity.CartLine {
	return entity.CartLine{MRP: mrp, Quantity: qty, DiscountPercent: discount, Type: enum.ItemTypeNonMedical}
}

func assertAmount(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Round(2).Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s got %s", name, want, got.StringFixed(2))
	}
}

func TestComputeDiscountedLine(t *testing.T) {
	s := Compute([]entity.CartLine{medical(50, 4, 10)}, Options{})

	assertAmount(t, "medical subtotal", s.MedicalSubtotal, "180")
	assertAmount(t, "medical discount", s.MedicalDiscount, "20")
	assertAmount(t, "non-medical subtotal", s.NonMedicalSubtotal, "0")
	assertAmount(t, "total payable", s.TotalPayable, "180")
}

func TestComputePartitionsSumToSubtotal(t *testing.T) {
	lines := []entity.CartLine{
		medical(12.35, 3, 7.5),
		nonMedical(99.99, 1, 0),
		medical(1.10, 17, 12),
		nonMedical(45.5, 2, 33.3),
		{MRP: 8, Quantity: 1, Type: ""},
	}
	s := Compute(lines, Options{})

	sum := s.MedicalSubtotal.Add(s.NonMedicalSubtotal)
	if sum.Sub(s.Subtotal).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
		t.Fatalf("partitions %s do not add up to subtotal %s", sum, s.Subtotal)
	}
	// 99.99 + 45.5*2*0.667 + 8; the untyped line counts as non-medical
	assertAmount(t, "non-medical subtotal", s.NonMedicalSubtotal, "168.69")
}

func TestComputeTaxGroups(t *testing.T) {
	line := medical(100, 2, 0)
	line.CGST, line.SGST = 6, 6
	s := Compute([]entity.CartLine{line}, Options{})

	if len(s.TaxGroups) != 1 {
		t.Fatalf("expected one tax group, got %d", len(s.TaxGroups))
	}
	g := s.TaxGroups[0]
	assertAmount(t, "taxable", g.TaxableAmount, "178.57")
	assertAmount(t, "cgst", g.CGSTAmount, "10.71")
	assertAmount(t, "sgst", g.SGSTAmount, "10.71")
	assertAmount(t, "group tax", g.TotalTax, "21.42")
	assertAmount(t, "grand total tax", s.GrandTotalTax, "21.42")
}

func TestComputeTaxGroupsAreKeyedAndSorted(t *testing.T) {
	a := medical(100, 1, 0)
	a.CGST, a.SGST = 9, 9
	b := medical(50, 2, 0)
	b.CGST, b.SGST = 2.5, 2.5
	c := nonMedical(200, 1, 0)
	c.CGST, c.SGST = 9, 9
	untaxed := medical(30, 1, 0)

	s := Compute([]entity.CartLine{a, b, c, untaxed}, Options{})
	if len(s.TaxGroups) != 2 {
		t.Fatalf("expected two tax groups, got %d", len(s.TaxGroups))
	}
	if !s.TaxGroups[0].CGSTRate.Equal(decimal.NewFromFloat(2.5)) {
		t.Fatalf("groups not sorted: first rate %s", s.TaxGroups[0].CGSTRate)
	}

	total := decimal.Zero
	for _, g := range s.TaxGroups {
		total = total.Add(g.TotalTax)
	}
	if !total.Equal(s.GrandTotalTax) {
		t.Fatalf("grand total %s != sum of groups %s", s.GrandTotalTax, total)
	}
	assertAmount(t, "18% group taxable", s.TaxGroups[1].TaxableAmount, "254.24")
}

func TestComputeRoundOff(t *testing.T) {
	s := Compute([]entity.CartLine{nonMedical(99.40, 1, 0)}, Options{RoundOff: true})
	assertAmount(t, "round off", s.RoundOff, "0.60")
	assertAmount(t, "total payable", s.TotalPayable, "100.00")

	s = Compute([]entity.CartLine{nonMedical(99.40, 1, 0)}, Options{})
	assertAmount(t, "round off disabled", s.RoundOff, "0")
	assertAmount(t, "total payable without round off", s.TotalPayable, "99.40")

	s = Compute([]entity.CartLine{nonMedical(100, 1, 0)}, Options{RoundOff: true})
	assertAmount(t, "whole amount", s.RoundOff, "0")
}

func TestComputeTotalExcludesShippingAndCoupon(t *testing.T) {
	s := Compute([]entity.CartLine{medical(100, 1, 10)}, Options{Shipping: 40, Coupon: 15})

	assertAmount(t, "total payable", s.TotalPayable, "90")
	assertAmount(t, "shipping carried", s.Shipping, "40")
	assertAmount(t, "savings", s.TotalSavings, "25")
}

func TestComputeEmptyCart(t *testing.T) {
	s := Compute(nil, Options{RoundOff: true})
	if !s.TotalPayable.IsZero() || len(s.TaxGroups) != 0 {
		t.Fatalf("unexpected summary for empty cart: %+v", s.Totals())
	}
	if s.Totals().TaxGroups == nil {
		t.Fatal("tax groups must encode as an empty list")
	}
}

func TestValidateSplits(t *testing.T) {
	s := Compute([]entity.CartLine{nonMedical(500, 1, 0)}, Options{})

	err := s.ValidateSplits([]entity.PaymentSplit{{Method: "cash", Amount: 300}, {Method: "card", Amount: 150}})
	appErr := apperror.GetAppError(err)
	if err == nil || appErr.Code != 422 {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(appErr.Errors) != 1 || appErr.Errors[0].Field != "splits" {
		t.Fatalf("unexpected field errors %+v", appErr.Errors)
	}

	if err := s.ValidateSplits([]entity.PaymentSplit{{Method: "cash", Amount: 300}, {Method: "card", Amount: 200}}); err != nil {
		t.Fatalf("expected matching splits to pass, got %v", err)
	}

	err = s.ValidateSplits([]entity.PaymentSplit{{Method: "", Amount: 500}, {Method: "card", Amount: 0}})
	appErr = apperror.GetAppError(err)
	fields := map[string]bool{}
	for _, fe := range appErr.Errors {
		fields[fe.Field] = true
	}
	if !fields["splits[0].method"] || !fields["splits[1].amount"] {
		t.Fatalf("expected per-split errors, got %+v", appErr.Errors)
	}
}

func TestValidateSplitsTwoDecimalPrecision(t *testing.T) {
	s := Compute([]entity.CartLine{nonMedical(33.33, 3, 0)}, Options{})

	err := s.ValidateSplits([]entity.PaymentSplit{{Method: "cash", Amount: 50.00}, {Method: "upi", Amount: 49.99}})
	if err != nil {
		t.Fatalf("expected 99.99 to match, got %v", err)
	}
}

func TestReturnAmountMayBeNegative(t *testing.T) {
	s := Compute([]entity.CartLine{nonMedical(120, 1, 0)}, Options{})

	assertAmount(t, "change", s.ReturnAmount(200), "80")
	assertAmount(t, "short", s.ReturnAmount(100), "-20")
}

func TestLineTotal(t *testing.T) {
	got := LineTotal(medical(12.5, 3, 10))
	if math.Abs(got-33.75) > 1e-9 {
		t.Fatalf("expected 33.75, got %v", got)
	}
}
