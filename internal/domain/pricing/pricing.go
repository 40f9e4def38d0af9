// Package pricing computes the money summary of a POS cart: partition
// subtotals, discounts, GST groups, round-off, payable total and savings.
package pricing

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/sangkips/pharmacy-pos/internal/domain/entity"
	"github.com/sangkips/pharmacy-pos/pkg/apperror"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Options are the cashier-controlled inputs of the summary.
type Options struct {
	Shipping float64
	Coupon   float64
	RoundOff bool
}

// TaxGroup accumulates the lines sharing a (cgst, sgst) rate pair.
type TaxGroup struct {
	CGSTRate      decimal.Decimal
	SGSTRate      decimal.Decimal
	TaxableAmount decimal.Decimal
	CGSTAmount    decimal.Decimal
	SGSTAmount    decimal.Decimal
	TotalTax      decimal.Decimal
}

// Summary is the computed totals of a cart.
type Summary struct {
	MedicalSubtotal    decimal.Decimal
	NonMedicalSubtotal decimal.Decimal
	MedicalDiscount    decimal.Decimal
	NonMedicalDiscount decimal.Decimal
	Subtotal           decimal.Decimal
	TaxGroups          []TaxGroup
	GrandTotalTax      decimal.Decimal
	Shipping           decimal.Decimal
	Coupon             decimal.Decimal
	RoundOff           decimal.Decimal
	TotalPayable       decimal.Decimal
	TotalSavings       decimal.Decimal
}

// DiscountedPrice is mrp * (1 - discount/100).
func DiscountedPrice(line entity.CartLine) decimal.Decimal {
	mrp := decimal.NewFromFloat(line.MRP)
	pct := decimal.NewFromFloat(line.DiscountPercent)
	return mrp.Mul(one.Sub(pct.Div(hundred)))
}

// LineNet is the discounted price times quantity.
func LineNet(line entity.CartLine) decimal.Decimal {
	return DiscountedPrice(line).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// LineGross is mrp times quantity.
func LineGross(line entity.CartLine) decimal.Decimal {
	return decimal.NewFromFloat(line.MRP).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// LineTotal is the line net rounded to paise, as stored in total_price.
func LineTotal(line entity.CartLine) float64 {
	return LineNet(line).Round(2).InexactFloat64()
}

type rateKey struct {
	cgst string
	sgst string
}

// Compute summarises lines. The total payable is subtotal plus round-off;
// shipping and coupon are reported but not added to it.
func Compute(lines []entity.CartLine, opts Options) Summary {
	s := Summary{
		Shipping: decimal.NewFromFloat(opts.Shipping),
		Coupon:   decimal.NewFromFloat(opts.Coupon),
	}

	groups := map[rateKey]*TaxGroup{}
	for _, l := range lines {
		net := LineNet(l)
		gross := LineGross(l)
		discount := gross.Sub(net)

		if l.Type.IsMedical() {
			s.MedicalSubtotal = s.MedicalSubtotal.Add(net)
			s.MedicalDiscount = s.MedicalDiscount.Add(discount)
		} else {
			s.NonMedicalSubtotal = s.NonMedicalSubtotal.Add(net)
			s.NonMedicalDiscount = s.NonMedicalDiscount.Add(discount)
		}

		if l.CGST <= 0 && l.SGST <= 0 {
			continue
		}
		cgst := decimal.NewFromFloat(l.CGST)
		sgst := decimal.NewFromFloat(l.SGST)
		key := rateKey{cgst: cgst.String(), sgst: sgst.String()}
		g, ok := groups[key]
		if !ok {
			g = &TaxGroup{CGSTRate: cgst, SGSTRate: sgst}
			groups[key] = g
		}
		taxable := gross.Div(one.Add(cgst.Add(sgst).Div(hundred)))
		g.TaxableAmount = g.TaxableAmount.Add(taxable)
		g.CGSTAmount = g.CGSTAmount.Add(taxable.Mul(cgst).Div(hundred))
		g.SGSTAmount = g.SGSTAmount.Add(taxable.Mul(sgst).Div(hundred))
	}

	for _, g := range groups {
		g.TaxableAmount = g.TaxableAmount.Round(2)
		g.CGSTAmount = g.CGSTAmount.Round(2)
		g.SGSTAmount = g.SGSTAmount.Round(2)
		g.TotalTax = g.CGSTAmount.Add(g.SGSTAmount)
		s.TaxGroups = append(s.TaxGroups, *g)
		s.GrandTotalTax = s.GrandTotalTax.Add(g.TotalTax)
	}
	sort.Slice(s.TaxGroups, func(i, j int) bool {
		a, b := s.TaxGroups[i], s.TaxGroups[j]
		if !a.CGSTRate.Equal(b.CGSTRate) {
			return a.CGSTRate.LessThan(b.CGSTRate)
		}
		return a.SGSTRate.LessThan(b.SGSTRate)
	})

	s.Subtotal = s.MedicalSubtotal.Add(s.NonMedicalSubtotal).Round(2)
	if opts.RoundOff {
		s.RoundOff = s.Subtotal.Ceil().Sub(s.Subtotal)
	}
	s.TotalPayable = s.Subtotal.Add(s.RoundOff)
	s.TotalSavings = s.MedicalDiscount.Abs().Add(s.NonMedicalDiscount.Abs()).Add(s.Coupon.Abs())
	return s
}

// ReturnAmount is the change owed for a cash payment. It is negative when the
// customer handed over too little.
func (s Summary) ReturnAmount(received float64) decimal.Decimal {
	return decimal.NewFromFloat(received).Sub(s.TotalPayable).Round(2)
}

// ValidateSplits checks that every split is a positive amount with a method
// and that the amounts add up to the payable total at paise precision.
func (s Summary) ValidateSplits(splits []entity.PaymentSplit) error {
	var errs []apperror.FieldError
	if len(splits) == 0 {
		errs = append(errs, apperror.FieldError{Field: "splits", Message: "At least one split payment is required"})
	}

	sum := decimal.Zero
	for i, sp := range splits {
		amount := decimal.NewFromFloat(sp.Amount)
		if !amount.IsPositive() {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("splits[%d].amount", i),
				Message: "Amount must be greater than zero",
			})
		}
		if strings.TrimSpace(sp.Method) == "" {
			errs = append(errs, apperror.FieldError{
				Field:   fmt.Sprintf("splits[%d].method", i),
				Message: "Payment method is required",
			})
		}
		sum = sum.Add(amount)
	}

	total := s.TotalPayable.Round(2)
	if len(splits) > 0 && !sum.Round(2).Equal(total) {
		errs = append(errs, apperror.FieldError{
			Field:   "splits",
			Message: fmt.Sprintf("Split amounts (%s) must equal the total payable (%s)", sum.StringFixed(2), total.StringFixed(2)),
		})
	}

	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// Totals converts the summary into the rounded values carried in payloads.
func (s Summary) Totals() entity.OrderTotals {
	t := entity.OrderTotals{
		MedicalSubtotal:    money(s.MedicalSubtotal),
		NonMedicalSubtotal: money(s.NonMedicalSubtotal),
		MedicalDiscount:    money(s.MedicalDiscount),
		NonMedicalDiscount: money(s.NonMedicalDiscount),
		Subtotal:           money(s.Subtotal),
		TaxGroups:          make([]entity.TaxGroup, 0, len(s.TaxGroups)),
		GrandTotalTax:      money(s.GrandTotalTax),
		Shipping:           money(s.Shipping),
		Coupon:             money(s.Coupon),
		RoundOff:           money(s.RoundOff),
		TotalPayable:       money(s.TotalPayable),
		TotalSavings:       money(s.TotalSavings),
	}
	for _, g := range s.TaxGroups {
		t.TaxGroups = append(t.TaxGroups, entity.TaxGroup{
			CGSTRate:      g.CGSTRate.InexactFloat64(),
			SGSTRate:      g.SGSTRate.InexactFloat64(),
			TaxableAmount: money(g.TaxableAmount),
			CGSTAmount:    money(g.CGSTAmount),
			SGSTAmount:    money(g.SGSTAmount),
			TotalTax:      money(g.TotalTax),
		})
	}
	return t
}

// MarshalJSON renders amounts as numbers rounded to paise.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Totals())
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
