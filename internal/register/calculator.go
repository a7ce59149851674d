package register

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals carries the computed amounts of a cart. Values are exact; rounding
// to two decimals happens only at the persistence and display boundary.
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Total          decimal.Decimal
}

// EffectiveLinePercent resolves the discount percentage for one line:
// the per-item override wins over a cart-wide percentage discount, which
// wins over nothing. This rule lives here and nowhere else.
func EffectiveLinePercent(item CartItem, applied AppliedDiscounts) decimal.Decimal {
	if item.DiscountOverride != nil {
		return *item.DiscountOverride
	}
	if applied.Percentage != nil {
		return applied.Percentage.Value
	}
	return decimal.Zero
}

// LineSubtotal is quantity × unit price, pre-discount.
func LineSubtotal(item CartItem) decimal.Decimal {
	return item.UnitPrice.Mul(decimal.NewFromInt32(item.Quantity))
}

// LineTotal applies the resolved percentage to the line subtotal.
func LineTotal(item CartItem, percent decimal.Decimal) decimal.Decimal {
	sub := LineSubtotal(item)
	return sub.Sub(sub.Mul(percent).Div(hundred))
}

// CartSubtotal is the pre-discount sum over all lines.
func CartSubtotal(cart Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(LineSubtotal(item))
	}
	return subtotal
}

// CartTotals computes subtotal, total discount and total for a cart under
// the applied discounts. A fixed discount is clamped against what remains
// after line-level discounts so the total never goes negative. A zero-item
// cart yields zero totals without touching the discounts at all.
func CartTotals(cart Cart, applied AppliedDiscounts) Totals {
	if len(cart.Items) == 0 {
		return Totals{Subtotal: decimal.Zero, DiscountAmount: decimal.Zero, Total: decimal.Zero}
	}

	subtotal := decimal.Zero
	afterLines := decimal.Zero
	for _, item := range cart.Items {
		subtotal = subtotal.Add(LineSubtotal(item))
		afterLines = afterLines.Add(LineTotal(item, EffectiveLinePercent(item, applied)))
	}

	total := afterLines
	if applied.Fixed != nil {
		fixed := applied.Fixed.Value
		if fixed.GreaterThan(afterLines) {
			fixed = afterLines
		}
		total = afterLines.Sub(fixed)
	}

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: subtotal.Sub(total),
		Total:          total,
	}
}
