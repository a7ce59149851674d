package register

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa-system/internal/database/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func testCart() Cart {
	return Cart{Items: []CartItem{
		{ProductID: 1, Name: "Coffee", Quantity: 2, UnitPrice: d("2.50")},
		{ProductID: 2, Name: "Sandwich", Quantity: 1, UnitPrice: d("5.99")},
	}}
}

func percentageDiscount(value string, minCart string) models.Discount {
	return models.Discount{
		Name:         value + "% off",
		Kind:         models.DiscountKindPercentage,
		Value:        d(value),
		AutoActivate: true,
		MinCartValue: d(minCart),
		IsActive:     true,
	}
}

func fixedDiscount(value string, minCart string) models.Discount {
	return models.Discount{
		Name:         value + " off",
		Kind:         models.DiscountKindFixed,
		Value:        d(value),
		AutoActivate: true,
		MinCartValue: d(minCart),
		IsActive:     true,
	}
}

func TestCartSubtotal(t *testing.T) {
	t.Run("sums quantity times unit price", func(t *testing.T) {
		assert.True(t, CartSubtotal(testCart()).Equal(d("10.99")))
	})

	t.Run("empty cart is zero", func(t *testing.T) {
		assert.True(t, CartSubtotal(Cart{}).IsZero())
	})
}

func TestCartTotals_NoDiscounts(t *testing.T) {
	totals := CartTotals(testCart(), AppliedDiscounts{})

	assert.True(t, totals.Subtotal.Equal(d("10.99")))
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.Total.Equal(d("10.99")))

	// Round-trip: total with no discounts equals the subtotal.
	assert.True(t, totals.Total.Equal(CartSubtotal(testCart())))
}

func TestCartTotals_PercentageDiscount(t *testing.T) {
	disc := percentageDiscount("10", "5.00")
	totals := CartTotals(testCart(), AppliedDiscounts{Percentage: &disc})

	// 10.99 minus 10% is exactly 9.891. Rounding happens at the
	// persistence boundary, not here.
	assert.True(t, totals.Total.Equal(d("9.891")), "got %s", totals.Total)
	assert.Equal(t, "9.89", totals.Total.Round(2).StringFixed(2))
	assert.True(t, totals.DiscountAmount.Equal(d("1.099")))
}

func TestCartTotals_FixedDiscountClamped(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Quantity: 1, UnitPrice: d("3.00")},
	}}
	disc := fixedDiscount("5.00", "0")

	totals := CartTotals(cart, AppliedDiscounts{Fixed: &disc})

	// A 5 euro discount on a 3 euro cart bottoms out at zero.
	assert.True(t, totals.Total.IsZero(), "got %s", totals.Total)
	assert.True(t, totals.DiscountAmount.Equal(d("3.00")))
}

func TestCartTotals_FixedDiscountProperty(t *testing.T) {
	// total == S - min(S, F) for any subtotal S and fixed discount F.
	cases := []struct {
		subtotal string
		fixed    string
		want     string
	}{
		{"10.00", "3.00", "7.00"},
		{"10.00", "10.00", "0"},
		{"10.00", "25.00", "0"},
		{"0.01", "0.01", "0"},
	}
	for _, tc := range cases {
		cart := Cart{Items: []CartItem{
			{ProductID: 1, Quantity: 1, UnitPrice: d(tc.subtotal)},
		}}
		disc := fixedDiscount(tc.fixed, "0")

		totals := CartTotals(cart, AppliedDiscounts{Fixed: &disc})
		assert.True(t, totals.Total.Equal(d(tc.want)),
			"subtotal %s fixed %s: got %s", tc.subtotal, tc.fixed, totals.Total)
	}
}

func TestCartTotals_ZeroItemCart(t *testing.T) {
	disc := percentageDiscount("10", "0")
	totals := CartTotals(Cart{}, AppliedDiscounts{Percentage: &disc})

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.DiscountAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestEffectiveLinePercent(t *testing.T) {
	cartDisc := percentageDiscount("10", "0")
	applied := AppliedDiscounts{Percentage: &cartDisc}

	t.Run("override wins over cart discount", func(t *testing.T) {
		item := CartItem{ProductID: 1, Quantity: 1, UnitPrice: d("10.00"), DiscountOverride: dp("50")}
		assert.True(t, EffectiveLinePercent(item, applied).Equal(d("50")))
	})

	t.Run("zero override still wins", func(t *testing.T) {
		item := CartItem{ProductID: 1, Quantity: 1, UnitPrice: d("10.00"), DiscountOverride: dp("0")}
		assert.True(t, EffectiveLinePercent(item, applied).IsZero())
	})

	t.Run("cart discount applies without override", func(t *testing.T) {
		item := CartItem{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")}
		assert.True(t, EffectiveLinePercent(item, applied).Equal(d("10")))
	})

	t.Run("no discounts at all", func(t *testing.T) {
		item := CartItem{ProductID: 1, Quantity: 1, UnitPrice: d("10.00")}
		assert.True(t, EffectiveLinePercent(item, AppliedDiscounts{}).IsZero())
	})
}

func TestCartTotals_OverrideNeverBlended(t *testing.T) {
	cartDisc := percentageDiscount("10", "0")
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Quantity: 1, UnitPrice: d("100.00"), DiscountOverride: dp("25")},
		{ProductID: 2, Quantity: 1, UnitPrice: d("100.00")},
	}}

	totals := CartTotals(cart, AppliedDiscounts{Percentage: &cartDisc})

	// Line 1 gets exactly 25% off, line 2 exactly 10%; never a blend.
	require.True(t, totals.Total.Equal(d("165.00")), "got %s", totals.Total)
	assert.True(t, totals.DiscountAmount.Equal(d("35.00")))
}

func TestLineTotal(t *testing.T) {
	item := CartItem{ProductID: 1, Quantity: 3, UnitPrice: d("4.00")}

	assert.True(t, LineSubtotal(item).Equal(d("12.00")))
	assert.True(t, LineTotal(item, d("0")).Equal(d("12.00")))
	assert.True(t, LineTotal(item, d("50")).Equal(d("6.00")))
	assert.True(t, LineTotal(item, d("100")).IsZero())
}
