package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa-system/internal/database/models"
)

func barcoded(d models.Discount, code string) models.Discount {
	d.AutoActivate = false
	d.Barcode = &code
	return d
}

func TestApplicableAutoDiscounts(t *testing.T) {
	catalog := []models.Discount{
		percentageDiscount("10", "5.00"),
		percentageDiscount("15", "5.00"),
		fixedDiscount("2.00", "20.00"),
	}

	t.Run("filters by minimum cart value", func(t *testing.T) {
		qualifying := ApplicableAutoDiscounts(catalog, d("10.99"))
		require.Len(t, qualifying, 2)
		// Ordered by value descending, largest benefit first.
		assert.True(t, qualifying[0].Value.Equal(d("15")))
		assert.True(t, qualifying[1].Value.Equal(d("10")))
	})

	t.Run("below every threshold", func(t *testing.T) {
		assert.Empty(t, ApplicableAutoDiscounts(catalog, d("4.99")))
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		qualifying := ApplicableAutoDiscounts(catalog, d("5.00"))
		assert.Len(t, qualifying, 2)
	})

	t.Run("inactive discounts never qualify", func(t *testing.T) {
		inactive := percentageDiscount("50", "0")
		inactive.IsActive = false
		assert.Empty(t, ApplicableAutoDiscounts([]models.Discount{inactive}, d("100")))
	})

	t.Run("barcode discounts are not auto-activated", func(t *testing.T) {
		bc := barcoded(percentageDiscount("50", "0"), "DISC50")
		assert.Empty(t, ApplicableAutoDiscounts([]models.Discount{bc}, d("100")))
	})
}

func TestSelectApplied(t *testing.T) {
	t.Run("one discount per class, highest value wins", func(t *testing.T) {
		catalog := []models.Discount{
			percentageDiscount("15", "0"),
			percentageDiscount("10", "0"),
			fixedDiscount("5.00", "0"),
			fixedDiscount("3.00", "0"),
		}

		applied := SelectApplied(ApplicableAutoDiscounts(catalog, d("100")))

		require.NotNil(t, applied.Percentage)
		require.NotNil(t, applied.Fixed)
		assert.True(t, applied.Percentage.Value.Equal(d("15")))
		assert.True(t, applied.Fixed.Value.Equal(d("5.00")))
	})

	t.Run("two qualifying percentage discounts apply only the larger", func(t *testing.T) {
		catalog := []models.Discount{
			percentageDiscount("10", "5.00"),
			percentageDiscount("15", "5.00"),
		}

		applied := SelectApplied(ApplicableAutoDiscounts(catalog, d("10.99")))

		require.NotNil(t, applied.Percentage)
		assert.True(t, applied.Percentage.Value.Equal(d("15")))
		assert.Nil(t, applied.Fixed)
	})

	t.Run("empty input applies nothing", func(t *testing.T) {
		applied := SelectApplied(nil)
		assert.Nil(t, applied.Percentage)
		assert.Nil(t, applied.Fixed)
	})
}

func TestResolveByBarcode(t *testing.T) {
	catalog := []models.Discount{
		percentageDiscount("10", "5.00"),
		barcoded(percentageDiscount("20", "0"), "DISC20"),
		barcoded(fixedDiscount("5.00", "0"), "FIVE"),
	}

	t.Run("resolves an active barcode discount", func(t *testing.T) {
		found, ok := ResolveByBarcode(catalog, "DISC20")
		require.True(t, ok)
		assert.True(t, found.Value.Equal(d("20")))
	})

	t.Run("unknown code is a not-found result", func(t *testing.T) {
		_, ok := ResolveByBarcode(catalog, "NOPE")
		assert.False(t, ok)
	})

	t.Run("empty code never matches", func(t *testing.T) {
		_, ok := ResolveByBarcode(catalog, "")
		assert.False(t, ok)
	})

	t.Run("inactive barcode discounts do not resolve", func(t *testing.T) {
		inactive := barcoded(percentageDiscount("30", "0"), "OLD")
		inactive.IsActive = false
		_, ok := ResolveByBarcode([]models.Discount{inactive}, "OLD")
		assert.False(t, ok)
	})
}

func TestAppliedDiscounts_Apply(t *testing.T) {
	t.Run("replaces same class, keeps the other", func(t *testing.T) {
		auto := percentageDiscount("10", "0")
		fixed := fixedDiscount("2.00", "0")
		applied := AppliedDiscounts{Percentage: &auto, Fixed: &fixed}

		scanned := barcoded(percentageDiscount("25", "0"), "DISC25")
		applied.Apply(scanned)

		require.NotNil(t, applied.Percentage)
		assert.True(t, applied.Percentage.Value.Equal(d("25")))
		require.NotNil(t, applied.Fixed)
		assert.True(t, applied.Fixed.Value.Equal(d("2.00")))
	})

	t.Run("fixed replaces fixed", func(t *testing.T) {
		fixed := fixedDiscount("2.00", "0")
		applied := AppliedDiscounts{Fixed: &fixed}

		applied.Apply(barcoded(fixedDiscount("7.00", "0"), "SEVEN"))

		assert.True(t, applied.Fixed.Value.Equal(d("7.00")))
		assert.Nil(t, applied.Percentage)
	})
}
