package register

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSnapshotRoundTrip(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{ProductID: 1, Name: "Coffee", Quantity: 2, UnitPrice: d("2.50")},
			{ProductID: 2, Name: "Sandwich", Quantity: 1, UnitPrice: d("5.99"), DiscountOverride: dp("15")},
		},
		Notes:        "table 4",
		NeedsInvoice: true,
	}

	data, err := EncodeCart(cart)
	require.NoError(t, err)

	decoded, err := DecodeCart(data)
	require.NoError(t, err)

	require.Len(t, decoded.Items, 2)
	assert.Equal(t, cart.Items[0].ProductID, decoded.Items[0].ProductID)
	assert.True(t, decoded.Items[0].UnitPrice.Equal(d("2.50")))
	require.NotNil(t, decoded.Items[1].DiscountOverride)
	assert.True(t, decoded.Items[1].DiscountOverride.Equal(d("15")))
	assert.Equal(t, "table 4", decoded.Notes)
	assert.True(t, decoded.NeedsInvoice)
}

func TestDecodeCart_Rejects(t *testing.T) {
	t.Run("garbage", func(t *testing.T) {
		_, err := DecodeCart("{not json")
		assert.ErrorIs(t, err, ErrSnapshotInvalid)
	})

	t.Run("unsupported version", func(t *testing.T) {
		_, err := DecodeCart(`{"version":99,"items":[]}`)
		assert.ErrorIs(t, err, ErrSnapshotInvalid)
	})

	t.Run("invalid line in stored snapshot", func(t *testing.T) {
		_, err := DecodeCart(`{"version":1,"items":[{"product_id":1,"quantity":0,"unit_price":"1.00"}]}`)
		assert.ErrorIs(t, err, ErrSnapshotInvalid)
	})
}

func TestValidateItem(t *testing.T) {
	valid := CartItem{ProductID: 1, Quantity: 1, UnitPrice: d("1.00")}
	require.NoError(t, ValidateItem(valid))

	t.Run("zero quantity cancels the edit", func(t *testing.T) {
		item := valid
		item.Quantity = 0
		assert.ErrorIs(t, ValidateItem(item), ErrQuantityInvalid)
	})

	t.Run("negative quantity rejected", func(t *testing.T) {
		item := valid
		item.Quantity = -1
		assert.ErrorIs(t, ValidateItem(item), ErrQuantityInvalid)
	})

	t.Run("negative price rejected", func(t *testing.T) {
		item := valid
		item.UnitPrice = d("-0.01")
		assert.ErrorIs(t, ValidateItem(item), ErrPriceInvalid)
	})

	t.Run("discount override bounds", func(t *testing.T) {
		item := valid
		item.DiscountOverride = dp("100")
		assert.NoError(t, ValidateItem(item))

		item.DiscountOverride = dp("100.01")
		assert.ErrorIs(t, ValidateItem(item), ErrDiscountPercentInvalid)

		item.DiscountOverride = dp("-1")
		assert.ErrorIs(t, ValidateItem(item), ErrDiscountPercentInvalid)
	})
}
