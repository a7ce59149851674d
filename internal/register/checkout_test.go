package register

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kassa-system/internal/database/models"
)

func TestCheckoutEngine_Finalize(t *testing.T) {
	db := newTestDB(t)
	engine := NewCheckoutEngine(db)
	ctx := context.Background()

	disc := percentageDiscount("10", "5.00")
	sale, err := engine.Finalize(ctx, testCart(), AppliedDiscounts{Percentage: &disc}, CheckoutRequest{
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	// Header amounts are rounded to cents at this boundary.
	assert.Equal(t, "10.99", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "1.10", sale.DiscountAmount.StringFixed(2))
	assert.Equal(t, "9.89", sale.Total.StringFixed(2))
	assert.Equal(t, models.SaleTypeSale, sale.SaleType)
	assert.True(t, strings.HasPrefix(sale.DocumentNumber, "KS-"))

	var items []models.SaleItem
	require.NoError(t, db.Where("sale_id = ?", sale.ID).Order("id").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ProductID)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.Equal(t, "10.00", items[0].DiscountPercentage.StringFixed(2))
	assert.Equal(t, "5.00", items[0].Subtotal.StringFixed(2))
	assert.Equal(t, "4.50", items[0].Total.StringFixed(2))
}

func TestCheckoutEngine_EmptyCart(t *testing.T) {
	engine := NewCheckoutEngine(newTestDB(t))

	_, err := engine.Finalize(context.Background(), Cart{}, AppliedDiscounts{}, CheckoutRequest{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutEngine_InvalidCart(t *testing.T) {
	engine := NewCheckoutEngine(newTestDB(t))
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Quantity: 0, UnitPrice: d("1.00")},
	}}

	_, err := engine.Finalize(context.Background(), cart, AppliedDiscounts{}, CheckoutRequest{PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ErrQuantityInvalid)
}

func TestCheckoutEngine_AllOrNothing(t *testing.T) {
	db := newTestDB(t)
	engine := NewCheckoutEngine(db)
	ctx := context.Background()

	// Break item persistence so the header insert succeeds but the first
	// item insert fails mid-transaction.
	require.NoError(t, db.Migrator().DropTable(&models.SaleItem{}))

	_, err := engine.Finalize(ctx, testCart(), AppliedDiscounts{}, CheckoutRequest{PaymentMethod: "cash"})
	require.ErrorIs(t, err, ErrCommitFailed)

	var saleCount int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&saleCount).Error)
	assert.Zero(t, saleCount, "rolled back commit must leave no sale header behind")
}

func TestCheckoutEngine_ReturnDocument(t *testing.T) {
	db := newTestDB(t)
	engine := NewCheckoutEngine(db)
	ctx := context.Background()

	originalID := int64(42)
	cart := Cart{Items: []CartItem{
		{ProductID: 1, Quantity: 1, UnitPrice: d("5.00"), DiscountOverride: dp("10")},
	}}

	sale, err := engine.Finalize(ctx, cart, AppliedDiscounts{}, CheckoutRequest{
		PaymentMethod:  "card",
		SaleType:       models.SaleTypeReturn,
		OriginalSaleID: &originalID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.SaleTypeReturn, sale.SaleType)
	assert.True(t, strings.HasPrefix(sale.DocumentNumber, "RET-"))
	require.NotNil(t, sale.OriginalSaleID)
	assert.Equal(t, originalID, *sale.OriginalSaleID)
	assert.Equal(t, "4.50", sale.Total.StringFixed(2))
}

func TestNewDocumentNumber_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := newDocumentNumber(models.SaleTypeSale)
		assert.False(t, seen[n], "duplicate document number %s", n)
		seen[n] = true
	}
}
