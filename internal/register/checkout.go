package register

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kassa-system/internal/database/models"
)

// CheckoutRequest carries everything the engine needs besides the cart.
type CheckoutRequest struct {
	PaymentMethod  string
	NeedsInvoice   bool
	Notes          string
	SaleType       string
	OriginalSaleID *int64
}

// CheckoutEngine converts a cart into a permanent Sale plus SaleItem set in
// a single transaction. It never touches Product rows and never deletes the
// originating active sale; the service does that after a successful commit,
// keeping this boundary minimal and testable in isolation.
type CheckoutEngine struct {
	db *gorm.DB
}

func NewCheckoutEngine(db *gorm.DB) *CheckoutEngine {
	return &CheckoutEngine{db: db}
}

// Finalize writes the sale header and one item row per cart line,
// all-or-nothing. Amounts are rounded to two decimals here, at the
// persistence boundary, never earlier. Any storage failure rolls the whole
// write back and surfaces as ErrCommitFailed.
func (e *CheckoutEngine) Finalize(ctx context.Context, cart Cart, applied AppliedDiscounts, req CheckoutRequest) (*models.Sale, error) {
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if err := ValidateCart(cart); err != nil {
		return nil, err
	}

	saleType := req.SaleType
	if saleType == "" {
		saleType = models.SaleTypeSale
	}

	totals := CartTotals(cart, applied)

	sale := models.Sale{
		DocumentNumber: newDocumentNumber(saleType),
		SaleType:       saleType,
		OriginalSaleID: req.OriginalSaleID,
		Subtotal:       totals.Subtotal.Round(2),
		DiscountAmount: totals.DiscountAmount.Round(2),
		Total:          totals.Total.Round(2),
		PaymentMethod:  req.PaymentMethod,
		NeedsInvoice:   req.NeedsInvoice,
		CreatedAt:      time.Now(),
	}
	if req.Notes != "" {
		sale.Notes = &req.Notes
	}

	err := e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return fmt.Errorf("insert sale header: %w", err)
		}

		for _, line := range cart.Items {
			percent := EffectiveLinePercent(line, applied)
			item := models.SaleItem{
				SaleID:             sale.ID,
				ProductID:          line.ProductID,
				Quantity:           line.Quantity,
				UnitPrice:          line.UnitPrice.Round(2),
				DiscountPercentage: percent.Round(2),
				Subtotal:           LineSubtotal(line).Round(2),
				Total:              LineTotal(line, percent).Round(2),
				CreatedAt:          sale.CreatedAt,
			}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("insert sale item for product %d: %w", line.ProductID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}

	return &sale, nil
}

func newDocumentNumber(saleType string) string {
	prefix := "KS"
	if saleType == models.SaleTypeReturn {
		prefix = "RET"
	}
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	return fmt.Sprintf("%s-%s-%s", prefix, time.Now().Format("20060102"), suffix)
}
