package register

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"kassa-system/internal/database/models"
)

// Register event types published after a successful commit.
const (
	EventSaleCreated  = "sale.created"
	EventSaleReturned = "sale.returned"
)

// ProductCatalog is the slice of the product collaborator the register
// depends on.
type ProductCatalog interface {
	GetByBarcode(ctx context.Context, code string) (*models.Product, error)
	IsReferencedBySale(ctx context.Context, productID int64) (bool, error)
}

// DiscountCatalog supplies the active discount set for evaluation.
type DiscountCatalog interface {
	GetActive(ctx context.Context) ([]models.Discount, error)
}

// SaleHistory looks up finalized sales, used when building returns.
type SaleHistory interface {
	Get(ctx context.Context, id int64) (*models.Sale, error)
}

// TotalsResult is what the UI shows while a cart is being built.
type TotalsResult struct {
	Totals
	AppliedPercentage *models.Discount
	AppliedFixed      *models.Discount
	BarcodeMatched    bool
}

// Service is the register facade: every cashier action funnels through it.
// It owns the one-current-cart lifecycle and hands finalization to the
// checkout engine. All inputs and outputs are plain records; no transport
// types leak in.
type Service struct {
	store     *ActiveSaleStore
	engine    *CheckoutEngine
	products  ProductCatalog
	discounts DiscountCatalog
	sales     SaleHistory
	redis     *redis.Client
}

func NewService(store *ActiveSaleStore, engine *CheckoutEngine, products ProductCatalog, discounts DiscountCatalog, sales SaleHistory, redisClient *redis.Client) *Service {
	return &Service{
		store:     store,
		engine:    engine,
		products:  products,
		discounts: discounts,
		sales:     sales,
		redis:     redisClient,
	}
}

// BeginOrUpdateCart persists the working cart. The first mutation of a
// session creates the current row; later mutations re-persist the snapshot.
func (s *Service) BeginOrUpdateCart(ctx context.Context, cart Cart) (*models.ActiveSale, error) {
	if err := ValidateCart(cart); err != nil {
		return nil, err
	}

	current, err := s.store.Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNoCurrentSale) {
			return s.store.Create(ctx, cart)
		}
		return nil, err
	}

	if err := s.store.Update(ctx, current.ID, cart); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, current.ID)
}

// CurrentCart returns the current active sale and its decoded cart.
func (s *Service) CurrentCart(ctx context.Context) (*models.ActiveSale, Cart, error) {
	row, err := s.store.Current(ctx)
	if err != nil {
		return nil, Cart{}, err
	}
	cart, err := DecodeCart(row.CartData)
	if err != nil {
		return nil, Cart{}, err
	}
	return row, cart, nil
}

// PutOnHold suspends a cart for later resumption.
func (s *Service) PutOnHold(ctx context.Context, id int64, notes string) error {
	return s.store.PutOnHold(ctx, id, notes)
}

// Resume makes a held cart current again, demoting whatever was current.
func (s *Service) Resume(ctx context.Context, id int64) error {
	return s.store.Resume(ctx, id)
}

// HeldSales lists the suspended carts.
func (s *Service) HeldSales(ctx context.Context) ([]models.ActiveSale, error) {
	return s.store.ListHeld(ctx)
}

// Clear discards an in-progress cart.
func (s *Service) Clear(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// ComputeTotals evaluates discounts against the cart and returns the
// amounts the register displays. An unrecognized discount barcode is
// reported through BarcodeMatched, never as an error.
func (s *Service) ComputeTotals(ctx context.Context, cart Cart, discountBarcode string) (TotalsResult, error) {
	applied, matched, err := s.evaluateDiscounts(ctx, cart, discountBarcode)
	if err != nil {
		return TotalsResult{}, err
	}

	return TotalsResult{
		Totals:            CartTotals(cart, applied),
		AppliedPercentage: applied.Percentage,
		AppliedFixed:      applied.Fixed,
		BarcodeMatched:    matched,
	}, nil
}

// Checkout finalizes the current cart. On success the active-sale row is
// deleted and a sale event is published; on failure nothing is persisted
// and the cart stays as it was, ready for retry.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest, discountBarcode string) (*models.Sale, error) {
	row, cart, err := s.CurrentCart(ctx)
	if err != nil {
		return nil, err
	}

	applied, matched, err := s.evaluateDiscounts(ctx, cart, discountBarcode)
	if err != nil {
		return nil, err
	}
	if discountBarcode != "" && !matched {
		return nil, ErrDiscountNotFound
	}

	if cart.Notes != "" && req.Notes == "" {
		req.Notes = cart.Notes
	}
	req.NeedsInvoice = req.NeedsInvoice || cart.NeedsInvoice
	req.SaleType = models.SaleTypeSale

	sale, err := s.engine.Finalize(ctx, cart, applied, req)
	if err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, row.ID); err != nil {
		log.Printf("checkout: sale %d committed but active sale %d not cleared: %v", sale.ID, row.ID, err)
	}

	s.publishSaleEvent(ctx, EventSaleCreated, sale)
	return sale, nil
}

// CreateReturn builds a return document from a finalized sale. Returned
// quantities stay positive; the document type distinguishes a return from
// a sale. When itemIDs is empty the whole sale is returned.
func (s *Service) CreateReturn(ctx context.Context, originalSaleID int64, itemIDs []int64, notes string) (*models.Sale, error) {
	original, err := s.sales.Get(ctx, originalSaleID)
	if err != nil {
		return nil, err
	}
	if original.SaleType == models.SaleTypeReturn {
		return nil, fmt.Errorf("cannot return a return document")
	}

	wanted := make(map[int64]bool, len(itemIDs))
	for _, id := range itemIDs {
		wanted[id] = true
	}

	cart := Cart{}
	for _, item := range original.Items {
		if len(itemIDs) > 0 && !wanted[item.ID] {
			continue
		}
		pct := item.DiscountPercentage
		cart.Items = append(cart.Items, CartItem{
			ProductID:        item.ProductID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			DiscountOverride: &pct,
		})
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	req := CheckoutRequest{
		PaymentMethod:  original.PaymentMethod,
		Notes:          notes,
		SaleType:       models.SaleTypeReturn,
		OriginalSaleID: &originalSaleID,
	}

	sale, err := s.engine.Finalize(ctx, cart, AppliedDiscounts{}, req)
	if err != nil {
		return nil, err
	}

	s.publishSaleEvent(ctx, EventSaleReturned, sale)
	return sale, nil
}

func (s *Service) evaluateDiscounts(ctx context.Context, cart Cart, discountBarcode string) (AppliedDiscounts, bool, error) {
	if len(cart.Items) == 0 {
		return AppliedDiscounts{}, false, nil
	}

	catalog, err := s.discounts.GetActive(ctx)
	if err != nil {
		return AppliedDiscounts{}, false, err
	}

	applied := SelectApplied(ApplicableAutoDiscounts(catalog, CartSubtotal(cart)))

	matched := false
	if discountBarcode != "" {
		if d, ok := ResolveByBarcode(catalog, discountBarcode); ok {
			applied.Apply(d)
			matched = true
		}
	}
	return applied, matched, nil
}

type saleEvent struct {
	EventType      string    `json:"event_type"`
	SaleID         int64     `json:"sale_id"`
	DocumentNumber string    `json:"document_number"`
	SaleType       string    `json:"sale_type"`
	Total          string    `json:"total"`
	PaymentMethod  string    `json:"payment_method"`
	Timestamp      time.Time `json:"timestamp"`
}

func (s *Service) publishSaleEvent(ctx context.Context, eventType string, sale *models.Sale) {
	if s.redis == nil {
		return
	}

	event := saleEvent{
		EventType:      eventType,
		SaleID:         sale.ID,
		DocumentNumber: sale.DocumentNumber,
		SaleType:       sale.SaleType,
		Total:          sale.Total.StringFixed(2),
		PaymentMethod:  sale.PaymentMethod,
		Timestamp:      time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("failed to marshal sale event: %v", err)
		return
	}

	channel := fmt.Sprintf("kassa:events:%s", eventType)
	if err := s.redis.Publish(ctx, channel, payload).Err(); err != nil {
		log.Printf("failed to publish sale event: %v", err)
	}
	if err := s.redis.Publish(ctx, "kassa:events:all", payload).Err(); err != nil {
		log.Printf("failed to publish to all channel: %v", err)
	}
}
