package sales

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kassa-system/internal/database/models"
)

// ErrNotFound is returned when a sale id does not exist.
var ErrNotFound = errors.New("sale not found")

// ListFilter narrows a sale listing. Zero values mean "no filter".
type ListFilter struct {
	From          time.Time
	To            time.Time
	PaymentMethod string
	SaleType      string
	Page          int
	PageSize      int
}

// Summary aggregates finalized sales over a period.
type Summary struct {
	SaleCount      int64           `json:"sale_count"`
	ReturnCount    int64           `json:"return_count"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Total          decimal.Decimal `json:"total"`
}

// Repo is the query side of the sales ledger. Sales are immutable; this
// repo never writes.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Get returns one sale with its items and their products.
func (r *Repo) Get(ctx context.Context, id int64) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&sale, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// List returns sales matching the filter, newest first.
func (r *Repo) List(ctx context.Context, filter ListFilter) ([]models.Sale, int64, error) {
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := r.db.WithContext(ctx).Model(&models.Sale{}).Preload("Items.Product")
	if !filter.From.IsZero() {
		query = query.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("created_at < ?", filter.To)
	}
	if filter.PaymentMethod != "" {
		query = query.Where("payment_method = ?", filter.PaymentMethod)
	}
	if filter.SaleType != "" {
		query = query.Where("sale_type = ?", filter.SaleType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []models.Sale
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Summarize aggregates the ledger between two instants. COALESCE keeps the
// sums at zero when the period has no sales.
func (r *Repo) Summarize(ctx context.Context, from, to time.Time) (*Summary, error) {
	var summary Summary

	var amounts struct {
		Subtotal       decimal.Decimal
		DiscountAmount decimal.Decimal
		Total          decimal.Decimal
	}
	err := r.db.WithContext(ctx).Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ? AND sale_type = ?", from, to, models.SaleTypeSale).
		Select(
			"COALESCE(SUM(subtotal), 0) AS subtotal, " +
				"COALESCE(SUM(discount_amount), 0) AS discount_amount, " +
				"COALESCE(SUM(total), 0) AS total",
		).
		Scan(&amounts).Error
	if err != nil {
		return nil, err
	}
	summary.Subtotal = amounts.Subtotal
	summary.DiscountAmount = amounts.DiscountAmount
	summary.Total = amounts.Total

	err = r.db.WithContext(ctx).Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ? AND sale_type = ?", from, to, models.SaleTypeSale).
		Count(&summary.SaleCount).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&models.Sale{}).
		Where("created_at >= ? AND created_at < ? AND sale_type = ?", from, to, models.SaleTypeReturn).
		Count(&summary.ReturnCount).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}
