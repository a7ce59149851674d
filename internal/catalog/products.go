package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"kassa-system/internal/database/models"
)

const (
	productBarcodeCachePrefix = "kassa:product:barcode:"
	cacheTTL                  = 5 * time.Minute
)

var (
	ErrNotFound = errors.New("not found")

	// ErrPriceInvalid rejects negative unit prices at the boundary.
	ErrPriceInvalid = errors.New("unit price must not be negative")
)

// ProductRepo owns the product catalog. The register consumes it through
// the register.ProductCatalog interface.
type ProductRepo struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProductRepo(db *gorm.DB, redisClient *redis.Client) *ProductRepo {
	return &ProductRepo{db: db, redis: redisClient}
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetByBarcode resolves a scanned code to a product. Archived products do
// not resolve; they exist only to keep sale history consistent.
func (r *ProductRepo) GetByBarcode(ctx context.Context, code string) (*models.Product, error) {
	if code == "" {
		return nil, ErrNotFound
	}

	cacheKey := productBarcodeCachePrefix + code
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND archived = ?", code, false).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if r.redis != nil {
		if payload, err := json.Marshal(product); err == nil {
			r.redis.Set(ctx, cacheKey, payload, cacheTTL)
		}
	}
	return &product, nil
}

// List returns products matching the search term (code or name), paginated.
func (r *ProductRepo) List(ctx context.Context, search string, includeArchived bool, page, pageSize int) ([]models.Product, int64, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	if search != "" {
		term := "%" + search + "%"
		query = query.Where(
			"LOWER(product_code) LIKE LOWER(?) OR LOWER(name) LIKE LOWER(?)",
			term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []models.Product
	err := query.Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.UnitPrice.IsNegative() {
		return ErrPriceInvalid
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	r.invalidateCaches(ctx, product)
	return nil
}

func (r *ProductRepo) Update(ctx context.Context, product *models.Product) error {
	if product.UnitPrice.IsNegative() {
		return ErrPriceInvalid
	}
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"product_code": product.ProductCode,
			"name":         product.Name,
			"unit_price":   product.UnitPrice,
			"barcode":      product.Barcode,
		})
	if result.Error != nil {
		return fmt.Errorf("update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCaches(ctx, product)
	return nil
}

// IsReferencedBySale reports whether any finalized sale line references
// the product. Referenced products must never be hard-deleted.
func (r *ProductRepo) IsReferencedBySale(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SaleItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes a product, or archives it when sale history references
// it. Archival is idempotent and is not an error from the cashier's point
// of view.
func (r *ProductRepo) Delete(ctx context.Context, id int64) (archived bool, err error) {
	product, err := r.Get(ctx, id)
	if err != nil {
		return false, err
	}

	referenced, err := r.IsReferencedBySale(ctx, id)
	if err != nil {
		return false, err
	}

	if referenced {
		err = r.db.WithContext(ctx).Model(&models.Product{}).
			Where("id = ?", id).
			Update("archived", true).Error
		if err != nil {
			return false, fmt.Errorf("archive product: %w", err)
		}
		r.invalidateCaches(ctx, product)
		return true, nil
	}

	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	r.invalidateCaches(ctx, product)
	return false, nil
}

func (r *ProductRepo) invalidateCaches(ctx context.Context, product *models.Product) {
	if r.redis == nil || product == nil || product.Barcode == nil {
		return
	}
	r.redis.Del(ctx, productBarcodeCachePrefix+*product.Barcode)
}
