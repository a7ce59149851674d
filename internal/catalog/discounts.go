package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kassa-system/internal/database/models"
)

const activeDiscountsCacheKey = "kassa:discounts:active"

// ErrDiscountInvalid rejects malformed discount definitions.
var ErrDiscountInvalid = errors.New("invalid discount")

// DiscountRepo owns the discount catalog. The register consumes it through
// the register.DiscountCatalog interface.
type DiscountRepo struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewDiscountRepo(db *gorm.DB, redisClient *redis.Client) *DiscountRepo {
	return &DiscountRepo{db: db, redis: redisClient}
}

func validateDiscount(d *models.Discount) error {
	switch d.Kind {
	case models.DiscountKindPercentage:
		if d.Value.IsNegative() || d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: percentage value must be between 0 and 100", ErrDiscountInvalid)
		}
	case models.DiscountKindFixed:
		if d.Value.IsNegative() {
			return fmt.Errorf("%w: fixed value must not be negative", ErrDiscountInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrDiscountInvalid, d.Kind)
	}
	if d.MinCartValue.IsNegative() {
		return fmt.Errorf("%w: minimum cart value must not be negative", ErrDiscountInvalid)
	}
	return nil
}

// GetActive returns every active discount, cached briefly since the
// register evaluates the set on every totals computation.
func (r *DiscountRepo) GetActive(ctx context.Context) ([]models.Discount, error) {
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, activeDiscountsCacheKey).Result(); err == nil {
			var discounts []models.Discount
			if err := json.Unmarshal([]byte(cached), &discounts); err == nil {
				return discounts, nil
			}
		}
	}

	var discounts []models.Discount
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("value DESC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		if payload, err := json.Marshal(discounts); err == nil {
			r.redis.Set(ctx, activeDiscountsCacheKey, payload, cacheTTL)
		}
	}
	return discounts, nil
}

func (r *DiscountRepo) Get(ctx context.Context, id int64) (*models.Discount, error) {
	var discount models.Discount
	if err := r.db.WithContext(ctx).First(&discount, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &discount, nil
}

func (r *DiscountRepo) List(ctx context.Context) ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.WithContext(ctx).Order("name ASC").Find(&discounts).Error
	return discounts, err
}

func (r *DiscountRepo) Create(ctx context.Context, discount *models.Discount) error {
	if err := validateDiscount(discount); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return fmt.Errorf("create discount: %w", err)
	}
	r.invalidateCache(ctx)
	return nil
}

func (r *DiscountRepo) Update(ctx context.Context, discount *models.Discount) error {
	if err := validateDiscount(discount); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&models.Discount{}).
		Where("id = ?", discount.ID).
		Updates(map[string]interface{}{
			"name":             discount.Name,
			"kind":             discount.Kind,
			"value":            discount.Value,
			"auto_activate":    discount.AutoActivate,
			"min_cart_value":   discount.MinCartValue,
			"is_active":        discount.IsActive,
			"barcode":          discount.Barcode,
			"show_on_register": discount.ShowOnRegister,
		})
	if result.Error != nil {
		return fmt.Errorf("update discount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCache(ctx)
	return nil
}

func (r *DiscountRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Discount{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete discount: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCache(ctx)
	return nil
}

func (r *DiscountRepo) invalidateCache(ctx context.Context) {
	if r.redis == nil {
		return
	}
	r.redis.Del(ctx, activeDiscountsCacheKey)
}
