package register

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"kassa-system/internal/database/models"
)

// Active sale statuses.
const (
	StatusCurrent = "current"
	StatusOnHold  = "on_hold"
)

// ActiveSaleStore persists in-progress carts. At most one row carries
// status 'current' at any time: transitions always demote before they
// promote, and a partial unique index backstops the invariant at the
// storage layer.
type ActiveSaleStore struct {
	db *gorm.DB
}

func NewActiveSaleStore(db *gorm.DB) *ActiveSaleStore {
	return &ActiveSaleStore{db: db}
}

// Create inserts a new current cart. Callers verify no other current row
// exists first; the unique index rejects the insert if they got it wrong.
func (s *ActiveSaleStore) Create(ctx context.Context, cart Cart) (*models.ActiveSale, error) {
	data, err := EncodeCart(cart)
	if err != nil {
		return nil, err
	}

	row := models.ActiveSale{
		Status:   StatusCurrent,
		CartData: data,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create active sale: %w", err)
	}
	return &row, nil
}

// Update re-persists the cart snapshot without a status change.
func (s *ActiveSaleStore) Update(ctx context.Context, id int64, cart Cart) error {
	data, err := EncodeCart(cart)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Model(&models.ActiveSale{}).
		Where("id = ?", id).
		Update("cart_data", data)
	if result.Error != nil {
		return fmt.Errorf("update active sale: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one active sale by id.
func (s *ActiveSaleStore) Get(ctx context.Context, id int64) (*models.ActiveSale, error) {
	var row models.ActiveSale
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Current returns the one row with status 'current', or ErrNoCurrentSale.
func (s *ActiveSaleStore) Current(ctx context.Context) (*models.ActiveSale, error) {
	var row models.ActiveSale
	err := s.db.WithContext(ctx).Where("status = ?", StatusCurrent).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoCurrentSale
		}
		return nil, err
	}
	return &row, nil
}

// ListHeld returns every suspended cart, newest first.
func (s *ActiveSaleStore) ListHeld(ctx context.Context) ([]models.ActiveSale, error) {
	var rows []models.ActiveSale
	err := s.db.WithContext(ctx).
		Where("status = ?", StatusOnHold).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

// PutOnHold suspends a cart. The snapshot is preserved verbatim; only the
// status and notes change.
func (s *ActiveSaleStore) PutOnHold(ctx context.Context, id int64, notes string) error {
	updates := map[string]interface{}{"status": StatusOnHold}
	if notes != "" {
		updates["notes"] = notes
	}

	result := s.db.WithContext(ctx).
		Model(&models.ActiveSale{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("put on hold: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Resume promotes a held cart to current. Any row that is current gets
// demoted first, in the same transaction, so there is never a window with
// two current rows and never an assumption that exactly one exists.
func (s *ActiveSaleStore) Resume(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.ActiveSale
		if err := tx.First(&target, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if err := tx.Model(&models.ActiveSale{}).
			Where("status = ? AND id <> ?", StatusCurrent, id).
			Update("status", StatusOnHold).Error; err != nil {
			return fmt.Errorf("demote current: %w", err)
		}

		if err := tx.Model(&target).Update("status", StatusCurrent).Error; err != nil {
			return fmt.Errorf("promote target: %w", err)
		}
		return nil
	})
}

// Delete removes a cart, after checkout or an explicit clear.
func (s *ActiveSaleStore) Delete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&models.ActiveSale{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete active sale: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
