package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Discount kinds. Only one discount of each kind may be active on a cart.
const (
	DiscountKindPercentage = "percentage"
	DiscountKindFixed      = "fixed"
)

// Sale document types.
const (
	SaleTypeSale   = "sale"
	SaleTypeReturn = "return"
)

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string `gorm:"uniqueIndex;not null" json:"username"`
	Password  string `gorm:"not null" json:"-"`
	Role      string `gorm:"type:varchar(32);not null;default:'cashier'" json:"role"`
	IsActive  bool   `gorm:"not null;default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductCode string          `gorm:"type:varchar(32);uniqueIndex;not null" json:"product_code"`
	Name        string          `gorm:"type:varchar(128);not null" json:"name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Barcode     *string         `gorm:"type:varchar(64);uniqueIndex" json:"barcode,omitempty"`
	Archived    bool            `gorm:"not null;default:false" json:"archived"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Discount struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"type:varchar(64);not null" json:"name"`
	Kind           string          `gorm:"type:varchar(16);not null" json:"kind"`
	Value          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	AutoActivate   bool            `gorm:"not null;default:false" json:"auto_activate"`
	MinCartValue   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"min_cart_value"`
	IsActive       bool            `gorm:"not null;default:true" json:"is_active"`
	Barcode        *string         `gorm:"type:varchar(64);index" json:"barcode,omitempty"`
	ShowOnRegister bool            `gorm:"not null;default:false" json:"show_on_register"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ActiveSale is an in-progress cart that survives restarts. The cart itself
// is persisted as a versioned JSON snapshot in CartData; schema evolution of
// the cart never needs a column migration.
type ActiveSale struct {
	ID        int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Status    string  `gorm:"type:varchar(16);not null;index" json:"status"`
	CartData  string  `gorm:"type:text;not null" json:"cart_data"`
	Notes     *string `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sale is immutable once created. A Sale and its SaleItems are written in a
// single transaction and never partially exist.
type Sale struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	DocumentNumber string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"document_number"`
	SaleType       string          `gorm:"type:varchar(16);not null;default:'sale'" json:"sale_type"`
	OriginalSaleID *int64          `gorm:"index" json:"original_sale_id,omitempty"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	PaymentMethod  string          `gorm:"type:varchar(32);not null" json:"payment_method"`
	NeedsInvoice   bool            `gorm:"not null;default:false" json:"needs_invoice"`
	Notes          *string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`

	Items []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
}

type SaleItem struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID             int64           `gorm:"index;not null" json:"sale_id"`
	ProductID          int64           `gorm:"not null" json:"product_id"`
	Quantity           int32           `gorm:"not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	DiscountPercentage decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percentage"`
	Subtotal           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Total              decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CreatedAt          time.Time       `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
