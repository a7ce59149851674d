package register

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// cartSnapshotVersion is bumped whenever the persisted cart shape changes.
// Decoding rejects versions it does not understand instead of guessing.
const cartSnapshotVersion = 1

// CartItem is one line of an in-progress cart. UnitPrice starts as the
// product price but is cashier-editable. DiscountOverride, when set, wins
// over any cart-wide percentage discount for this line.
type CartItem struct {
	ProductID        int64            `json:"product_id"`
	Name             string           `json:"name"`
	Quantity         int32            `json:"quantity"`
	UnitPrice        decimal.Decimal  `json:"unit_price"`
	DiscountOverride *decimal.Decimal `json:"discount_override,omitempty"`
}

// Cart is the in-memory working state of the register. It is persisted as
// an opaque versioned snapshot by the active-sale store.
type Cart struct {
	Items        []CartItem `json:"items"`
	Notes        string     `json:"notes"`
	NeedsInvoice bool       `json:"needs_invoice"`
}

type cartSnapshot struct {
	Version int `json:"version"`
	Cart
}

// ValidateItem rejects invalid line edits at the mutation boundary.
// A rejected edit is discarded by the caller; nothing is clamped.
func ValidateItem(item CartItem) error {
	if item.Quantity <= 0 {
		return ErrQuantityInvalid
	}
	if item.UnitPrice.IsNegative() {
		return ErrPriceInvalid
	}
	if item.DiscountOverride != nil {
		if item.DiscountOverride.IsNegative() || item.DiscountOverride.GreaterThan(decimal.NewFromInt(100)) {
			return ErrDiscountPercentInvalid
		}
	}
	return nil
}

// ValidateCart checks every line of a cart before it is persisted.
func ValidateCart(cart Cart) error {
	for i, item := range cart.Items {
		if err := ValidateItem(item); err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
	}
	return nil
}

// EncodeCart serializes a cart for storage in the active_sales snapshot
// column.
func EncodeCart(cart Cart) (string, error) {
	data, err := json.Marshal(cartSnapshot{Version: cartSnapshotVersion, Cart: cart})
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(data), nil
}

// DecodeCart parses and validates a persisted snapshot. Stored data is
// validated on load rather than trusted blindly.
func DecodeCart(data string) (Cart, error) {
	var snap cartSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	if snap.Version != cartSnapshotVersion {
		return Cart{}, fmt.Errorf("%w: unsupported version %d", ErrSnapshotInvalid, snap.Version)
	}
	if err := ValidateCart(snap.Cart); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrSnapshotInvalid, err)
	}
	return snap.Cart, nil
}
