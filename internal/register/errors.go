package register

import "errors"

var (
	// ErrNotFound is returned when an active sale id does not exist.
	ErrNotFound = errors.New("active sale not found")

	// ErrNoCurrentSale is returned when an operation needs the current
	// cart and no row carries status 'current'.
	ErrNoCurrentSale = errors.New("no current sale")

	// ErrEmptyCart rejects checkout of a cart with no lines.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrCommitFailed is the single outcome of a failed checkout
	// transaction. No partial rows exist when it is returned and the
	// originating cart is left intact for retry.
	ErrCommitFailed = errors.New("checkout commit failed")

	// Validation errors reject an edit at the mutation boundary. The edit
	// is discarded, never clamped.
	ErrQuantityInvalid        = errors.New("quantity must be a positive integer")
	ErrPriceInvalid           = errors.New("unit price must not be negative")
	ErrDiscountPercentInvalid = errors.New("discount percentage must be between 0 and 100")

	// ErrSnapshotInvalid is returned when a persisted cart snapshot fails
	// validation on load.
	ErrSnapshotInvalid = errors.New("invalid cart snapshot")

	// ErrDiscountNotFound is returned when a checkout names a discount
	// barcode that resolves to nothing.
	ErrDiscountNotFound = errors.New("discount barcode not recognized")
)
