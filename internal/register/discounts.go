package register

import (
	"sort"

	"github.com/shopspring/decimal"

	"kassa-system/internal/database/models"
)

// AppliedDiscounts holds at most one discount per class. A percentage and a
// fixed discount may coexist; two of the same class never do.
type AppliedDiscounts struct {
	Percentage *models.Discount
	Fixed      *models.Discount
}

// Apply sets a discount, replacing any previously applied discount of the
// same class. Barcode-scanned discounts go through here too, so a scan
// displaces an auto-activated discount of the same kind.
func (a *AppliedDiscounts) Apply(d models.Discount) {
	switch d.Kind {
	case models.DiscountKindPercentage:
		copied := d
		a.Percentage = &copied
	case models.DiscountKindFixed:
		copied := d
		a.Fixed = &copied
	}
}

// ApplicableAutoDiscounts filters the catalog down to active, auto-activate
// discounts whose minimum cart value is met, ordered by value descending so
// the largest benefit comes first.
func ApplicableAutoDiscounts(catalog []models.Discount, cartTotal decimal.Decimal) []models.Discount {
	var qualifying []models.Discount
	for _, d := range catalog {
		if !d.IsActive || !d.AutoActivate {
			continue
		}
		if d.MinCartValue.GreaterThan(cartTotal) {
			continue
		}
		qualifying = append(qualifying, d)
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].Value.GreaterThan(qualifying[j].Value)
	})
	return qualifying
}

// SelectApplied reduces an ordered qualifying list to one discount per
// class. When several percentage discounts qualify, the highest value wins
// and the rest are discarded; same for fixed discounts.
func SelectApplied(qualifying []models.Discount) AppliedDiscounts {
	var applied AppliedDiscounts
	for _, d := range qualifying {
		switch d.Kind {
		case models.DiscountKindPercentage:
			if applied.Percentage == nil {
				copied := d
				applied.Percentage = &copied
			}
		case models.DiscountKindFixed:
			if applied.Fixed == nil {
				copied := d
				applied.Fixed = &copied
			}
		}
	}
	return applied
}

// ResolveByBarcode looks up an active discount carrying the scanned code.
// An unknown code is an ordinary not-found result, not an error; the
// cashier flow decides whether that is a no-op or a user message.
func ResolveByBarcode(catalog []models.Discount, code string) (models.Discount, bool) {
	if code == "" {
		return models.Discount{}, false
	}
	for _, d := range catalog {
		if !d.IsActive || d.Barcode == nil {
			continue
		}
		if *d.Barcode == code {
			return d, true
		}
	}
	return models.Discount{}, false
}
