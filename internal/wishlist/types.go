package wishlist

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// Variant is the SKU-bearing color/size option of a wishlisted product.
// The first variant backs one-click add-to-cart.
type Variant struct {
	ID    uuid.UUID `json:"id"`
	Color string    `json:"color"`
	Size  string    `json:"size"`
	SKU   string    `json:"sku"`
	Stock int       `json:"stock"`
}

// Product is the denormalized display entry for one wishlisted product.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	ImageURL     string          `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Variants     []Variant       `json:"variants"`
}

// FirstVariant returns the variant used for one-click add-to-cart.
func (p Product) FirstVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// Snapshot is the full authoritative wishlist state. Product ids are
// unique; insertion order is display order.
type Snapshot struct {
	Products []Product `json:"products"`
}

// Empty reports whether the wishlist has no products.
func (s Snapshot) Empty() bool {
	return len(s.Products) == 0
}

// Clone returns a deep copy safe to hand to readers.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Products: make([]Product, len(s.Products))}
	for i, p := range s.Products {
		cp := p
		cp.Variants = append([]Variant(nil), p.Variants...)
		out.Products[i] = cp
	}
	return out
}

// Validate enforces product id uniqueness.
func (s Snapshot) Validate() error {
	var errs []error
	seen := make(map[uuid.UUID]struct{}, len(s.Products))
	for _, p := range s.Products {
		if _, dup := seen[p.ID]; dup {
			errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
				"duplicate wishlist product %s", p.ID))
		}
		seen[p.ID] = struct{}{}
	}
	return multierr.Combine(errs...)
}
