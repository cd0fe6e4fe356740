package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// MaxLineQuantity is the hard ceiling for any cart line.
const MaxLineQuantity = 99

// Line is one product+variant+quantity entry within a cart.
type Line struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"productId"`
	VariantID        uuid.UUID       `json:"variantId"`
	Name             string          `json:"name"`
	ImageURL         string          `json:"imageUrl"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	UnitSellingPrice decimal.Decimal `json:"unitSellingPrice"`
	Quantity         int             `json:"quantity"`
}

// Snapshot is the full authoritative cart state as last confirmed by the
// gateway. It is replaced wholesale, never merged.
type Snapshot struct {
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	TotalSellingPrice decimal.Decimal `json:"totalSellingPrice"`
	DiscountPercent   decimal.Decimal `json:"discountPercent"`
	CouponCode        string          `json:"couponCode"`
	TotalItemCount    int             `json:"totalItemCount"`
	Lines             []Line          `json:"lines"`
}

// LineUpdate is the partial body the quantity endpoint returns. It never
// replaces the snapshot; it only confirms the mutation before a re-fetch.
type LineUpdate struct {
	ID       uuid.UUID `json:"id"`
	Quantity int       `json:"quantity"`
}

// HasCoupon reports whether a coupon is applied to the cart.
func (s Snapshot) HasCoupon() bool {
	return s.CouponCode != "" && s.DiscountPercent.IsPositive()
}

// Empty reports whether the cart has no lines.
func (s Snapshot) Empty() bool {
	return len(s.Lines) == 0
}

// LineByID returns the line with the given id, if present.
func (s Snapshot) LineByID(id uuid.UUID) (Line, bool) {
	for _, line := range s.Lines {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}

// Clone returns a deep copy safe to hand to readers.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Lines = append([]Line(nil), s.Lines...)
	return out
}

// Validate enforces the snapshot invariants. A violation means the gateway
// returned an inconsistent cart; it is flagged, never repaired locally.
func (s Snapshot) Validate() error {
	var errs []error

	if s.TotalSellingPrice.GreaterThan(s.TotalPrice) {
		errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
			"selling total %s exceeds original total %s", s.TotalSellingPrice, s.TotalPrice))
	}

	if s.Empty() {
		if s.TotalItemCount != 0 || !s.TotalPrice.IsZero() || !s.TotalSellingPrice.IsZero() {
			errs = append(errs, pkgerrors.New(pkgerrors.CodeGateway,
				"empty cart carries non-zero totals"))
		}
	}

	seen := make(map[uuid.UUID]struct{}, len(s.Lines))
	for _, line := range s.Lines {
		if _, dup := seen[line.ID]; dup {
			errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
				"duplicate line id %s", line.ID))
		}
		seen[line.ID] = struct{}{}
		if line.Quantity < 1 || line.Quantity > MaxLineQuantity {
			errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
				"line %s quantity %d outside [1,%d]", line.ID, line.Quantity, MaxLineQuantity))
		}
	}

	return multierr.Combine(errs...)
}
