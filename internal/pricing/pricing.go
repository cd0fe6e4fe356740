// Package pricing derives the displayed price breakdown from the two
// aggregates the gateway returns for a cart: the original total and the
// current selling total. The backend never exposes a discount amount
// directly; the coupon portion is recovered by dividing the coupon
// percentage back out of the selling total.
package pricing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

// displayEpsilon gates discount rows in the UI. Floating point noise below
// one cent is not worth a row, but the underlying totals are never rounded
// by this gate.
var displayEpsilon = decimal.NewFromFloat(0.01)

var hundred = decimal.NewFromInt(100)

// Breakdown is the derived pricing view for one cart snapshot. It is
// recomputed from the snapshot on every read and never persisted.
type Breakdown struct {
	// Original is the sum of line items at pre-discount unit prices.
	Original decimal.Decimal
	// PreCouponSelling is the selling total before the coupon percentage
	// was applied.
	PreCouponSelling decimal.Decimal
	// SaleDiscount is the reduction baked into per-item sale pricing,
	// independent of any coupon.
	SaleDiscount decimal.Decimal
	// CouponDiscount is the cart-wide reduction attributable to the coupon.
	CouponDiscount decimal.Decimal
	// Selling is the post-sale, post-coupon total the customer pays for
	// items.
	Selling decimal.Decimal
	// Shipping is the configured shipping fee.
	Shipping decimal.Decimal
	// GrandTotal is Selling plus Shipping.
	GrandTotal decimal.Decimal
}

// Derive computes the breakdown for a snapshot's aggregates.
//
// discountPercent at or above 100 is treated as "no coupon division": the
// guard keeps a malformed percentage from dividing by zero or inflating the
// pre-coupon total, and the selling total is taken as-is.
func Derive(totalPrice, totalSellingPrice, discountPercent, shippingFee decimal.Decimal) Breakdown {
	preCoupon := totalSellingPrice
	if discountPercent.IsPositive() && discountPercent.LessThan(hundred) {
		factor := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))
		preCoupon = totalSellingPrice.Div(factor)
	}

	return Breakdown{
		Original:         totalPrice,
		PreCouponSelling: preCoupon,
		SaleDiscount:     totalPrice.Sub(preCoupon),
		CouponDiscount:   preCoupon.Sub(totalSellingPrice),
		Selling:          totalSellingPrice,
		Shipping:         shippingFee,
		GrandTotal:       totalSellingPrice.Add(shippingFee),
	}
}

// ShowSaleDiscount reports whether the sale discount row is worth showing.
func (b Breakdown) ShowSaleDiscount() bool {
	return b.SaleDiscount.GreaterThan(displayEpsilon)
}

// ShowCouponDiscount reports whether the coupon discount row is worth
// showing.
func (b Breakdown) ShowCouponDiscount() bool {
	return b.CouponDiscount.GreaterThan(displayEpsilon)
}

// Validate flags breakdowns that can only come from a backend pricing bug.
// Violations are reported, never clamped, so the pricing problem stays
// visible instead of being absorbed into the display.
func (b Breakdown) Validate() error {
	var errs []error
	if b.SaleDiscount.IsNegative() {
		errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
			"sale discount is negative: selling total %s exceeds original total %s",
			b.PreCouponSelling, b.Original))
	}
	if b.CouponDiscount.IsNegative() {
		errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
			"coupon discount is negative: pre-coupon total %s below selling total %s",
			b.PreCouponSelling, b.Selling))
	}
	if b.Selling.GreaterThan(b.Original) {
		errs = append(errs, pkgerrors.Newf(pkgerrors.CodeGateway,
			"selling total %s exceeds original total %s", b.Selling, b.Original))
	}
	return multierr.Combine(errs...)
}
