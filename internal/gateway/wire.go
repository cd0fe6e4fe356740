package gateway

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/wishlist"
)

// cartWire is the cart payload as the backend sends it. discountPercent
// and couponCode are null when no coupon is applied; they normalize to the
// zero decimal and empty string.
type cartWire struct {
	TotalPrice        decimal.Decimal  `json:"totalPrice"`
	TotalSellingPrice decimal.Decimal  `json:"totalSellingPrice"`
	DiscountPercent   *decimal.Decimal `json:"discountPercent"`
	CouponCode        *string          `json:"couponCode"`
	TotalItemCount    int              `json:"totalItemCount"`
	Lines             []cart.Line      `json:"lines"`
}

func (w cartWire) toSnapshot() *cart.Snapshot {
	snap := &cart.Snapshot{
		TotalPrice:        w.TotalPrice,
		TotalSellingPrice: w.TotalSellingPrice,
		TotalItemCount:    w.TotalItemCount,
		Lines:             w.Lines,
	}
	if w.DiscountPercent != nil {
		snap.DiscountPercent = *w.DiscountPercent
	}
	if w.CouponCode != nil {
		snap.CouponCode = *w.CouponCode
	}
	return snap
}

type wishlistWire struct {
	Products []wishlist.Product `json:"products"`
}

func (w wishlistWire) toSnapshot() *wishlist.Snapshot {
	return &wishlist.Snapshot{Products: w.Products}
}

type addItemRequest struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type applyCouponRequest struct {
	CouponCode string `json:"couponCode"`
}
