package mockgateway

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixture ids are stable so scripts and tests can reference them.
var (
	FixtureHoodieID        = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10001")
	FixtureHoodieBlackMID  = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10002")
	FixtureHoodieBlackLID  = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10003")
	FixtureTeeID           = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10004")
	FixtureTeeWhiteMID     = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10005")
	FixtureCapID           = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10006")
	FixtureCapOneSizeID    = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10007")
	FixtureLowStockID      = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10008")
	FixtureLowStockOnlyVID = uuid.MustParse("0c6b0a1e-93d4-4ef1-8b79-1a57b9a10009")
)

// Fixture coupon codes.
const (
	CouponSave20    = "SAVE20"    // 20% off, $50 minimum order
	CouponWelcome10 = "WELCOME10" // 10% off, no minimum
	CouponSpent5    = "SPENT5"    // already redeemed
)

func fixtureProducts() []Product {
	return []Product{
		{
			ID:           FixtureHoodieID,
			Name:         "Trail Hoodie",
			ImageURL:     "https://cdn.example.com/products/trail-hoodie.jpg",
			Price:        decimal.RequireFromString("65.00"),
			SellingPrice: decimal.RequireFromString("52.00"),
			Variants: []Variant{
				{ID: FixtureHoodieBlackMID, Color: "black", Size: "M", SKU: "HOOD-BLK-M", Stock: 14},
				{ID: FixtureHoodieBlackLID, Color: "black", Size: "L", SKU: "HOOD-BLK-L", Stock: 9},
			},
		},
		{
			ID:           FixtureTeeID,
			Name:         "Logo Tee",
			ImageURL:     "https://cdn.example.com/products/logo-tee.jpg",
			Price:        decimal.RequireFromString("25.00"),
			SellingPrice: decimal.RequireFromString("20.00"),
			Variants: []Variant{
				{ID: FixtureTeeWhiteMID, Color: "white", Size: "M", SKU: "TEE-WHT-M", Stock: 40},
			},
		},
		{
			ID:           FixtureCapID,
			Name:         "Field Cap",
			ImageURL:     "https://cdn.example.com/products/field-cap.jpg",
			Price:        decimal.RequireFromString("18.00"),
			SellingPrice: decimal.RequireFromString("18.00"),
			Variants: []Variant{
				{ID: FixtureCapOneSizeID, Color: "olive", Size: "OS", SKU: "CAP-OLV-OS", Stock: 25},
			},
		},
		{
			ID:           FixtureLowStockID,
			Name:         "Limited Patch Set",
			ImageURL:     "https://cdn.example.com/products/patch-set.jpg",
			Price:        decimal.RequireFromString("12.00"),
			SellingPrice: decimal.RequireFromString("9.00"),
			Variants: []Variant{
				{ID: FixtureLowStockOnlyVID, Color: "multi", Size: "OS", SKU: "PATCH-SET", Stock: 3},
			},
		},
	}
}

func fixtureCoupons() []Coupon {
	return []Coupon{
		{Code: CouponSave20, Percent: decimal.RequireFromString("20"), MinOrder: decimal.RequireFromString("50.00")},
		{Code: CouponWelcome10, Percent: decimal.RequireFromString("10")},
		{Code: CouponSpent5, Percent: decimal.RequireFromString("5"), Used: true},
	}
}
