package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestDeriveNoCoupon(t *testing.T) {
	t.Parallel()

	b := Derive(dec("25"), dec("20"), decimal.Zero, decimal.Zero)

	assert.True(t, b.PreCouponSelling.Equal(dec("20")))
	assert.True(t, b.CouponDiscount.IsZero())
	assert.True(t, b.SaleDiscount.Equal(dec("5")))
	assert.True(t, b.GrandTotal.Equal(dec("20")))
}

func TestDeriveFiftyPercentCoupon(t *testing.T) {
	t.Parallel()

	b := Derive(dec("100"), dec("40"), dec("50"), decimal.Zero)

	assert.True(t, b.PreCouponSelling.Equal(dec("80")), "pre-coupon %s", b.PreCouponSelling)
	assert.True(t, b.CouponDiscount.Equal(dec("40")), "coupon %s", b.CouponDiscount)
	assert.True(t, b.SaleDiscount.Equal(dec("20")), "sale %s", b.SaleDiscount)
}

func TestDeriveHundredPercentGuard(t *testing.T) {
	t.Parallel()

	b := Derive(dec("100"), dec("60"), dec("100"), decimal.Zero)

	assert.True(t, b.PreCouponSelling.Equal(dec("60")))
	assert.True(t, b.CouponDiscount.IsZero())
}

func TestDeriveShippingFeedsGrandTotal(t *testing.T) {
	t.Parallel()

	b := Derive(dec("50"), dec("45"), decimal.Zero, dec("4.99"))
	assert.True(t, b.GrandTotal.Equal(dec("49.99")))
}

func TestDeriveNonNegativeDiscounts(t *testing.T) {
	t.Parallel()

	cases := []struct {
		total   string
		selling string
		percent string
	}{
		{"0", "0", "0"},
		{"10", "10", "0"},
		{"25", "20", "0"},
		{"100", "40", "50"},
		{"100", "90", "10"},
		{"999.99", "333.33", "66.6"},
		{"80", "72", "10"},
	}

	for _, tc := range cases {
		b := Derive(dec(tc.total), dec(tc.selling), dec(tc.percent), decimal.Zero)
		require.False(t, b.SaleDiscount.IsNegative(),
			"sale discount negative for %+v: %s", tc, b.SaleDiscount)
		require.False(t, b.CouponDiscount.IsNegative(),
			"coupon discount negative for %+v: %s", tc, b.CouponDiscount)
		require.NoError(t, b.Validate())
	}
}

func TestDisplayGating(t *testing.T) {
	t.Parallel()

	noisy := Derive(dec("20.005"), dec("20"), decimal.Zero, decimal.Zero)
	assert.False(t, noisy.ShowSaleDiscount(), "sub-cent noise must not render a row")
	// The gate is display-only: the total keeps its noise.
	assert.True(t, noisy.SaleDiscount.Equal(dec("0.005")))

	visible := Derive(dec("20.02"), dec("20"), decimal.Zero, decimal.Zero)
	assert.True(t, visible.ShowSaleDiscount())
}

func TestValidateFlagsBackendBugs(t *testing.T) {
	t.Parallel()

	// Selling above original can only be a backend pricing bug.
	b := Derive(dec("10"), dec("15"), decimal.Zero, decimal.Zero)
	err := b.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds original total")

	// The breakdown itself is untouched: nothing got clamped.
	assert.True(t, b.SaleDiscount.Equal(dec("-5")))
}
