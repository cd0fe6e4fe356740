package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotValidate(t *testing.T) {
	t.Parallel()

	valid := testSnapshot()
	require.NoError(t, valid.Validate())

	overpriced := testSnapshot()
	overpriced.TotalSellingPrice = decimal.RequireFromString("30")
	assert.Error(t, overpriced.Validate(), "selling above original must be flagged")

	dup := testSnapshot()
	dup.Lines = append(dup.Lines, dup.Lines[0])
	assert.Error(t, dup.Validate(), "duplicate line ids must be flagged")

	outOfRange := testSnapshot()
	outOfRange.Lines[0].Quantity = 100
	assert.Error(t, outOfRange.Validate())

	dirtyEmpty := Snapshot{TotalItemCount: 3}
	assert.Error(t, dirtyEmpty.Validate(), "empty cart must carry zero totals")

	assert.NoError(t, Snapshot{}.Validate())
}

func TestSnapshotHelpers(t *testing.T) {
	t.Parallel()

	snap := testSnapshot()
	line, ok := snap.LineByID(snap.Lines[0].ID)
	require.True(t, ok)
	assert.Equal(t, snap.Lines[0].Name, line.Name)

	_, ok = snap.LineByID(uuid.New())
	assert.False(t, ok)

	assert.False(t, snap.HasCoupon())
	snap.CouponCode = "SAVE10"
	snap.DiscountPercent = decimal.RequireFromString("10")
	assert.True(t, snap.HasCoupon())

	clone := snap.Clone()
	clone.Lines[0].Quantity = 7
	assert.NotEqual(t, clone.Lines[0].Quantity, snap.Lines[0].Quantity,
		"clone must not share line storage")
}
