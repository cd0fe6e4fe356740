package ui

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "$20.00", money(decimal.RequireFromString("20"), "USD"))
	assert.Equal(t, "$83.20", money(decimal.RequireFromString("83.2"), ""))
	assert.Equal(t, "19.99 EUR", money(decimal.RequireFromString("19.99"), "eur"))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Trail Hoodie", truncate("Trail Hoodie", 20))
	assert.Equal(t, "Trail Hoo…", truncate("Trail Hoodie", 10))
	assert.Equal(t, "", truncate("", 5))
}
