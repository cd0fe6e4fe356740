package ui

import (
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/notify"
	"github.com/angelmondragon/packfinderz-storefront/internal/session"
	"github.com/angelmondragon/packfinderz-storefront/internal/wishlist"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

type fixedCartGateway struct {
	snapshot *cart.Snapshot
}

func (g fixedCartGateway) Get(context.Context) (*cart.Snapshot, error) {
	if g.snapshot == nil {
		return nil, nil
	}
	clone := g.snapshot.Clone()
	return &clone, nil
}

func (g fixedCartGateway) AddItem(context.Context, uuid.UUID, int) (*cart.Snapshot, error) {
	return g.Get(context.Background())
}

func (g fixedCartGateway) UpdateItemQuantity(_ context.Context, lineID uuid.UUID, qty int) (cart.LineUpdate, error) {
	return cart.LineUpdate{ID: lineID, Quantity: qty}, nil
}

func (g fixedCartGateway) RemoveItem(context.Context, uuid.UUID) (*cart.Snapshot, error) {
	return nil, nil
}

func (g fixedCartGateway) ApplyCoupon(context.Context, string) (*cart.Snapshot, error) {
	return g.Get(context.Background())
}

type fixedWishlistGateway struct{}

func (fixedWishlistGateway) Get(context.Context) (*wishlist.Snapshot, error) { return nil, nil }
func (fixedWishlistGateway) AddProduct(context.Context, uuid.UUID) (*wishlist.Snapshot, error) {
	return nil, nil
}
func (fixedWishlistGateway) RemoveProduct(context.Context, uuid.UUID) (*wishlist.Snapshot, error) {
	return nil, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()

	lineID := uuid.New()
	snap := &cart.Snapshot{
		TotalPrice:        decimal.RequireFromString("25.00"),
		TotalSellingPrice: decimal.RequireFromString("20.00"),
		TotalItemCount:    2,
		Lines: []cart.Line{{
			ID:               lineID,
			ProductID:        uuid.New(),
			VariantID:        uuid.New(),
			Name:             "Trail Hoodie",
			UnitPrice:        decimal.RequireFromString("12.50"),
			UnitSellingPrice: decimal.RequireFromString("10.00"),
			Quantity:         2,
		}},
	}

	logg := logger.New(logger.Options{ServiceName: "ui-test", Output: io.Discard})
	sess := session.New(nil)
	sess.SetToken("token")
	recorder := &notify.Recorder{}

	cartStore, err := cart.NewStore(cart.StoreParams{
		Gateway:  fixedCartGateway{snapshot: snap},
		Session:  sess,
		Notifier: recorder,
		Logger:   logg,
	})
	require.NoError(t, err)
	require.NoError(t, cartStore.Fetch(context.Background(), true))

	wishStore, err := wishlist.NewStore(wishlist.StoreParams{
		Gateway:  fixedWishlistGateway{},
		Session:  sess,
		Notifier: recorder,
		Logger:   logg,
	})
	require.NoError(t, err)

	model := New(Options{
		Context:  context.Background(),
		Cart:     cartStore,
		Wishlist: wishStore,
		Notices:  recorder,
		Config: config.CartConfig{
			DebounceWindow: 700 * time.Millisecond,
			QuantityMax:    99,
			Currency:       "USD",
		},
		Logger: logg,
	})

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	model = updated.(Model)
	updated, _ = model.Update(tickMsg(time.Now()))
	return updated.(Model)
}

func TestCartViewShowsLinesAndTotals(t *testing.T) {
	t.Parallel()

	model := newTestModel(t)
	view := model.View()

	assert.Contains(t, view, "Trail Hoodie")
	assert.Contains(t, view, "$20.00", "subtotal equals the selling total without a coupon")
	assert.Contains(t, view, "(2 items)")
	assert.NotContains(t, view, "coupon -", "no coupon discount row without a coupon")
}

func TestTabSwitchesToWishlist(t *testing.T) {
	t.Parallel()

	model := newTestModel(t)
	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyTab})
	model = updated.(Model)
	updated, _ = model.Update(tickMsg(time.Now()))
	model = updated.(Model)

	assert.Contains(t, model.View(), "your wishlist is empty")
}

func TestQuantityEditModeMirrorsInput(t *testing.T) {
	t.Parallel()

	model := newTestModel(t)

	updated, _ := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	model = updated.(Model)
	require.True(t, model.editing)

	view := model.View()
	assert.Contains(t, view, "enter commit")
}
