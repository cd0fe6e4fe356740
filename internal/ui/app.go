// Package ui is the terminal storefront: a Bubble Tea front end over the
// cart and wishlist stores. The stores own all state and gateway traffic;
// the model only reads snapshots and issues operations as commands.
package ui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/notify"
	"github.com/angelmondragon/packfinderz-storefront/internal/pricing"
	"github.com/angelmondragon/packfinderz-storefront/internal/quantity"
	"github.com/angelmondragon/packfinderz-storefront/internal/wishlist"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
)

// View selects the active screen.
type View int

const (
	ViewCart View = iota
	ViewWishlist
)

const (
	refreshTick  = 400 * time.Millisecond
	maxNotices   = 3
	noticeMaxAge = 4 * time.Second
)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Notices  *notify.Recorder
	Config   config.CartConfig
	Logger   *logger.Logger
}

type notice struct {
	level   notify.Level
	message string
	at      time.Time
}

// Model is the root Bubble Tea state.
type Model struct {
	ctx      context.Context
	cart     *cart.Store
	wishlist *wishlist.Store
	notices  *notify.Recorder
	cfg      config.CartConfig
	logg     *logger.Logger

	theme  Theme
	styles Styles
	view   View
	width  int
	height int
	ready  bool

	cartSnap  cart.Snapshot
	wishSnap  wishlist.Snapshot
	breakdown pricing.Breakdown

	selected     int
	wishSelected int

	editors  map[uuid.UUID]*quantity.Editor
	editing  bool
	qtyInput textinput.Model

	couponMode  bool
	couponInput textinput.Model

	spinner spinner.Model

	recent []notice
}

// New builds the root model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	theme := DefaultTheme()

	qty := textinput.New()
	qty.CharLimit = 3
	qty.Width = 4
	qty.Prompt = ""

	coupon := textinput.New()
	coupon.CharLimit = 24
	coupon.Width = 20
	coupon.Prompt = "coupon> "
	coupon.Placeholder = "CODE"

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		ctx:         ctx,
		cart:        opts.Cart,
		wishlist:    opts.Wishlist,
		notices:     opts.Notices,
		cfg:         opts.Config,
		logg:        opts.Logger,
		theme:       theme,
		styles:      theme.Styles(),
		view:        ViewCart,
		editors:     map[uuid.UUID]*quantity.Editor{},
		qtyInput:    qty,
		couponInput: coupon,
		spinner:     spin,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		m.runOp(func(ctx context.Context) error { return m.cart.Fetch(ctx, true) }),
		m.runOp(func(ctx context.Context) error { return m.wishlist.Fetch(ctx, false) }),
	)
}

// Messages

type tickMsg time.Time

type opDoneMsg struct {
	err error
}

// Commands

func tickCmd() tea.Cmd {
	return tea.Tick(refreshTick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// runOp executes a store operation off the update loop. Errors are already
// recorded through the notifier by the stores; the message only reports
// completion so the model re-reads state.
func (m Model) runOp(fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: fn(ctx)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		m.refreshFromStores()
		return m, tickCmd()

	case opDoneMsg:
		m.refreshFromStores()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// refreshFromStores re-reads both snapshots, reconciles the per-line
// editors with server truth, and drains pending notifications.
func (m *Model) refreshFromStores() {
	m.cartSnap = m.cart.Snapshot()
	m.wishSnap = m.wishlist.Snapshot()
	m.breakdown = m.cart.Pricing()

	live := make(map[uuid.UUID]struct{}, len(m.cartSnap.Lines))
	for _, line := range m.cartSnap.Lines {
		live[line.ID] = struct{}{}
		if ed, ok := m.editors[line.ID]; ok {
			ed.SetAuthoritative(line.Quantity)
		}
	}
	for id := range m.editors {
		if _, ok := live[id]; !ok {
			delete(m.editors, id)
		}
	}

	if m.selected >= len(m.cartSnap.Lines) {
		m.selected = max(0, len(m.cartSnap.Lines)-1)
	}
	if m.wishSelected >= len(m.wishSnap.Products) {
		m.wishSelected = max(0, len(m.wishSnap.Products)-1)
	}

	if m.notices != nil {
		now := time.Now()
		for _, rec := range m.notices.Drain() {
			m.recent = append(m.recent, notice{level: rec.Level, message: rec.Message, at: now})
		}
		cutoff := now.Add(-noticeMaxAge)
		kept := m.recent[:0]
		for _, n := range m.recent {
			if n.at.After(cutoff) {
				kept = append(kept, n)
			}
		}
		m.recent = kept
		if len(m.recent) > maxNotices {
			m.recent = m.recent[len(m.recent)-maxNotices:]
		}
	}
}

// editorFor lazily builds the debounced quantity editor for a line. The
// commit function is the store's update path, so the stepper and the text
// field share one pipeline.
func (m *Model) editorFor(line cart.Line) *quantity.Editor {
	if ed, ok := m.editors[line.ID]; ok {
		return ed
	}
	ed, err := quantity.NewEditor(quantity.EditorParams{
		LineID:        line.ID,
		Authoritative: line.Quantity,
		Max:           m.cfg.QuantityMax,
		Window:        m.cfg.DebounceWindow,
		Commit: func(ctx context.Context, lineID uuid.UUID, qty int) error {
			return m.cart.UpdateQuantity(ctx, lineID, qty)
		},
		Context: m.ctx,
	})
	if err != nil {
		if m.logg != nil {
			m.logg.Error(m.ctx, "build quantity editor", err)
		}
		return nil
	}
	m.editors[line.ID] = ed
	return ed
}

func (m *Model) selectedLine() (cart.Line, bool) {
	if m.selected < 0 || m.selected >= len(m.cartSnap.Lines) {
		return cart.Line{}, false
	}
	return m.cartSnap.Lines[m.selected], true
}

func (m *Model) selectedProduct() (wishlist.Product, bool) {
	if m.wishSelected < 0 || m.wishSelected >= len(m.wishSnap.Products) {
		return wishlist.Product{}, false
	}
	return m.wishSnap.Products[m.wishSelected], true
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleQtyEditKey(msg)
	}
	if m.couponMode {
		return m.handleCouponKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		if m.view == ViewCart {
			m.view = ViewWishlist
			return m, m.runOp(func(ctx context.Context) error { return m.wishlist.Fetch(ctx, false) })
		}
		m.view = ViewCart
		return m, nil

	case "r":
		return m, tea.Batch(
			m.runOp(func(ctx context.Context) error { return m.cart.Fetch(ctx, false) }),
			m.runOp(func(ctx context.Context) error { return m.wishlist.Fetch(ctx, false) }),
		)
	}

	if m.view == ViewCart {
		return m.handleCartKey(msg)
	}
	return m.handleWishlistKey(msg)
}

func (m Model) handleCartKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.selected < len(m.cartSnap.Lines)-1 {
			m.selected++
		}
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}

	case "+", "=":
		if line, ok := m.selectedLine(); ok {
			if ed := m.editorFor(line); ed != nil {
				return m, m.runOp(func(ctx context.Context) error { return ed.Step(ctx, 1) })
			}
		}
	case "-", "_":
		if line, ok := m.selectedLine(); ok {
			if ed := m.editorFor(line); ed != nil {
				return m, m.runOp(func(ctx context.Context) error { return ed.Step(ctx, -1) })
			}
		}

	case "e", "enter":
		if line, ok := m.selectedLine(); ok {
			if ed := m.editorFor(line); ed != nil {
				m.editing = true
				ed.Focus()
				m.qtyInput.SetValue(ed.Display())
				m.qtyInput.CursorEnd()
				m.qtyInput.Focus()
				return m, textinput.Blink
			}
		}

	case "d", "x":
		if line, ok := m.selectedLine(); ok {
			id := line.ID
			return m, m.runOp(func(ctx context.Context) error { return m.cart.RemoveItem(ctx, id) })
		}

	case "c":
		m.couponMode = true
		m.couponInput.SetValue("")
		m.couponInput.Focus()
		return m, textinput.Blink

	case "w":
		if line, ok := m.selectedLine(); ok {
			productID := line.ProductID
			if m.wishlist.Contains(productID) {
				return m, m.runOp(func(ctx context.Context) error { return m.wishlist.RemoveProduct(ctx, productID) })
			}
			return m, m.runOp(func(ctx context.Context) error { return m.wishlist.AddProduct(ctx, productID) })
		}
	}

	return m, nil
}

// handleQtyEditKey routes keystrokes into the textinput and mirrors every
// change into the debounced editor.
func (m Model) handleQtyEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	line, ok := m.selectedLine()
	if !ok {
		m.editing = false
		m.qtyInput.Blur()
		return m, nil
	}
	ed := m.editorFor(line)
	if ed == nil {
		m.editing = false
		m.qtyInput.Blur()
		return m, nil
	}

	switch msg.String() {
	case "enter":
		m.editing = false
		m.qtyInput.Blur()
		return m, m.runOp(func(ctx context.Context) error { return ed.Blur(ctx) })

	case "esc":
		// Restore server truth instead of committing the edit.
		ed.Input(strconv.Itoa(line.Quantity))
		m.editing = false
		m.qtyInput.Blur()
		return m, m.runOp(func(ctx context.Context) error { return ed.Blur(ctx) })

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.qtyInput, cmd = m.qtyInput.Update(msg)
	ed.Input(m.qtyInput.Value())
	return m, cmd
}

func (m Model) handleCouponKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		code := m.couponInput.Value()
		m.couponMode = false
		m.couponInput.Blur()
		if code == "" {
			return m, nil
		}
		return m, m.runOp(func(ctx context.Context) error { return m.cart.ApplyCoupon(ctx, code) })

	case "esc":
		m.couponMode = false
		m.couponInput.Blur()
		return m, nil

	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.couponInput, cmd = m.couponInput.Update(msg)
	return m, cmd
}

func (m Model) handleWishlistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.wishSelected < len(m.wishSnap.Products)-1 {
			m.wishSelected++
		}
	case "k", "up":
		if m.wishSelected > 0 {
			m.wishSelected--
		}

	case "a", "enter":
		if product, ok := m.selectedProduct(); ok {
			if variant, ok := product.FirstVariant(); ok {
				variantID := variant.ID
				return m, m.runOp(func(ctx context.Context) error {
					_, err := m.cart.AddItem(ctx, variantID, 1)
					return err
				})
			}
		}

	case "d", "x", "w":
		if product, ok := m.selectedProduct(); ok {
			productID := product.ID
			return m, m.runOp(func(ctx context.Context) error { return m.wishlist.RemoveProduct(ctx, productID) })
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	switch m.view {
	case ViewWishlist:
		return m.renderWishlist()
	default:
		return m.renderCart()
	}
}

// Run starts the program and blocks until quit or context cancellation.
func Run(ctx context.Context, opts Options) error {
	if opts.Cart == nil || opts.Wishlist == nil {
		return pkgerrors.New(pkgerrors.CodePrecondition, "ui requires cart and wishlist stores")
	}
	if opts.Context == nil {
		opts.Context = ctx
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
