package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/notify"
	"github.com/angelmondragon/packfinderz-storefront/internal/pricing"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

// Gateway is the remote cart contract the store consumes. Get returns
// (nil, nil) when the server reports an empty cart; RemoveItem returns a
// nil snapshot when the server responded without a body, in which case the
// store re-fetches.
type Gateway interface {
	Get(ctx context.Context) (*Snapshot, error)
	AddItem(ctx context.Context, variantID uuid.UUID, quantity int) (*Snapshot, error)
	UpdateItemQuantity(ctx context.Context, lineID uuid.UUID, quantity int) (LineUpdate, error)
	RemoveItem(ctx context.Context, lineID uuid.UUID) (*Snapshot, error)
	ApplyCoupon(ctx context.Context, code string) (*Snapshot, error)
}

// Authenticator is the slice of the session the store needs.
type Authenticator interface {
	Authenticated() bool
	RequestLogin()
}

// StoreParams groups dependencies for the cart store.
type StoreParams struct {
	Gateway     Gateway
	Session     Authenticator
	Notifier    notify.Notifier
	Logger      *logger.Logger
	Metrics     *metrics.GatewayMetrics
	ShippingFee decimal.Decimal
}

// Store is the single source of truth for the authenticated user's cart.
// All gateway traffic for the cart flows through it; readers get copies of
// the last applied snapshot.
type Store struct {
	gateway     Gateway
	session     Authenticator
	notifier    notify.Notifier
	logg        *logger.Logger
	metrics     *metrics.GatewayMetrics
	shippingFee decimal.Decimal

	mu          sync.Mutex
	snapshot    Snapshot
	loading     bool
	busyLines   map[uuid.UUID]struct{}
	nextSeq     uint64
	appliedSeq  uint64
	subscribers []func(Snapshot)
}

// NewStore builds a cart store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "cart gateway is required")
	}
	if params.Session == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "session is required")
	}
	if params.Notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "notifier is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "logger is required")
	}
	return &Store{
		gateway:     params.Gateway,
		session:     params.Session,
		notifier:    params.Notifier,
		logg:        params.Logger,
		metrics:     params.Metrics,
		shippingFee: params.ShippingFee,
		busyLines:   map[uuid.UUID]struct{}{},
	}, nil
}

// Snapshot returns a copy of the last applied cart state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// IsLoading reports whether a cart-wide blocking operation is in flight.
// The flag is global on purpose: add-to-cart affordances are disabled
// cart-wide while it is set, and per-item exclusivity comes from LineBusy.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LineBusy reports whether a mutation for the given line is in flight.
func (s *Store) LineBusy(lineID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.busyLines[lineID]
	return busy
}

// Subscribe registers fn to run after every applied snapshot replacement.
func (s *Store) Subscribe(fn func(Snapshot)) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Pricing derives the price breakdown from the current snapshot. It is
// recomputed on every call; nothing is cached across snapshots.
func (s *Store) Pricing() pricing.Breakdown {
	snap := s.Snapshot()
	return pricing.Derive(snap.TotalPrice, snap.TotalSellingPrice, snap.DiscountPercent, s.shippingFee)
}

// Fetch replaces the snapshot with the gateway's current cart. An empty
// cart installs the zero snapshot. On failure the prior snapshot is left
// untouched and a notification is raised; the returned error exists only so
// initial-load callers can render a hard error state, every other caller
// may ignore it.
func (s *Store) Fetch(ctx context.Context, blocking bool) error {
	ctx = s.logg.WithOperation(ctx, "cart.fetch")
	if blocking {
		s.setLoading(true)
		defer s.setLoading(false)
	}

	seq := s.beginSeq()
	snap, err := s.gateway.Get(ctx)
	if err != nil {
		s.logg.Error(ctx, "cart fetch failed", err)
		s.notifier.Notify(ctx, notify.LevelError, pkgerrors.UserMessage(err))
		return err
	}

	if snap == nil {
		snap = &Snapshot{}
	}
	s.apply(ctx, seq, *snap)
	return nil
}

// AddItem adds quantity units of the variant to the cart. Unauthenticated
// callers are rejected before any network traffic and routed to login. On
// success the fresh snapshot is returned for callers that need the
// just-added line; on failure the snapshot is nil.
func (s *Store) AddItem(ctx context.Context, variantID uuid.UUID, quantity int) (*Snapshot, error) {
	ctx = s.logg.WithOperation(ctx, "cart.add")

	if !s.session.Authenticated() {
		s.session.RequestLogin()
		return nil, pkgerrors.New(pkgerrors.CodeUnauthenticated, "sign in to add items to your cart")
	}
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "variant id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "quantity must be positive")
	}

	s.setLoading(true)
	defer s.setLoading(false)

	seq := s.beginSeq()
	snap, err := s.gateway.AddItem(ctx, variantID, quantity)
	if err != nil {
		s.logg.Error(ctx, "add to cart failed", err)
		s.notifier.Notify(ctx, notify.LevelError, pkgerrors.UserMessage(err))
		return nil, err
	}
	if snap == nil {
		// The add endpoint always returns a cart; treat silence like a
		// partial response and reconcile from the source of truth.
		return nil, s.refetch(ctx, "cart add returned no snapshot")
	}

	applied := s.apply(ctx, seq, *snap)
	s.notifier.Notify(ctx, notify.LevelSuccess, "added to cart")
	return &applied, nil
}

// UpdateQuantity sets the line's quantity and then re-fetches the full
// cart: the quantity endpoint returns only the updated line, and partial
// responses are never hand-patched into the snapshot. The error is
// re-thrown after notifying so callers can revert optimistic UI.
func (s *Store) UpdateQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	ctx = s.logg.WithOperation(ctx, "cart.update_quantity")
	ctx = s.logg.WithLineID(ctx, lineID.String())

	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodePrecondition, "line id is required")
	}
	if quantity < 1 || quantity > MaxLineQuantity {
		return pkgerrors.Newf(pkgerrors.CodePrecondition, "quantity %d outside [1,%d]", quantity, MaxLineQuantity)
	}

	release, err := s.acquireLine(lineID)
	if err != nil {
		return err
	}
	defer release()

	update, err := s.gateway.UpdateItemQuantity(ctx, lineID, quantity)
	if err != nil {
		s.logg.Error(ctx, "quantity update failed", err)
		s.notifier.Notify(ctx, notify.LevelError, pkgerrors.UserMessage(err))
		return err
	}
	if update.Quantity != quantity {
		s.logg.Warn(ctx, "gateway confirmed a different quantity than requested")
	}

	return s.refetch(ctx, "reconcile after quantity update")
}

// RemoveItem deletes the line. When the gateway returns the new cart it is
// applied directly; a bodyless response triggers a re-fetch instead of a
// local patch.
func (s *Store) RemoveItem(ctx context.Context, lineID uuid.UUID) error {
	ctx = s.logg.WithOperation(ctx, "cart.remove")
	ctx = s.logg.WithLineID(ctx, lineID.String())

	if lineID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodePrecondition, "line id is required")
	}

	release, err := s.acquireLine(lineID)
	if err != nil {
		return err
	}
	defer release()

	seq := s.beginSeq()
	snap, err := s.gateway.RemoveItem(ctx, lineID)
	if err != nil {
		s.logg.Error(ctx, "remove item failed", err)
		s.notifier.Notify(ctx, notify.LevelError, pkgerrors.UserMessage(err))
		return err
	}

	if snap == nil {
		return s.refetch(ctx, "reconcile after bodyless remove")
	}
	s.apply(ctx, seq, *snap)
	return nil
}

// ApplyCoupon applies the code to the cart. Trimming and rejecting empty
// input is the call site's responsibility; the store forwards the code
// verbatim. On failure the classified error is re-thrown so the caller can
// render the specific coupon message inline.
func (s *Store) ApplyCoupon(ctx context.Context, code string) error {
	ctx = s.logg.WithOperation(ctx, "cart.apply_coupon")

	seq := s.beginSeq()
	snap, err := s.gateway.ApplyCoupon(ctx, code)
	if err != nil {
		s.logg.Error(ctx, "apply coupon failed", err)
		s.notifier.Notify(ctx, notify.LevelError, pkgerrors.UserMessage(err))
		return err
	}
	if snap == nil {
		return s.refetch(ctx, "coupon apply returned no snapshot")
	}

	s.apply(ctx, seq, *snap)
	s.notifier.Notify(ctx, notify.LevelSuccess, "coupon applied")
	return nil
}

// Clear drops the snapshot on logout.
func (s *Store) Clear(ctx context.Context) {
	seq := s.beginSeq()
	s.apply(ctx, seq, Snapshot{})
}

func (s *Store) refetch(ctx context.Context, reason string) error {
	s.logg.Debug(ctx, reason)
	seq := s.beginSeq()
	snap, err := s.gateway.Get(ctx)
	if err != nil {
		s.logg.Error(ctx, "reconciling fetch failed", err)
		s.notifier.Notify(ctx, notify.LevelError, pkgerrors.UserMessage(err))
		return err
	}
	if snap == nil {
		snap = &Snapshot{}
	}
	s.apply(ctx, seq, *snap)
	return nil
}

// beginSeq stamps a gateway round trip. Responses are applied in stamp
// order; anything older than the last applied stamp is discarded, which
// closes the stale-response window between overlapping mutations.
func (s *Store) beginSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

func (s *Store) apply(ctx context.Context, seq uint64, snap Snapshot) Snapshot {
	s.mu.Lock()
	if seq < s.appliedSeq {
		s.mu.Unlock()
		s.metrics.IncStaleDiscarded()
		s.logg.Warn(ctx, "discarded stale cart snapshot")
		return s.Snapshot()
	}
	s.appliedSeq = seq
	s.snapshot = snap.Clone()
	subscribers := make([]func(Snapshot), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	if err := snap.Validate(); err != nil {
		s.logg.Error(ctx, "gateway returned an inconsistent cart", err)
	}

	for _, fn := range subscribers {
		fn(snap.Clone())
	}
	return snap.Clone()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Store) acquireLine(lineID uuid.UUID) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.busyLines[lineID]; busy {
		return nil, pkgerrors.Newf(pkgerrors.CodeLineBusy, "line %s has a mutation in flight", lineID)
	}
	s.busyLines[lineID] = struct{}{}
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.busyLines, lineID)
	}, nil
}
