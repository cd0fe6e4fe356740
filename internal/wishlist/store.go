package wishlist

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-storefront/internal/notify"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

// Gateway is the remote wishlist contract the store consumes. Get returns
// (nil, nil) for the empty case. RemoveProduct may return a nil snapshot;
// removal is the one mutation allowed to patch locally instead of
// re-fetching, by filtering out the removed product id.
type Gateway interface {
	Get(ctx context.Context) (*Snapshot, error)
	AddProduct(ctx context.Context, productID uuid.UUID) (*Snapshot, error)
	RemoveProduct(ctx context.Context, productID uuid.UUID) (*Snapshot, error)
}

// Authenticator is the slice of the session the store needs. Unlike the
// cart, an unauthenticated wishlist add raises a notification only and
// never redirects.
type Authenticator interface {
	Authenticated() bool
}

// StoreParams groups dependencies for the wishlist store.
type StoreParams struct {
	Gateway  Gateway
	Session  Authenticator
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.GatewayMetrics
}

// Store is the single source of truth for the user's wishlist. Membership
// lookups run against a derived id set that is rebuilt only when the
// snapshot is replaced.
type Store struct {
	gateway  Gateway
	session  Authenticator
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.GatewayMetrics

	mu         sync.Mutex
	snapshot   Snapshot
	membership map[uuid.UUID]struct{}
	loading    bool
	errText    string
	nextSeq    uint64
	appliedSeq uint64
}

// NewStore builds a wishlist store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "wishlist gateway is required")
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
		gateway:    params.Gateway,
		session:    params.Session,
		notifier:   params.Notifier,
		logg:       params.Logger,
		metrics:    params.Metrics,
		membership: map[uuid.UUID]struct{}{},
	}, nil
}

// Snapshot returns a copy of the last applied wishlist state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// IsLoading reports whether a blocking fetch is in flight.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the inline error text, empty when the last operation
// succeeded. Kept alongside toasts for surfaces that render errors in
// place.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errText
}

// Contains reports wishlist membership in O(1).
func (s *Store) Contains(productID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.membership[productID]
	return ok
}

// Fetch replaces the snapshot with the gateway's current wishlist. On
// failure the prior snapshot is retained and the inline error set.
func (s *Store) Fetch(ctx context.Context, blocking bool) error {
	ctx = s.logg.WithOperation(ctx, "wishlist.fetch")
	if blocking {
		s.setLoading(true)
		defer s.setLoading(false)
	}

	seq := s.beginSeq()
	snap, err := s.gateway.Get(ctx)
	if err != nil {
		s.fail(ctx, "wishlist fetch failed", err)
		return err
	}
	if snap == nil {
		snap = &Snapshot{}
	}
	s.apply(ctx, seq, *snap)
	return nil
}

// AddProduct adds the product to the wishlist. An unauthenticated caller
// gets a notification and no network call.
func (s *Store) AddProduct(ctx context.Context, productID uuid.UUID) error {
	ctx = s.logg.WithOperation(ctx, "wishlist.add")

	if !s.session.Authenticated() {
		err := pkgerrors.New(pkgerrors.CodeUnauthenticated, "sign in to save items to your wishlist")
		s.notifier.Notify(ctx, notify.LevelWarning, pkgerrors.UserMessage(err))
		return err
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodePrecondition, "product id is required")
	}

	seq := s.beginSeq()
	snap, err := s.gateway.AddProduct(ctx, productID)
	if err != nil {
		s.fail(ctx, "wishlist add failed", err)
		return err
	}
	if snap == nil {
		return s.refetch(ctx, "wishlist add returned no snapshot")
	}
	s.apply(ctx, seq, *snap)
	s.notifier.Notify(ctx, notify.LevelSuccess, "saved to wishlist")
	return nil
}

// RemoveProduct removes the product. When the gateway answers without a
// body the removed id is filtered locally; this is the one sanctioned
// local patch.
func (s *Store) RemoveProduct(ctx context.Context, productID uuid.UUID) error {
	ctx = s.logg.WithOperation(ctx, "wishlist.remove")

	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodePrecondition, "product id is required")
	}

	seq := s.beginSeq()
	snap, err := s.gateway.RemoveProduct(ctx, productID)
	if err != nil {
		s.fail(ctx, "wishlist remove failed", err)
		return err
	}

	if snap == nil {
		s.mu.Lock()
		filtered := Snapshot{Products: make([]Product, 0, len(s.snapshot.Products))}
		for _, p := range s.snapshot.Products {
			if p.ID != productID {
				filtered.Products = append(filtered.Products, p)
			}
		}
		s.mu.Unlock()
		s.apply(ctx, seq, filtered)
		return nil
	}
	s.apply(ctx, seq, *snap)
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
		s.fail(ctx, "reconciling wishlist fetch failed", err)
		return err
	}
	if snap == nil {
		snap = &Snapshot{}
	}
	s.apply(ctx, seq, *snap)
	return nil
}

func (s *Store) beginSeq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

func (s *Store) apply(ctx context.Context, seq uint64, snap Snapshot) {
	s.mu.Lock()
	if seq < s.appliedSeq {
		s.mu.Unlock()
		s.metrics.IncStaleDiscarded()
		s.logg.Warn(ctx, "discarded stale wishlist snapshot")
		return
	}
	s.appliedSeq = seq
	s.snapshot = snap.Clone()
	s.membership = make(map[uuid.UUID]struct{}, len(snap.Products))
	for _, p := range snap.Products {
		s.membership[p.ID] = struct{}{}
	}
	s.errText = ""
	s.mu.Unlock()

	if err := snap.Validate(); err != nil {
		s.logg.Error(ctx, "gateway returned an inconsistent wishlist", err)
	}
}

func (s *Store) fail(ctx context.Context, msg string, err error) {
	s.logg.Error(ctx, msg, err)
	text := pkgerrors.UserMessage(err)
	s.mu.Lock()
	s.errText = text
	s.mu.Unlock()
	s.notifier.Notify(ctx, notify.LevelError, text)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}
