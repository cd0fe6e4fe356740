package quantity

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

// Timer is the slice of time.Timer the editor needs; swapped for a manual
// implementation in tests.
type Timer interface {
	Stop() bool
}

// TimerFactory schedules fn after d. The default is time.AfterFunc.
type TimerFactory func(d time.Duration, fn func()) Timer

func afterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// EditorParams configures a per-line quantity editor.
type EditorParams struct {
	LineID        uuid.UUID
	Authoritative int
	// Max is the quantity ceiling: the variant's stock on product pages,
	// DefaultMax for a generic cart line.
	Max    int
	Window time.Duration
	Commit CommitFunc
	// Context is used for commits initiated by the debounce timer, which
	// has no caller to supply one.
	Context  context.Context
	Metrics  *metrics.GatewayMetrics
	NewTimer TimerFactory
	// OnLocal observes every local display change, for surfaces that
	// render outside the editor.
	OnLocal func(value int)
}

// Editor buffers quantity edits for one cart line. The local value is the
// user's in-progress input; the authoritative value is server truth. While
// the field is focused, incoming authoritative values never overwrite the
// local edit.
type Editor struct {
	lineID   uuid.UUID
	max      int
	window   time.Duration
	commit   CommitFunc
	baseCtx  context.Context
	metrics  *metrics.GatewayMetrics
	newTimer TimerFactory
	onLocal  func(int)

	mu            sync.Mutex
	authoritative int
	local         int
	display       string
	focused       bool
	pending       Timer
	pendingValue  int
}

// NewEditor builds an editor for one cart line.
func NewEditor(params EditorParams) (*Editor, error) {
	if params.LineID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "line id is required")
	}
	if params.Commit == nil {
		return nil, pkgerrors.New(pkgerrors.CodePrecondition, "commit func is required")
	}
	if params.Max <= 0 {
		params.Max = DefaultMax
	}
	if params.Window <= 0 {
		params.Window = DefaultWindow
	}
	if params.Context == nil {
		params.Context = context.Background()
	}
	if params.NewTimer == nil {
		params.NewTimer = afterFunc
	}
	initial := Clamp(params.Authoritative, params.Max)
	return &Editor{
		lineID:        params.LineID,
		max:           params.Max,
		window:        params.Window,
		commit:        params.Commit,
		baseCtx:       params.Context,
		metrics:       params.Metrics,
		newTimer:      params.NewTimer,
		onLocal:       params.OnLocal,
		authoritative: initial,
		local:         initial,
		display:       strconv.Itoa(initial),
	}, nil
}

// Value returns the local quantity.
func (e *Editor) Value() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.local
}

// Display returns the text currently shown in the field, which may be
// mid-edit garbage the clamp has not resolved yet.
func (e *Editor) Display() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.display
}

// Pending reports whether a debounced commit is waiting for the window.
func (e *Editor) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending != nil
}

// Focus marks the field focused; authoritative updates stop overwriting
// the local edit until Blur.
func (e *Editor) Focus() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true
}

// Input handles one keystroke of the free-text field. A parsable value is
// clamped, shown, and scheduled for commit after the quiescence window; an
// unparsable value is shown as-is and any scheduled commit is cancelled
// until the input becomes usable again or the field blurs.
func (e *Editor) Input(raw string) {
	e.mu.Lock()
	e.focused = true
	value, ok := ParseAndClamp(raw, e.max)
	if !ok {
		e.display = raw
		e.cancelPendingLocked()
		e.mu.Unlock()
		return
	}

	e.local = value
	e.display = strconv.Itoa(value)
	e.cancelPendingLocked()
	e.pendingValue = value
	e.pending = e.newTimer(e.window, func() { e.flush() })
	onLocal := e.onLocal
	e.mu.Unlock()

	if onLocal != nil {
		onLocal(value)
	}
}

// Blur cancels any pending window and immediately commits the current
// value, defaulting unusable input to 1, but only when it differs from the
// authoritative quantity.
func (e *Editor) Blur(ctx context.Context) error {
	e.mu.Lock()
	e.focused = false
	e.cancelPendingLocked()

	value, ok := ParseAndClamp(e.display, e.max)
	if !ok {
		value = 1
	}
	e.local = value
	e.display = strconv.Itoa(value)
	authoritative := e.authoritative
	e.mu.Unlock()

	if value == authoritative {
		return nil
	}
	return e.runCommit(ctx, value)
}

// Step applies a +/- click: no debounce, immediate local update and
// immediate commit, clamped to [1, max].
func (e *Editor) Step(ctx context.Context, delta int) error {
	e.mu.Lock()
	e.cancelPendingLocked()
	value := Clamp(e.local+delta, e.max)
	if value == e.local {
		e.mu.Unlock()
		return nil
	}
	e.local = value
	e.display = strconv.Itoa(value)
	onLocal := e.onLocal
	e.mu.Unlock()

	if onLocal != nil {
		onLocal(value)
	}
	return e.runCommit(ctx, value)
}

// SetAuthoritative installs server truth. While the field is focused the
// local edit wins; otherwise the display snaps to the new value.
func (e *Editor) SetAuthoritative(quantity int) {
	e.mu.Lock()
	e.authoritative = quantity
	if e.focused {
		e.mu.Unlock()
		return
	}
	e.local = quantity
	e.display = strconv.Itoa(quantity)
	onLocal := e.onLocal
	e.mu.Unlock()

	if onLocal != nil {
		onLocal(quantity)
	}
}

// flush commits the debounced value after the window elapses.
func (e *Editor) flush() {
	e.mu.Lock()
	if e.pending == nil {
		e.mu.Unlock()
		return
	}
	e.pending = nil
	value := e.pendingValue
	e.mu.Unlock()

	e.metrics.IncDebounceFlush()
	_ = e.runCommit(e.baseCtx, value)
}

// runCommit pushes value through the shared commit func, reverting the
// local display to the authoritative value on failure.
func (e *Editor) runCommit(ctx context.Context, value int) error {
	err := e.commit(ctx, e.lineID, value)
	if err == nil {
		return nil
	}

	e.mu.Lock()
	revert := e.authoritative
	e.local = revert
	e.display = strconv.Itoa(revert)
	onLocal := e.onLocal
	e.mu.Unlock()

	if onLocal != nil {
		onLocal(revert)
	}
	return err
}

func (e *Editor) cancelPendingLocked() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}
