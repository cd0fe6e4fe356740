package quantity

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

type fakeTimer struct {
	fn      func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	stopped := !t.stopped
	t.stopped = true
	return stopped
}

// fakeClock hands out timers that only fire when the test says so.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) factory(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	timer := &fakeTimer{fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

// fireLatest runs the most recently scheduled timer if it is still live.
func (c *fakeClock) fireLatest() {
	c.mu.Lock()
	var latest *fakeTimer
	if len(c.timers) > 0 {
		latest = c.timers[len(c.timers)-1]
	}
	c.mu.Unlock()
	if latest != nil && !latest.stopped {
		latest.fn()
	}
}

func (c *fakeClock) scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

type commitRecorder struct {
	mu      sync.Mutex
	calls   []int
	failErr error
}

func (r *commitRecorder) commit(ctx context.Context, lineID uuid.UUID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failErr != nil {
		return r.failErr
	}
	r.calls = append(r.calls, quantity)
	return nil
}

func (r *commitRecorder) committed() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.calls...)
}

func newTestEditor(t *testing.T, authoritative, max int) (*Editor, *fakeClock, *commitRecorder) {
	t.Helper()
	clock := &fakeClock{}
	recorder := &commitRecorder{}
	editor, err := NewEditor(EditorParams{
		LineID:        uuid.New(),
		Authoritative: authoritative,
		Max:           max,
		Commit:        recorder.commit,
		NewTimer:      clock.factory,
	})
	require.NoError(t, err)
	return editor, clock, recorder
}

func TestClamp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Clamp(0, 99))
	assert.Equal(t, 1, Clamp(-5, 99))
	assert.Equal(t, 99, Clamp(150, 99))
	assert.Equal(t, 42, Clamp(42, 99))
	assert.Equal(t, 6, Clamp(10, 6), "stock ceiling wins over the generic max")
	assert.Equal(t, 1, Clamp(5, 0), "nonsense ceiling degrades to 1")
}

func TestParseAndClamp(t *testing.T) {
	t.Parallel()

	if v, ok := ParseAndClamp("150", 99); !ok || v != 99 {
		t.Fatalf("expected (99,true), got (%d,%v)", v, ok)
	}
	if v, ok := ParseAndClamp("0", 99); !ok || v != 1 {
		t.Fatalf("expected (1,true), got (%d,%v)", v, ok)
	}
	if v, ok := ParseAndClamp("", 99); ok || v != 1 {
		t.Fatalf("expected (1,false), got (%d,%v)", v, ok)
	}
	if v, ok := ParseAndClamp("abc", 99); ok || v != 1 {
		t.Fatalf("expected (1,false), got (%d,%v)", v, ok)
	}
	if v, ok := ParseAndClamp(" 7 ", 99); !ok || v != 7 {
		t.Fatalf("expected (7,true), got (%d,%v)", v, ok)
	}
}

func TestDebounceCoalescesBurstIntoOneCommit(t *testing.T) {
	t.Parallel()

	editor, clock, recorder := newTestEditor(t, 2, DefaultMax)

	for _, raw := range []string{"1", "12", "3", "34", "5"} {
		editor.Input(raw)
	}

	require.Empty(t, recorder.committed(), "nothing commits before the window elapses")
	assert.Equal(t, 5, clock.scheduled(), "every keystroke restarts the window")

	clock.fireLatest()
	assert.Equal(t, []int{5}, recorder.committed(), "one commit, with the final keystroke's value")

	// Earlier timers were all cancelled; firing them again is a no-op.
	clock.fireLatest()
	assert.Equal(t, []int{5}, recorder.committed())
}

func TestInputClampsTo99(t *testing.T) {
	t.Parallel()

	editor, clock, recorder := newTestEditor(t, 1, DefaultMax)

	editor.Input("150")
	assert.Equal(t, 99, editor.Value())
	assert.Equal(t, "99", editor.Display())

	clock.fireLatest()
	assert.Equal(t, []int{99}, recorder.committed())
}

func TestBlurDefaultsInvalidInputToOne(t *testing.T) {
	t.Parallel()

	editor, _, recorder := newTestEditor(t, 3, DefaultMax)

	editor.Input("")
	assert.False(t, editor.Pending(), "empty input must not schedule a commit")

	require.NoError(t, editor.Blur(context.Background()))
	assert.Equal(t, 1, editor.Value())
	assert.Equal(t, []int{1}, recorder.committed())
}

func TestBlurSkipsCommitWhenUnchanged(t *testing.T) {
	t.Parallel()

	editor, _, recorder := newTestEditor(t, 4, DefaultMax)

	editor.Focus()
	require.NoError(t, editor.Blur(context.Background()))
	assert.Empty(t, recorder.committed())
}

func TestBlurCancelsPendingTimerAndCommitsOnce(t *testing.T) {
	t.Parallel()

	editor, clock, recorder := newTestEditor(t, 2, DefaultMax)

	editor.Input("8")
	require.True(t, editor.Pending())
	require.NoError(t, editor.Blur(context.Background()))

	assert.Equal(t, []int{8}, recorder.committed())
	clock.fireLatest()
	assert.Equal(t, []int{8}, recorder.committed(), "cancelled timer must not double-commit")
}

func TestStepBypassesDebounce(t *testing.T) {
	t.Parallel()

	editor, _, recorder := newTestEditor(t, 2, DefaultMax)

	require.NoError(t, editor.Step(context.Background(), 1))
	assert.Equal(t, []int{3}, recorder.committed(), "stepper commits immediately")
	assert.False(t, editor.Pending())

	require.NoError(t, editor.Step(context.Background(), -1))
	assert.Equal(t, []int{3, 2}, recorder.committed())
}

func TestStepClampsToStockCeiling(t *testing.T) {
	t.Parallel()

	editor, _, recorder := newTestEditor(t, 4, 5)

	require.NoError(t, editor.Step(context.Background(), 1))
	assert.Equal(t, 5, editor.Value())

	// Already at the ceiling: no local change, no network call.
	require.NoError(t, editor.Step(context.Background(), 1))
	assert.Equal(t, []int{5}, recorder.committed())

	editorAtFloor, _, floorRecorder := newTestEditor(t, 1, 5)
	require.NoError(t, editorAtFloor.Step(context.Background(), -1))
	assert.Empty(t, floorRecorder.committed())
}

func TestAuthoritativeSnapsOnlyWhenUnfocused(t *testing.T) {
	t.Parallel()

	editor, _, _ := newTestEditor(t, 2, DefaultMax)

	editor.SetAuthoritative(6)
	assert.Equal(t, 6, editor.Value(), "unfocused display snaps to server truth")

	editor.Focus()
	editor.Input("9")
	editor.SetAuthoritative(4)
	assert.Equal(t, 9, editor.Value(), "focused edits are never overwritten")

	require.NoError(t, editor.Blur(context.Background()))
	editor.SetAuthoritative(4)
	assert.Equal(t, 4, editor.Value())
}

func TestCommitFailureRevertsToAuthoritative(t *testing.T) {
	t.Parallel()

	editor, _, recorder := newTestEditor(t, 2, DefaultMax)
	recorder.failErr = pkgerrors.New(pkgerrors.CodeTransport, "connection refused")

	err := editor.Step(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 2, editor.Value(), "failed commit reverts the optimistic value")
	assert.Equal(t, "2", editor.Display())
}
