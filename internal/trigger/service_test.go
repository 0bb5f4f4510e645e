package trigger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
)

type recordingBus struct {
	mu     sync.Mutex
	events []eventbus.DomainEvent
}

func (b *recordingBus) Publish(e eventbus.DomainEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *recordingBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

func (b *recordingBus) count(t eventbus.EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Type() == t {
			n++
		}
	}
	return n
}

type fakeStatus struct {
	hasNext  bool
	fetching bool
}

func (f *fakeStatus) HasNextPage() bool { return f.hasNext }
func (f *fakeStatus) IsFetching() bool  { return f.fetching }

type fixture struct {
	bus    *recordingBus
	status *fakeStatus
	svc    *Service
	now    time.Time
	fires  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bus:    &recordingBus{},
		status: &fakeStatus{hasNext: true},
		now:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.bus, f.status, Options{
		Now:        func() time.Time { return f.now },
		OnLoadMore: func() { f.fires++ },
	})
	f.svc.Enable()
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func TestVisibilityFiresExactlyOnce(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, 1, f.fires, "visible transition should issue one load")
	assert.Equal(t, StateCooling, f.svc.State())

	// Duplicate intersection callbacks for the same crossing
	f.svc.HandleVisibility(true)
	f.svc.HandleVisibility(true)
	assert.Equal(t, 1, f.fires, "duplicate visibility events must not re-fire")
	assert.Equal(t, 1, f.bus.count(eventbus.EventLoadRequested))
}

func TestCooldownSuppressesRapidReintersection(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, 1, f.fires)

	// Leave and re-enter before the cooldown elapses
	f.advance(100 * time.Millisecond)
	f.svc.HandleVisibility(false)
	assert.Equal(t, StateCooling, f.svc.State(), "cooldown not elapsed, must stay cooling")
	f.svc.HandleVisibility(true)
	assert.Equal(t, 1, f.fires, "re-intersection within cooldown must not fire")

	// After the cooldown a fresh crossing fires again
	f.advance(DefaultMinLoadInterval)
	f.svc.HandleVisibility(false)
	assert.Equal(t, StateIdle, f.svc.State())
	f.svc.HandleVisibility(true)
	assert.Equal(t, 2, f.fires)
}

func TestVisibleWhileFetchingDoesNotQueue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.status.fetching = true

	f.svc.HandleVisibility(true)
	assert.Equal(t, 0, f.fires, "no fetch while one is in flight")
	assert.Equal(t, StateIdle, f.svc.State())

	// Fetch completes with the sentinel still intersecting: no new fetch
	// until the sentinel leaves and re-enters
	f.status.fetching = false
	f.svc.WindowChanged()
	assert.Equal(t, 0, f.fires)

	f.svc.HandleVisibility(false)
	f.svc.HandleVisibility(true)
	assert.Equal(t, 1, f.fires)
}

func TestNoNextPageNeverFires(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.status.hasNext = false

	f.svc.HandleVisibility(true)
	f.svc.HandleVisibility(false)
	f.svc.HandleVisibility(true)
	assert.Equal(t, 0, f.fires)
	assert.Equal(t, StateIdle, f.svc.State())
}

func TestWindowChangedDisarmsAtEnd(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, 1, f.fires)
	require.Equal(t, StateCooling, f.svc.State())

	// Last page arrived
	f.status.hasNext = false
	f.svc.WindowChanged()
	assert.Equal(t, StateIdle, f.svc.State())

	f.advance(time.Second)
	f.svc.HandleVisibility(false)
	f.svc.HandleVisibility(true)
	assert.Equal(t, 1, f.fires, "exhausted collection must not re-fire")
}

func TestRearmAfterReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.status.hasNext = false
	f.svc.HandleVisibility(true)
	require.Equal(t, 0, f.fires)

	// A window reset makes hasNextPage true again
	f.status.hasNext = true
	f.svc.WindowChanged()
	f.svc.HandleVisibility(false)
	f.svc.HandleVisibility(true)
	assert.Equal(t, 1, f.fires)
}

func TestDisableIsUnconditionalAndIdempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, StateCooling, f.svc.State())

	f.svc.Disable()
	assert.Equal(t, StateIdle, f.svc.State())
	assert.False(t, f.svc.Enabled())
	f.svc.Disable()
	assert.Equal(t, StateIdle, f.svc.State())

	// Events while disabled do nothing
	f.svc.HandleVisibility(true)
	f.svc.HandleTick()
	f.svc.WindowChanged()
	assert.Equal(t, 1, f.fires)
}

func TestTickRearmsOnlyWhenInvisible(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, StateCooling, f.svc.State())

	// Cooldown elapsed but the sentinel never left the viewport
	f.advance(DefaultMinLoadInterval + time.Millisecond)
	f.svc.HandleTick()
	assert.Equal(t, StateCooling, f.svc.State())

	f.svc.HandleVisibility(false)
	assert.Equal(t, StateIdle, f.svc.State())
}

func TestEnableResetsCooldown(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, 1, f.fires)

	// Remount: the old cooldown does not carry over
	f.svc.Disable()
	f.svc.Enable()
	f.svc.HandleVisibility(true)
	assert.Equal(t, 2, f.fires)
}

func TestCooldownIndependentOfFetchLatency(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	f.svc.HandleVisibility(true)
	require.Equal(t, 1, f.fires)

	// The fetch is still in flight when the cooldown elapses; re-arming
	// is gated on the collection, not on fetch completion
	f.status.fetching = true
	f.advance(DefaultMinLoadInterval + time.Millisecond)
	f.svc.HandleVisibility(false)
	assert.Equal(t, StateIdle, f.svc.State())

	f.svc.HandleVisibility(true)
	assert.Equal(t, 1, f.fires, "in-flight fetch still blocks a new one")

	f.status.fetching = false
	f.svc.HandleVisibility(false)
	f.svc.HandleVisibility(true)
	assert.Equal(t, 2, f.fires)
}
