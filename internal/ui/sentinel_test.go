package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/trigger"
)

type nopBus struct{}

func (nopBus) Publish(eventbus.DomainEvent) {}
func (nopBus) Subscribe(eventbus.EventType, eventbus.EventHandler) func() {
	return func() {}
}

type stubStatus struct {
	hasNext  bool
	fetching bool
}

func (s *stubStatus) HasNextPage() bool { return s.hasNext }
func (s *stubStatus) IsFetching() bool  { return s.fetching }

func newObserverFixture(margin int) (*Observer, *int) {
	fires := 0
	now := time.Now()
	trig := trigger.NewService(nopBus{}, &stubStatus{hasNext: true}, trigger.Options{
		Now:        func() time.Time { return now },
		OnLoadMore: func() { fires++ },
	})
	obs := NewObserver(trig, margin)
	obs.Connect()
	return obs, &fires
}

func TestObserverFiresWhenSentinelScrollsIn(t *testing.T) {
	t.Parallel()
	obs, fires := newObserverFixture(0)

	// 50 items, sentinel at row 50, viewport shows rows 0-19
	obs.Evaluate(0, 20, 50)
	assert.Equal(t, 0, *fires)

	// Scroll until the sentinel is the last visible row
	obs.Evaluate(31, 20, 50)
	assert.Equal(t, 1, *fires)
}

func TestObserverMarginExtendsViewport(t *testing.T) {
	t.Parallel()
	obs, fires := newObserverFixture(2)

	// Sentinel two rows below the fold counts as visible with margin 2
	obs.Evaluate(29, 20, 50)
	assert.Equal(t, 1, *fires)
}

func TestObserverReportsOnlyTransitions(t *testing.T) {
	t.Parallel()
	obs, fires := newObserverFixture(0)

	obs.Evaluate(31, 20, 50)
	require.Equal(t, 1, *fires)

	// Re-evaluations with unchanged visibility are not transitions
	obs.Evaluate(31, 20, 50)
	obs.Evaluate(32, 20, 50)
	assert.Equal(t, 1, *fires)
}

func TestObserverDisconnectStopsReporting(t *testing.T) {
	t.Parallel()
	obs, fires := newObserverFixture(0)

	obs.Disconnect()
	obs.Disconnect()
	obs.Evaluate(31, 20, 50)
	assert.Equal(t, 0, *fires)
}
