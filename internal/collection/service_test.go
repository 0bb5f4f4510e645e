package collection

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/feed"
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

func (b *recordingBus) last(t eventbus.EventType) eventbus.DomainEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.events) - 1; i >= 0; i-- {
		if b.events[i].Type() == t {
			return b.events[i]
		}
	}
	return nil
}

func newsletters(ids ...string) []domain.Newsletter {
	items := make([]domain.Newsletter, 0, len(ids))
	for i, id := range ids {
		items = append(items, domain.Newsletter{
			ID:         id,
			Title:      fmt.Sprintf("Issue %s", id),
			SourceName: "The Weekly",
			ReceivedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour),
		})
	}
	return items
}

func page(hasNext bool, ids ...string) *feed.Page {
	return &feed.Page{Items: newsletters(ids...), HasNextPage: hasNext}
}

func newTestService() (*Service, *recordingBus) {
	bus := &recordingBus{}
	return NewService(bus, 25, domain.DefaultFilterSort()), bus
}

func TestBeginFetchIsIdempotentWhileInFlight(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	h, ok := svc.BeginFetch()
	require.True(t, ok)
	require.True(t, svc.IsFetching())

	_, ok = svc.BeginFetch()
	assert.False(t, ok, "second BeginFetch while fetching must be a no-op")

	svc.Complete(h, page(true, "1", "2"))
	assert.False(t, svc.IsFetching())

	_, ok = svc.BeginFetch()
	assert.True(t, ok, "fetching is allowed again after completion")
}

func TestBeginFetchStopsAtEnd(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	h, ok := svc.BeginFetch()
	require.True(t, ok)
	svc.Complete(h, page(false, "1"))
	require.False(t, svc.HasNextPage())
	assert.True(t, svc.HasReachedEnd())

	_, ok = svc.BeginFetch()
	assert.False(t, ok, "no fetch once the collection is exhausted")
}

func TestCompleteAppendsInOrder(t *testing.T) {
	t.Parallel()
	svc, bus := newTestService()

	h, _ := svc.BeginFetch()
	svc.Complete(h, page(true, "1", "2", "3"))

	h, _ = svc.BeginFetch()
	svc.Complete(h, page(true, "4", "5"))

	require.Equal(t, 5, svc.Len())
	for i, want := range []string{"1", "2", "3", "4", "5"} {
		assert.Equal(t, want, svc.At(i).ID)
		assert.Equal(t, i, svc.IndexOf(want))
	}

	e := bus.last(eventbus.EventPageLoaded)
	require.NotNil(t, e)
	loaded := e.(eventbus.PageLoadedEvent)
	assert.Equal(t, 2, loaded.Appended)
	assert.Equal(t, 5, loaded.WindowSize)
}

func TestCursorDerivedFromLastItem(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	h, _ := svc.BeginFetch()
	require.Nil(t, h.Args.After, "first page starts from the beginning")
	svc.Complete(h, page(true, "1", "2"))

	h, _ = svc.BeginFetch()
	require.NotNil(t, h.Args.After, "follow-up pages resume after the last loaded item")
	assert.NotEmpty(t, *h.Args.After)
}

func TestCompleteDropsDuplicateIDs(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	h, _ := svc.BeginFetch()
	svc.Complete(h, page(true, "1", "2"))

	// Remote shifted under us and re-sent item 2
	h, _ = svc.BeginFetch()
	svc.Complete(h, page(true, "2", "3"))

	require.Equal(t, 3, svc.Len())
	assert.Equal(t, []string{"1", "2", "3"}, ids(svc))
	assert.Equal(t, 1, svc.IndexOf("2"), "original position wins")
}

func TestFailLeavesWindowIntact(t *testing.T) {
	t.Parallel()
	svc, bus := newTestService()

	h, _ := svc.BeginFetch()
	svc.Complete(h, page(true, "1", "2"))

	h, _ = svc.BeginFetch()
	svc.Fail(h, errors.New("boom"))

	assert.Equal(t, 2, svc.Len(), "failure must not change loaded items")
	assert.True(t, svc.HasNextPage(), "failure must not change hasNextPage")
	assert.False(t, svc.IsFetching(), "failure clears the in-flight flag")
	assert.NotNil(t, bus.last(eventbus.EventPageLoadFailed))

	// The same fetch can be retried
	_, ok := svc.BeginFetch()
	assert.True(t, ok)
}

func TestResetStartsNewIdentity(t *testing.T) {
	t.Parallel()
	svc, bus := newTestService()

	h, _ := svc.BeginFetch()
	svc.Complete(h, page(false, "1", "2"))
	require.True(t, svc.HasReachedEnd())

	q := domain.FilterSort{Filter: domain.FilterUnread, SortBy: domain.SortByTitle}
	svc.Reset(q)

	assert.Equal(t, 0, svc.Len())
	assert.True(t, svc.HasNextPage(), "reset re-opens the collection")
	assert.False(t, svc.IsFetching())
	assert.Nil(t, svc.TotalCount())
	assert.Equal(t, q, svc.Query())
	assert.NotNil(t, bus.last(eventbus.EventWindowReset))
}

func TestStaleResultAfterResetIsDiscarded(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	h, _ := svc.BeginFetch()
	svc.Reset(domain.FilterSort{Filter: domain.FilterUnread, SortBy: domain.SortByReceivedAt, Desc: true})

	// The old fetch lands after the reset
	svc.Complete(h, page(true, "1", "2"))
	assert.Equal(t, 0, svc.Len(), "result from a dead identity must be discarded")
	assert.False(t, svc.IsFetching())

	// And a stale failure must not clobber the new identity either
	h2, _ := svc.BeginFetch()
	svc.Fail(h, errors.New("late failure"))
	assert.True(t, svc.IsFetching(), "stale failure must not clear the new fetch")
	svc.Complete(h2, page(true, "a"))
	assert.Equal(t, 1, svc.Len())
}

func TestLateResultSameGenerationApplies(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	// No reset in between: even a slow result still belongs to this window
	h, _ := svc.BeginFetch()
	svc.Complete(h, page(true, "1"))
	assert.Equal(t, 1, svc.Len())
}

func TestTotalCountTracksLatestPage(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	total := 120
	h, _ := svc.BeginFetch()
	svc.Complete(h, &feed.Page{Items: newsletters("1"), HasNextPage: true, TotalCount: &total})
	require.NotNil(t, svc.TotalCount())
	assert.Equal(t, 120, *svc.TotalCount())

	// A page without a count keeps the previous value
	h, _ = svc.BeginFetch()
	svc.Complete(h, page(true, "2"))
	require.NotNil(t, svc.TotalCount())
	assert.Equal(t, 120, *svc.TotalCount())
}

func TestSetReadKeepsPosition(t *testing.T) {
	t.Parallel()
	svc, bus := newTestService()

	h, _ := svc.BeginFetch()
	svc.Complete(h, page(true, "1", "2", "3"))

	require.True(t, svc.SetRead("2", true))
	assert.True(t, svc.At(1).Read)
	assert.Equal(t, []string{"1", "2", "3"}, ids(svc), "status flips never reorder")
	assert.NotNil(t, bus.last(eventbus.EventNewsletterRead))

	assert.False(t, svc.SetRead("missing", true))
}

func TestIndexOfUnknownAndEmpty(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	h, _ := svc.BeginFetch()
	svc.Complete(h, page(true, "1"))

	assert.Equal(t, IndexNotFound, svc.IndexOf(""))
	assert.Equal(t, IndexNotFound, svc.IndexOf("nope"))
	assert.Nil(t, svc.At(-1))
	assert.Nil(t, svc.At(99))
}

func ids(svc *Service) []string {
	out := make([]string, 0, svc.Len())
	for _, n := range svc.Items() {
		out = append(out, n.ID)
	}
	return out
}
