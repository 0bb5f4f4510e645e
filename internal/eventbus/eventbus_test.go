package eventbus

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	t.Parallel()
	bus := New()

	got := make(chan DomainEvent, 1)
	bus.Subscribe(EventLoadRequested, func(e DomainEvent) {
		got <- e
	})

	bus.Publish(LoadRequestedEvent{})

	select {
	case e := <-got:
		assert.Equal(t, EventLoadRequested, e.Type())
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestSubscriberOnlySeesItsEventType(t *testing.T) {
	t.Parallel()
	bus := New()

	var calls atomic.Int32
	bus.Subscribe(EventPageLoaded, func(DomainEvent) {
		calls.Add(1)
	})

	bus.Publish(LoadRequestedEvent{})
	bus.Publish(ConfigSavedEvent{})

	done := make(chan struct{})
	bus.Subscribe(EventWindowReset, func(DomainEvent) { close(done) })
	bus.Publish(WindowResetEvent{})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("marker event was not delivered")
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestPanickingHandlerDoesNotKillBus(t *testing.T) {
	t.Parallel()
	bus := New()

	bus.Subscribe(EventPageLoaded, func(DomainEvent) {
		panic("handler bug")
	})
	got := make(chan struct{}, 1)
	bus.Subscribe(EventPageLoaded, func(DomainEvent) {
		got <- struct{}{}
	})

	bus.Publish(PageLoadedEvent{Appended: 1})

	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("bus stopped delivering after a handler panic")
	}

	// The bus still works for later events
	bus.Publish(PageLoadedEvent{Appended: 2})
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("bus did not survive the panic")
	}
}

func TestConcurrentPublish(t *testing.T) {
	t.Parallel()
	bus := New()

	var calls atomic.Int32
	bus.Subscribe(EventNewsletterRead, func(DomainEvent) {
		calls.Add(1)
	})

	const n = 50
	for i := 0; i < n; i++ {
		go bus.Publish(NewsletterReadEvent{ID: "x", Read: true})
	}

	require.Eventually(t, func() bool {
		return calls.Load() == n
	}, 2*time.Second, 10*time.Millisecond)
}
