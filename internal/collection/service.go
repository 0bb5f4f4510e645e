// Package collection maintains the loaded window: the in-memory prefix of
// the remote newsletter collection under the active filter/sort.
package collection

import (
	paging "github.com/nrfta/paging-go/v2"
	"github.com/rs/zerolog"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/feed"
	"github.com/zapidan/newsletter-hub-sub011/internal/logging"
)

// Service owns the loaded window and its metadata. Items are only ever
// appended for the lifetime of a query; a query change is a clean reset,
// never a diff. All methods must be called from a single goroutine (the
// UI update loop); fetch I/O happens elsewhere and re-enters through
// Complete/Fail.
type Service struct {
	bus      eventbus.EventBus
	logger   zerolog.Logger
	pageSize int

	query   domain.FilterSort
	encoder paging.CursorEncoder[domain.Newsletter]

	items      []domain.Newsletter
	index      map[string]int // id -> position, duplicate guard
	hasNext    bool
	fetching   bool
	totalCount *int

	// generation increments on every Reset; fetch results carry the
	// generation they were issued under.
	generation int
}

// NewService creates a collection for the given query.
func NewService(bus eventbus.EventBus, pageSize int, query domain.FilterSort) *Service {
	s := &Service{
		bus:      bus,
		logger:   logging.NewLogger("collection"),
		pageSize: pageSize,
	}
	s.reset(query)
	return s
}

// BeginFetch starts a page fetch if one is allowed. It returns false — a
// no-op, not an error — when a fetch is already in flight or the window
// has no next page; callers rely on this idempotence.
func (s *Service) BeginFetch() (FetchHandle, bool) {
	if s.fetching || !s.hasNext {
		return FetchHandle{}, false
	}

	s.fetching = true

	var after *string
	if len(s.items) > 0 {
		// Resume cursor comes from the last loaded item
		after, _ = s.encoder.Encode(s.items[len(s.items)-1])
	}

	return FetchHandle{
		generation: s.generation,
		Query:      s.query,
		Args:       feed.NewPageArgs(s.query, s.pageSize, after),
	}, true
}

// Complete applies a fetched page to the window. A result from before a
// Reset belongs to a dead identity and is discarded; a same-generation
// result is always applied, even if the trigger was disabled while the
// fetch was in flight.
func (s *Service) Complete(h FetchHandle, page *feed.Page) {
	if h.generation != s.generation {
		s.logger.Debug().
			Int("result_generation", h.generation).
			Int("current_generation", s.generation).
			Msg("discarding stale page result")
		return
	}

	s.fetching = false

	appended := 0
	for _, item := range page.Items {
		if _, exists := s.index[item.ID]; exists {
			// The window never holds duplicate identifiers
			s.logger.Warn().Str("id", item.ID).Msg("dropping duplicate item from page")
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
		appended++
	}

	s.hasNext = page.HasNextPage
	if page.TotalCount != nil {
		s.totalCount = page.TotalCount
	}

	s.logger.Debug().
		Int("appended", appended).
		Int("window_size", len(s.items)).
		Bool("has_next_page", s.hasNext).
		Msg("page applied")

	s.bus.Publish(eventbus.PageLoadedEvent{
		Appended:   appended,
		WindowSize: len(s.items),
		HasNext:    s.hasNext,
		TotalCount: s.totalCount,
	})
}

// Fail records a fetch failure. The window is left exactly as it was; the
// fetching flag is cleared so a later trigger can retry. Retry itself is
// the caller's decision.
func (s *Service) Fail(h FetchHandle, err error) {
	if h.generation != s.generation {
		return
	}

	s.fetching = false
	s.logger.Warn().Err(err).Msg("page fetch failed")
	s.bus.Publish(eventbus.PageLoadFailedEvent{Err: err})
}

// Reset discards the window and starts a new identity for the given
// query. hasNextPage returns to true so the first page can load.
func (s *Service) Reset(query domain.FilterSort) {
	s.reset(query)
	s.bus.Publish(eventbus.WindowResetEvent{Query: query})
}

func (s *Service) reset(query domain.FilterSort) {
	s.query = query
	s.encoder = feed.NewCursorEncoder(query)
	s.items = nil
	s.index = make(map[string]int)
	s.hasNext = true
	s.fetching = false
	s.totalCount = nil
	s.generation++
}

// SetRead flips the local read flag on a window item. Status flags never
// affect position. Returns false if the item is not loaded.
func (s *Service) SetRead(id string, read bool) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	if s.items[i].Read == read {
		return true
	}
	s.items[i].Read = read
	s.bus.Publish(eventbus.NewsletterReadEvent{ID: id, Read: read})
	return true
}

// Items returns the loaded window in collection order. The slice is owned
// by the service; callers must not mutate it.
func (s *Service) Items() []domain.Newsletter { return s.items }

// Len returns the number of loaded items.
func (s *Service) Len() int { return len(s.items) }

// At returns the item at position i, or nil when out of range.
func (s *Service) At(i int) *domain.Newsletter {
	if i < 0 || i >= len(s.items) {
		return nil
	}
	return &s.items[i]
}

// IndexOf returns the position of id within the window, or IndexNotFound.
func (s *Service) IndexOf(id string) int {
	if id == "" {
		return IndexNotFound
	}
	if i, ok := s.index[id]; ok {
		return i
	}
	return IndexNotFound
}

// Query returns the active filter/sort.
func (s *Service) Query() domain.FilterSort { return s.query }

// HasNextPage reports whether the remote collection extends past the window.
func (s *Service) HasNextPage() bool { return s.hasNext }

// IsFetching reports whether a page fetch is in flight.
func (s *Service) IsFetching() bool { return s.fetching }

// TotalCount returns the authoritative collection size, or nil if unknown.
func (s *Service) TotalCount() *int { return s.totalCount }

// HasReachedEnd is true when the window covers the whole collection and
// nothing is in flight; callers use it to stop rendering the sentinel.
func (s *Service) HasReachedEnd() bool { return !s.hasNext && !s.fetching }
