// Package navigation derives prev/next affordances for a target item from
// the loaded window. It holds no item data of its own; position and
// neighbor information are recomputed from the window on every read.
package navigation

import (
	"github.com/rs/zerolog"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
	"github.com/zapidan/newsletter-hub-sub011/internal/logging"
)

// Window is the loaded-window view the cursor navigates over.
type Window interface {
	Len() int
	At(i int) *domain.Newsletter
	IndexOf(id string) int
	HasNextPage() bool
}

// Cursor is the derived position of the target within the window.
type Cursor struct {
	// Index is the target's position, or -1 when the target is empty or
	// not loaded.
	Index int

	// HasPrevious is true when an earlier window item exists.
	HasPrevious bool

	// HasNext is true when a later window item exists. It is false at the
	// window boundary even when the collection has more pages; callers
	// that want load-then-advance check AtBoundary.
	HasNext bool

	// AtBoundary is true when the target is the last loaded item and the
	// collection extends past the window.
	AtBoundary bool
}

// Service tracks the navigation target over a window.
type Service struct {
	window Window
	logger zerolog.Logger
	target string
}

// NewService creates a cursor over the given window with no target.
func NewService(window Window) *Service {
	return &Service{
		window: window,
		logger: logging.NewLogger("navigation"),
	}
}

// SetTarget points the cursor at the given item id. An empty id clears
// the target. The id does not need to be loaded; an unknown target simply
// yields a detached cursor.
func (s *Service) SetTarget(id string) { s.target = id }

// ClearTarget removes the target.
func (s *Service) ClearTarget() { s.target = "" }

// Target returns the current target id, or "" when unset.
func (s *Service) Target() string { return s.target }

// Cursor computes the target's position and neighbor availability against
// the current window state.
func (s *Service) Cursor() Cursor {
	i := s.index()
	if i < 0 {
		return Cursor{Index: -1}
	}
	return Cursor{
		Index:       i,
		HasPrevious: i > 0,
		HasNext:     i < s.window.Len()-1,
		AtBoundary:  i == s.window.Len()-1 && s.window.HasNextPage(),
	}
}

// Current returns the targeted item, or nil when the target is empty or
// not loaded.
func (s *Service) Current() *domain.Newsletter {
	i := s.index()
	if i < 0 {
		return nil
	}
	return s.window.At(i)
}

// NavigateToPrevious moves the target one position back. Returns the new
// target id and true, or "" and false when no previous item exists; the
// target is unchanged on failure.
func (s *Service) NavigateToPrevious() (string, bool) {
	i := s.index()
	if i <= 0 {
		return "", false
	}
	return s.moveTo(i - 1)
}

// NavigateToNext moves the target one position forward within the window.
// Returns "" and false at the window boundary even when more pages exist
// remotely; loading them first is the caller's job.
func (s *Service) NavigateToNext() (string, bool) {
	i := s.index()
	if i < 0 || i >= s.window.Len()-1 {
		return "", false
	}
	return s.moveTo(i + 1)
}

func (s *Service) moveTo(i int) (string, bool) {
	item := s.window.At(i)
	if item == nil {
		return "", false
	}
	s.target = item.ID
	return item.ID, true
}

func (s *Service) index() int {
	if s.target == "" {
		return -1
	}
	return s.window.IndexOf(s.target)
}
