package domain

import "time"

// Newsletter represents a single newsletter issue in the user's inbox.
// Identity is the ID; everything else is display/status data. The engine
// never reorders items once loaded.
type Newsletter struct {
	ID         string
	Title      string
	SourceName string
	Author     string
	Summary    string
	Content    string
	URL        string
	ReceivedAt time.Time
	Read       bool
	Archived   bool
}

// Filter selects which newsletters the remote collection contains.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterUnread   Filter = "unread"
	FilterArchived Filter = "archived"
)

// SortField is the column the remote collection is ordered by.
type SortField string

const (
	SortByReceivedAt SortField = "received_at"
	SortByTitle      SortField = "title"
)

// FilterSort is the active query configuration. Two FilterSort values that
// differ in any field identify two distinct remote collections: changing
// it resets the loaded window rather than patching it.
type FilterSort struct {
	Filter Filter
	SortBy SortField
	Desc   bool
}

// DefaultFilterSort returns the query used on startup.
func DefaultFilterSort() FilterSort {
	return FilterSort{
		Filter: FilterAll,
		SortBy: SortByReceivedAt,
		Desc:   true,
	}
}

// Equal reports whether two queries identify the same remote collection.
func (fs FilterSort) Equal(other FilterSort) bool {
	return fs.Filter == other.Filter && fs.SortBy == other.SortBy && fs.Desc == other.Desc
}
