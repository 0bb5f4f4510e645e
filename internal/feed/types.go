package feed

import (
	"context"

	paging "github.com/nrfta/paging-go/v2"
	"github.com/nrfta/paging-go/v2/cursor"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
)

// Page is the result of fetching one page of the remote collection.
type Page struct {
	// Items in collection order. May be empty on the final page.
	Items []domain.Newsletter

	// HasNextPage reports whether the remote collection extends past this page.
	HasNextPage bool

	// TotalCount is the authoritative size of the full remote collection
	// under the active query; nil when the server does not report it.
	TotalCount *int
}

// Fetcher abstracts the remote query layer. args carries the page size
// (First) and the resume cursor (After); a nil After starts from the
// beginning of the collection.
type Fetcher interface {
	FetchPage(ctx context.Context, query domain.FilterSort, args *paging.PageArgs) (*Page, error)
}

// NewCursorEncoder returns the composite cursor encoder for the given
// query. The encoded columns must match the active sort so the server can
// resume with a keyset predicate; ID is always included as tiebreaker.
func NewCursorEncoder(query domain.FilterSort) paging.CursorEncoder[domain.Newsletter] {
	return cursor.NewCompositeCursorEncoder(func(n domain.Newsletter) map[string]any {
		values := map[string]any{"id": n.ID}
		switch query.SortBy {
		case domain.SortByTitle:
			values["title"] = n.Title
		default:
			values["received_at"] = n.ReceivedAt
		}
		return values
	})
}

// NewPageArgs builds the pagination arguments for the next fetch.
func NewPageArgs(query domain.FilterSort, pageSize int, after *string) *paging.PageArgs {
	args := &paging.PageArgs{
		First: &pageSize,
		After: after,
	}
	return paging.WithSortBy(args, string(query.SortBy), query.Desc)
}
