package collection

import (
	paging "github.com/nrfta/paging-go/v2"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
)

// FetchHandle identifies one in-flight page fetch. It pins the query and
// window identity the fetch was issued against so a result that arrives
// after a Reset can be recognized as stale and discarded.
type FetchHandle struct {
	generation int

	// Query is the filter/sort the fetch must run under.
	Query domain.FilterSort

	// Args carries page size and the resume cursor derived from the last
	// loaded item (nil cursor for the first page).
	Args *paging.PageArgs
}

// IndexNotFound is the position reported for an absent or empty target.
const IndexNotFound = -1
