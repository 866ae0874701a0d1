package search

import (
	"sync"

	"github.com/azyu/bibleview/pkg/types"
)

// Pager tracks load-more state for one submitted query. Only one page may be
// in flight at a time.
type Pager struct {
	mu       sync.Mutex
	query    Query
	total    int
	pageSize int
	results  []types.SearchResult
	busy     bool
}

// NewPager creates a pager for q whose total match count is known.
func NewPager(q Query, total int) *Pager {
	q = q.Normalize()
	pageSize := q.Limit
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pager{
		query:    q,
		total:    total,
		pageSize: pageSize,
	}
}

// Next returns the query for the next page and marks the pager busy. It
// returns false while a page is in flight or once every match is loaded.
func (p *Pager) Next() (Query, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.busy || len(p.results) >= p.total {
		return Query{}, false
	}
	p.busy = true

	next := p.query
	next.Options = next.Options.WithLimit(p.pageSize).WithOffset(len(p.results))
	return next, true
}

// Done appends a fetched page and clears the busy flag.
func (p *Pager) Done(page []types.SearchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.results = append(p.results, page...)
	p.busy = false
	// a short page means the count went stale
	if len(page) < p.pageSize && len(p.results) < p.total {
		p.total = len(p.results)
	}
}

// Fail clears the busy flag after a page could not be fetched.
func (p *Pager) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.busy = false
}

// Query returns the normalized query the pager was created for.
func (p *Pager) Query() Query {
	return p.query
}

// Results returns a copy of every match loaded so far.
func (p *Pager) Results() []types.SearchResult {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]types.SearchResult, len(p.results))
	copy(out, p.results)
	return out
}

// Total returns the total match count.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// HasMore reports whether matches remain to be loaded.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.results) < p.total
}

// Busy reports whether a page is in flight.
func (p *Pager) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.busy
}
