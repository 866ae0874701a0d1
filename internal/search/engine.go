// Package search provides keyword search over a version's verses.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/unicode/norm"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/pkg/types"
)

// DefaultPageSize is the number of results fetched per page.
const DefaultPageSize = 100

// NoLimit disables paging when used as Options.Limit.
const NoLimit = -1

// ErrNoKeywords is returned by Validate when every keyword is blank.
var ErrNoKeywords = errors.New("no search keywords")

// Source hands out the database of a version.
type Source interface {
	DB(ctx context.Context, v bible.Version) (*sqlx.DB, error)
}

// Options configures the book range and paging of a query.
type Options struct {
	// StartBook and EndBook bound the search inclusively. Zero means the
	// first or last book.
	StartBook int
	EndBook   int

	// Limit is the page size. Zero applies DefaultPageSize, NoLimit returns
	// every match.
	Limit int

	// Offset is the number of matches to skip.
	Offset int
}

// DefaultOptions returns options covering the whole canon with the default page size.
func DefaultOptions() Options {
	return Options{
		StartBook: bible.FirstBookID,
		EndBook:   bible.LastBookID,
		Limit:     DefaultPageSize,
	}
}

// WithRange returns a copy of the options with the specified book range.
func (o Options) WithRange(startBook, endBook int) Options {
	o.StartBook = startBook
	o.EndBook = endBook
	return o
}

// WithLimit returns a copy of the options with the specified limit.
func (o Options) WithLimit(limit int) Options {
	o.Limit = limit
	return o
}

// WithOffset returns a copy of the options with the specified offset.
func (o Options) WithOffset(offset int) Options {
	o.Offset = offset
	return o
}

// Query is a conjunctive keyword search: a verse matches only if its text
// contains every keyword.
type Query struct {
	Version  bible.Version
	Keywords []string
	Options
}

// Normalize returns a copy with blank keywords dropped, the book range clamped
// to the canon and ordered, and paging defaults applied.
func (q Query) Normalize() Query {
	keywords := make([]string, 0, len(q.Keywords))
	for _, kw := range q.Keywords {
		kw = strings.TrimSpace(norm.NFC.String(kw))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	q.Keywords = keywords

	if q.StartBook == 0 {
		q.StartBook = bible.FirstBookID
	}
	if q.EndBook == 0 {
		q.EndBook = bible.LastBookID
	}
	q.StartBook = clampBook(q.StartBook)
	q.EndBook = clampBook(q.EndBook)
	if q.StartBook > q.EndBook {
		q.StartBook, q.EndBook = q.EndBook, q.StartBook
	}

	switch {
	case q.Limit == 0:
		q.Limit = DefaultPageSize
	case q.Limit < 0:
		q.Limit = NoLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// Validate reports ErrNoKeywords when the normalized query has nothing to match.
func (q Query) Validate() error {
	if len(q.Normalize().Keywords) == 0 {
		return ErrNoKeywords
	}
	return nil
}

func clampBook(id int) int {
	return min(max(id, bible.FirstBookID), bible.LastBookID)
}

// Engine runs keyword searches against verse databases.
type Engine struct {
	source Source
	logger *slog.Logger
}

// NewEngine creates a search engine over source.
func NewEngine(source Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{source: source, logger: logger}
}

// Search returns one page of matches ordered by book, chapter and verse.
// A query whose keywords are all blank returns no results without touching
// the database.
func (e *Engine) Search(ctx context.Context, q Query) ([]types.SearchResult, error) {
	q = q.Normalize()
	results := []types.SearchResult{}
	if len(q.Keywords) == 0 {
		return results, nil
	}

	db, err := e.source.DB(ctx, q.Version)
	if err != nil {
		return nil, err
	}

	where, args := buildPredicate(q)
	query := "SELECT book, chapter, verse, btext AS text FROM Bible WHERE " + where +
		" ORDER BY book, chapter, verse LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	if err := db.SelectContext(ctx, &results, query, args...); err != nil {
		e.logger.Error("search failed", "version", q.Version.String(), "keywords", q.Keywords, "error", err)
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	e.logger.Debug("search",
		"version", q.Version.String(),
		"keywords", q.Keywords,
		"books", fmt.Sprintf("%d-%d", q.StartBook, q.EndBook),
		"offset", q.Offset,
		"results", len(results),
	)
	return results, nil
}

// Count returns the total number of matches, ignoring paging.
func (e *Engine) Count(ctx context.Context, q Query) (int, error) {
	q = q.Normalize()
	if len(q.Keywords) == 0 {
		return 0, nil
	}

	db, err := e.source.DB(ctx, q.Version)
	if err != nil {
		return 0, err
	}

	where, args := buildPredicate(q)
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM Bible WHERE "+where, args...); err != nil {
		e.logger.Error("search count failed", "version", q.Version.String(), "keywords", q.Keywords, "error", err)
		return 0, fmt.Errorf("search count failed: %w", err)
	}
	return count, nil
}

// buildPredicate builds the WHERE clause for a normalized query: one literal
// substring test per keyword, all required, plus the book range.
func buildPredicate(q Query) (string, []any) {
	clauses := make([]string, 0, len(q.Keywords)+1)
	args := make([]any, 0, len(q.Keywords)+2)

	for _, kw := range q.Keywords {
		clauses = append(clauses, `btext LIKE '%' || ? || '%' ESCAPE '\'`)
		args = append(args, escapeLike(kw))
	}
	clauses = append(clauses, "book BETWEEN ? AND ?")
	args = append(args, q.StartBook, q.EndBook)

	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
