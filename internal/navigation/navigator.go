// Package navigation steps verse positions forward and backward across
// chapter and book boundaries.
package navigation

import (
	"context"
	"errors"
	"fmt"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/pkg/types"
)

// Direction is a single step forward or backward.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

var (
	// ErrBoundary is returned when stepping past the first or last verse of the canon.
	ErrBoundary = errors.New("at canon boundary")

	// ErrEmptyChapter is returned when a backward step lands on a chapter
	// that has no verses in the version.
	ErrEmptyChapter = fmt.Errorf("empty chapter: %w", bible.ErrNotFound)

	// ErrInvalidDirection is returned for a direction other than Forward or Backward.
	ErrInvalidDirection = errors.New("invalid direction")
)

// Navigator computes adjacent verse positions. Each step makes at most one
// max-verse lookup.
type Navigator struct {
	lookup bible.MaxVerseLookup
}

// NewNavigator creates a navigator backed by lookup.
func NewNavigator(lookup bible.MaxVerseLookup) *Navigator {
	return &Navigator{lookup: lookup}
}

// Step returns the position one verse away from pos in direction dir. At the
// first or last verse of the canon it returns ErrBoundary and pos unchanged.
func (n *Navigator) Step(ctx context.Context, v bible.Version, pos types.VersePosition, dir Direction) (types.VersePosition, error) {
	if err := bible.CheckPosition(pos); err != nil {
		return pos, err
	}

	switch dir {
	case Forward:
		return n.forward(ctx, v, pos)
	case Backward:
		return n.backward(ctx, v, pos)
	default:
		return pos, fmt.Errorf("%w: %d", ErrInvalidDirection, int(dir))
	}
}

func (n *Navigator) forward(ctx context.Context, v bible.Version, pos types.VersePosition) (types.VersePosition, error) {
	maxVerse, err := n.lookup.GetMaxVerse(ctx, v, pos.BookID, pos.Chapter)
	if err != nil {
		return pos, fmt.Errorf("failed to step forward from %s: %w", pos, err)
	}

	next := pos
	next.Verse++
	if next.Verse <= maxVerse {
		return next, nil
	}

	next.Chapter++
	next.Verse = 1

	book, _ := bible.BookByID(pos.BookID)
	if next.Chapter <= book.Chapters {
		return next, nil
	}

	following, ok := bible.NextBook(pos.BookID)
	if !ok {
		return pos, ErrBoundary
	}
	return types.VersePosition{BookID: following.ID, Chapter: 1, Verse: 1}, nil
}

func (n *Navigator) backward(ctx context.Context, v bible.Version, pos types.VersePosition) (types.VersePosition, error) {
	if pos.Verse > 1 {
		prev := pos
		prev.Verse--
		return prev, nil
	}

	prev := pos
	prev.Chapter--
	if prev.Chapter < 1 {
		book, ok := bible.PrevBook(pos.BookID)
		if !ok {
			return pos, ErrBoundary
		}
		prev.BookID = book.ID
		prev.Chapter = book.Chapters
	}

	maxVerse, err := n.lookup.GetMaxVerse(ctx, v, prev.BookID, prev.Chapter)
	if err != nil {
		return pos, fmt.Errorf("failed to step backward from %s: %w", pos, err)
	}
	if maxVerse < 1 {
		return pos, fmt.Errorf("%w: %s book %d chapter %d", ErrEmptyChapter, v, prev.BookID, prev.Chapter)
	}
	prev.Verse = maxVerse
	return prev, nil
}
