// Package reader holds the state of a reading session: the open verse, the
// version comparison panel, recently opened verses and the saved passage.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/highlight"
	"github.com/azyu/bibleview/internal/navigation"
	"github.com/azyu/bibleview/pkg/types"
)

// MaxRecent is the number of recently opened verses kept.
const MaxRecent = 10

var (
	// ErrNoVerse is returned when an operation needs an open verse.
	ErrNoVerse = errors.New("no verse open")
	// ErrNoPassage is returned by GotoPassage when no passage is saved.
	ErrNoPassage = errors.New("no passage set")
	// ErrStaleStep is returned when a newer step superseded this one.
	ErrStaleStep = errors.New("superseded by a newer step")
)

// Lookup is the verse data the session reads.
type Lookup interface {
	bible.MaxVerseLookup
	GetVerse(ctx context.Context, v bible.Version, bookID, chapter, verse int) (string, error)
}

// Verse is a verse as stored, markup included.
type Verse struct {
	Position types.VersePosition
	Text     string
}

// Reference returns the display reference, e.g. "요한복음 3:16".
func (v Verse) Reference() string {
	return bible.FormatReference(v.Position)
}

// PlainText returns the verse text without markup.
func (v Verse) PlainText() string {
	return highlight.StripMarkup(v.Text)
}

// State is a snapshot of the session for rendering.
type State struct {
	Version         bible.Version
	Current         *Verse
	CompareOpen     bool
	ComparedVersion bible.Version
	// ComparedText is empty when the compared version lacks the verse.
	ComparedText string
	Passage      *types.ScriptureRange
}

// Session is safe for concurrent use.
type Session struct {
	lookup  Lookup
	nav     *navigation.Navigator
	tracker *navigation.Tracker
	logger  *slog.Logger

	mu              sync.Mutex
	version         bible.Version
	current         *Verse
	compareOpen     bool
	comparedVersion bible.Version
	comparedText    string
	recent          []Verse
	passage         *types.ScriptureRange
}

// NewSession creates a session reading version v.
func NewSession(lookup Lookup, v bible.Version, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if !v.Valid() {
		v = bible.DefaultVersion
	}
	return &Session{
		lookup:          lookup,
		nav:             navigation.NewNavigator(lookup),
		tracker:         navigation.NewTracker(types.VersePosition{}),
		logger:          logger,
		version:         v,
		comparedVersion: v,
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Version:         s.version,
		CompareOpen:     s.compareOpen,
		ComparedVersion: s.comparedVersion,
		ComparedText:    s.comparedText,
	}
	if s.current != nil {
		cur := *s.current
		st.Current = &cur
	}
	if s.passage != nil {
		p := *s.passage
		st.Passage = &p
	}
	return st
}

// Version returns the version being read.
func (s *Session) Version() bible.Version {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Current returns the open verse, if any.
func (s *Session) Current() (Verse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Verse{}, false
	}
	return *s.current, true
}

// Open loads the verse at pos. If it cannot be loaded the session is left
// unchanged.
func (s *Session) Open(ctx context.Context, pos types.VersePosition) (Verse, error) {
	if err := bible.CheckPosition(pos); err != nil {
		return Verse{}, err
	}

	v := s.Version()
	text, err := s.lookup.GetVerse(ctx, v, pos.BookID, pos.Chapter, pos.Verse)
	if err != nil {
		return Verse{}, err
	}
	verse := Verse{Position: pos, Text: text}
	compared := s.fetchCompared(ctx, pos)

	s.mu.Lock()
	s.setCurrentLocked(verse, compared)
	s.mu.Unlock()

	s.tracker.Reset(pos)
	s.logger.Debug("opened verse", "reference", verse.Reference(), "version", v.String())
	return verse, nil
}

// StepResult is a resolved navigation step waiting to be applied.
type StepResult struct {
	Gen          uint64
	Verse        Verse
	ComparedText string
	Err          error
}

// BeginStep issues a step generation. The step starts from the last applied
// position and becomes stale once another step is issued.
func (s *Session) BeginStep() (uint64, types.VersePosition, error) {
	if _, ok := s.Current(); !ok {
		return 0, types.VersePosition{}, ErrNoVerse
	}
	gen, from := s.tracker.Issue()
	return gen, from, nil
}

// ResolveStep computes and loads the target of a step without changing the
// session. It may run concurrently with other calls.
func (s *Session) ResolveStep(ctx context.Context, gen uint64, from types.VersePosition, dir navigation.Direction) StepResult {
	v := s.Version()
	next, err := s.nav.Step(ctx, v, from, dir)
	if err != nil {
		return StepResult{Gen: gen, Err: err}
	}

	text, err := s.lookup.GetVerse(ctx, v, next.BookID, next.Chapter, next.Verse)
	if err != nil {
		return StepResult{Gen: gen, Err: err}
	}
	return StepResult{
		Gen:          gen,
		Verse:        Verse{Position: next, Text: text},
		ComparedText: s.fetchCompared(ctx, next),
	}
}

// ApplyStep makes a resolved step current. It returns ErrStaleStep when a
// newer step was issued, or the step's own error.
func (s *Session) ApplyStep(res StepResult) (Verse, error) {
	if res.Err != nil {
		return Verse{}, res.Err
	}
	if !s.tracker.Commit(res.Gen, res.Verse.Position) {
		return Verse{}, ErrStaleStep
	}

	s.mu.Lock()
	s.setCurrentLocked(res.Verse, res.ComparedText)
	s.mu.Unlock()
	return res.Verse, nil
}

// Step moves one verse in direction dir. At the canon boundary it returns
// navigation.ErrBoundary and leaves the session unchanged.
func (s *Session) Step(ctx context.Context, dir navigation.Direction) (Verse, error) {
	gen, from, err := s.BeginStep()
	if err != nil {
		return Verse{}, err
	}
	return s.ApplyStep(s.ResolveStep(ctx, gen, from, dir))
}

// SwitchVersion reads the open verse in v. On failure the session keeps its
// previous version.
func (s *Session) SwitchVersion(ctx context.Context, v bible.Version) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", bible.ErrUnknownVersion, int(v))
	}

	cur, ok := s.Current()
	if !ok {
		s.mu.Lock()
		s.version = v
		s.mu.Unlock()
		return nil
	}

	text, err := s.lookup.GetVerse(ctx, v, cur.Position.BookID, cur.Position.Chapter, cur.Position.Verse)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = v
	if s.current != nil && s.current.Position == cur.Position {
		s.current.Text = text
	}
	return nil
}

// SetCompared opens the comparison panel showing version v.
func (s *Session) SetCompared(ctx context.Context, v bible.Version) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", bible.ErrUnknownVersion, int(v))
	}

	s.mu.Lock()
	s.comparedVersion = v
	s.compareOpen = true
	var pos *types.VersePosition
	if s.current != nil {
		p := s.current.Position
		pos = &p
	}
	s.mu.Unlock()

	if pos == nil {
		return nil
	}
	text := s.fetchCompared(ctx, *pos)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.Position == *pos {
		s.comparedText = text
	}
	return nil
}

// ToggleCompare opens the comparison panel on the current version, or closes
// it when open.
func (s *Session) ToggleCompare(ctx context.Context) error {
	s.mu.Lock()
	if s.compareOpen {
		s.compareOpen = false
		s.mu.Unlock()
		return nil
	}
	v := s.version
	s.mu.Unlock()

	return s.SetCompared(ctx, v)
}

// CloseCompare closes the comparison panel.
func (s *Session) CloseCompare() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compareOpen = false
}

// fetchCompared loads pos in the compared version when the panel is open.
// A verse missing from that version yields an empty string.
func (s *Session) fetchCompared(ctx context.Context, pos types.VersePosition) string {
	s.mu.Lock()
	open, v := s.compareOpen, s.comparedVersion
	s.mu.Unlock()

	if !open {
		return ""
	}
	text, err := s.lookup.GetVerse(ctx, v, pos.BookID, pos.Chapter, pos.Verse)
	if err != nil {
		if !errors.Is(err, bible.ErrNotFound) {
			s.logger.Warn("failed to load compared verse", "version", v.String(), "position", pos.String(), "error", err)
		}
		return ""
	}
	return text
}

func (s *Session) setCurrentLocked(verse Verse, comparedText string) {
	s.current = &verse
	s.comparedText = comparedText
	s.addRecentLocked(verse)
}

func (s *Session) addRecentLocked(verse Verse) {
	recent := make([]Verse, 0, MaxRecent)
	recent = append(recent, verse)
	for _, r := range s.recent {
		if r.Position == verse.Position {
			continue
		}
		if len(recent) == MaxRecent {
			break
		}
		recent = append(recent, r)
	}
	s.recent = recent
}

// Recent returns recently opened verses, most recent first.
func (s *Session) Recent() []Verse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Verse, len(s.recent))
	copy(out, s.recent)
	return out
}

// SetPassage validates and stores the passage range. A nil range clears it.
func (s *Session) SetPassage(r *types.ScriptureRange) error {
	if r != nil {
		if err := bible.ValidateRange(*r); err != nil {
			return err
		}
		cp := *r
		r = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.passage = r
	return nil
}

// GotoPassage opens the first verse of the saved passage.
func (s *Session) GotoPassage(ctx context.Context) (Verse, error) {
	s.mu.Lock()
	passage := s.passage
	s.mu.Unlock()

	if passage == nil {
		return Verse{}, ErrNoPassage
	}
	return s.Open(ctx, passage.Start)
}
