// Package storage provides access to the per-version verse databases.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/pkg/types"
)

// FileExt is the extension of a version database file.
const FileExt = ".bdb"

// ErrVersionNotInstalled indicates the version's database file is missing.
var ErrVersionNotInstalled = errors.New("version database not installed")

// VerseStore serves verse lookups from read-only SQLite databases, one per
// version. A version's handle is opened on first use and kept until Close.
type VerseStore struct {
	dataDir string
	logger  *slog.Logger

	mu      sync.Mutex
	handles map[bible.Version]*sqlx.DB
}

// NewVerseStore creates a store reading <dataDir>/<version>.bdb files.
func NewVerseStore(dataDir string, logger *slog.Logger) *VerseStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &VerseStore{
		dataDir: dataDir,
		logger:  logger,
		handles: make(map[bible.Version]*sqlx.DB),
	}
}

// DataDir returns the directory holding the version databases.
func (s *VerseStore) DataDir() string {
	return s.dataDir
}

// Path returns the database file path for a version.
func (s *VerseStore) Path(v bible.Version) string {
	return filepath.Join(s.dataDir, v.String()+FileExt)
}

// DB returns the open handle for a version, opening it read-only on first use.
// Concurrent first calls for the same version open it once.
func (s *VerseStore) DB(ctx context.Context, v bible.Version) (*sqlx.DB, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", bible.ErrUnknownVersion, int(v))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.handles[v]; ok {
		return db, nil
	}

	path := s.Path(v)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrVersionNotInstalled, v)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	db, err := sqlx.Open(driverName, "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", v, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open %s: %w", v, err)
	}

	s.logger.Debug("opened version database", "version", v.String(), "path", path)
	s.handles[v] = db
	return db, nil
}

// GetVerse returns the raw text of a single verse.
func (s *VerseStore) GetVerse(ctx context.Context, v bible.Version, bookID, chapter, verse int) (string, error) {
	db, err := s.DB(ctx, v)
	if err != nil {
		return "", err
	}

	var text string
	err = db.GetContext(ctx, &text,
		"SELECT btext FROM Bible WHERE book = ? AND chapter = ? AND verse = ?",
		bookID, chapter, verse,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &bible.NotFoundError{
			Resource: "verse",
			ID:       fmt.Sprintf("%s %d/%d:%d", v, bookID, chapter, verse),
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to get verse: %w", err)
	}
	return text, nil
}

// GetChapter returns every verse of a chapter in ascending verse order. A
// chapter without rows yields an empty slice.
func (s *VerseStore) GetChapter(ctx context.Context, v bible.Version, bookID, chapter int) ([]types.ChapterVerse, error) {
	db, err := s.DB(ctx, v)
	if err != nil {
		return nil, err
	}

	verses := []types.ChapterVerse{}
	err = db.SelectContext(ctx, &verses,
		"SELECT verse, btext AS text FROM Bible WHERE book = ? AND chapter = ? ORDER BY verse",
		bookID, chapter,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}
	return verses, nil
}

// GetMaxVerse returns the highest verse number of a chapter, or 0 when the
// chapter has no rows.
func (s *VerseStore) GetMaxVerse(ctx context.Context, v bible.Version, bookID, chapter int) (int, error) {
	db, err := s.DB(ctx, v)
	if err != nil {
		return 0, err
	}

	var maxVerse sql.NullInt64
	err = db.GetContext(ctx, &maxVerse,
		"SELECT MAX(verse) FROM Bible WHERE book = ? AND chapter = ?",
		bookID, chapter,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to get max verse: %w", err)
	}
	return int(maxVerse.Int64), nil
}

// Versions lists the versions whose database file exists in the data dir.
func (s *VerseStore) Versions() ([]bible.Version, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	var installed []bible.Version
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExt) {
			continue
		}
		v, err := bible.ParseVersion(strings.TrimSuffix(e.Name(), FileExt))
		if err != nil {
			continue
		}
		installed = append(installed, v)
	}
	sort.Slice(installed, func(i, j int) bool { return installed[i] < installed[j] })
	return installed, nil
}

// forget closes and drops a cached handle so the next access reopens the file.
func (s *VerseStore) forget(v bible.Version) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if db, ok := s.handles[v]; ok {
		db.Close()
		delete(s.handles, v)
	}
}

// Close closes every open version handle.
func (s *VerseStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for v, db := range s.handles {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", v, err))
		}
		delete(s.handles, v)
	}
	return errors.Join(errs...)
}
