package storage

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/pkg/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS Bible (
	book    INTEGER NOT NULL,
	chapter INTEGER NOT NULL,
	verse   INTEGER NOT NULL,
	btext   TEXT    NOT NULL,
	PRIMARY KEY (book, chapter, verse)
);
`

// ImportVersion builds the database for a version from records, replacing any
// existing file. The database is written to a temp file in one transaction and
// renamed into place, so open readers are never handed a partial table.
func (s *VerseStore) ImportVersion(ctx context.Context, v bible.Version, records []types.VerseRecord) (int, error) {
	if !v.Valid() {
		return 0, fmt.Errorf("%w: %d", bible.ErrUnknownVersion, int(v))
	}
	for i, rec := range records {
		if err := bible.CheckPosition(rec.Position()); err != nil {
			return 0, fmt.Errorf("record %d: %w", i+1, err)
		}
	}

	target := s.Path(v)
	tmp, err := createTemp(target)
	if err != nil {
		return 0, err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	n, err := writeVersionDB(ctx, tmpPath, records)
	if err != nil {
		os.Remove(tmpPath)
		return 0, err
	}

	s.forget(v)
	if err := replaceFile(tmpPath, target); err != nil {
		return 0, err
	}

	s.logger.Info("imported version", "version", v.String(), "verses", n)
	return n, nil
}

func writeVersionDB(ctx context.Context, path string, records []types.VerseRecord) (int, error) {
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return 0, fmt.Errorf("failed to create database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return 0, fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx,
		"INSERT OR REPLACE INTO Bible (book, chapter, verse, btext) VALUES (:book, :chapter, :verse, :text)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec); err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", rec.Position(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit import: %w", err)
	}
	return len(records), nil
}

// ReadTSV parses tab-separated "book chapter verse text" lines. Blank lines
// and lines starting with '#' are skipped. Quotes in the text are kept as is.
func ReadTSV(r io.Reader) ([]types.VerseRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var records []types.VerseRecord
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		fields := strings.SplitN(raw, "\t", 4)
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: expected 4 tab-separated fields, got %d", line, len(fields))
		}

		var nums [3]int
		for i := range nums {
			n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid number %q", line, fields[i])
			}
			nums[i] = n
		}

		records = append(records, types.VerseRecord{
			Book:    nums[0],
			Chapter: nums[1],
			Verse:   nums[2],
			Text:    fields[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tsv: %w", err)
	}
	return records, nil
}
