package bible

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/azyu/bibleview/pkg/types"
)

var referencePattern = regexp.MustCompile(`^(.+?)\s*(\d+)(?:\s*[:.\s]\s*(\d+))?$`)

// ParseReference parses references such as "요 3:16", "요한복음 3 16" or
// "John 3:16". A missing verse defaults to 1.
func ParseReference(ref string) (types.VersePosition, error) {
	m := referencePattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return types.VersePosition{}, &ValidationError{Field: "reference", Message: fmt.Sprintf("구절 형식을 알 수 없습니다: %q", ref)}
	}

	book, ok := FindBook(m[1])
	if !ok {
		return types.VersePosition{}, &ValidationError{Field: "book", Message: fmt.Sprintf("알 수 없는 책입니다: %q", m[1])}
	}

	chapter, _ := strconv.Atoi(m[2])
	verse := 1
	if m[3] != "" {
		verse, _ = strconv.Atoi(m[3])
	}

	pos := types.VersePosition{BookID: book.ID, Chapter: chapter, Verse: verse}
	if err := CheckPosition(pos); err != nil {
		return types.VersePosition{}, err
	}
	return pos, nil
}

// CheckPosition validates a position against the book table without touching
// any data source.
func CheckPosition(pos types.VersePosition) error {
	book, ok := BookByID(pos.BookID)
	if !ok {
		return &ValidationError{Field: "book", Message: fmt.Sprintf("알 수 없는 책 번호입니다: %d", pos.BookID)}
	}
	if pos.Chapter < 1 {
		return &ValidationError{Field: "chapter", Message: "장은 1 이상이어야 합니다"}
	}
	if pos.Chapter > book.Chapters {
		return &ValidationError{Field: "chapter", Message: fmt.Sprintf("%s은(는) %d장까지 있습니다", book.Name, book.Chapters)}
	}
	if pos.Verse < 1 {
		return &ValidationError{Field: "verse", Message: "절은 1 이상이어야 합니다"}
	}
	return nil
}

// FormatReference renders a position as "요한복음 3:16".
func FormatReference(pos types.VersePosition) string {
	book, ok := BookByID(pos.BookID)
	if !ok {
		return fmt.Sprintf("Book %d %d:%d", pos.BookID, pos.Chapter, pos.Verse)
	}
	return fmt.Sprintf("%s %d:%d", book.Name, pos.Chapter, pos.Verse)
}

// ValidateRange checks a scripture range before it is persisted. All problems
// are reported per field.
func ValidateRange(r types.ScriptureRange) error {
	var errs RangeErrors
	errs = appendPositionErrors(errs, "start", r.Start)
	errs = appendPositionErrors(errs, "end", r.End)

	if len(errs) == 0 && r.End.Ordinal() < r.Start.Ordinal() {
		errs = append(errs, &ValidationError{
			Field:   "end",
			Message: "끝 구절이 시작 구절보다 앞설 수 없습니다",
			Err:     ErrRangeInvalid,
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func appendPositionErrors(errs RangeErrors, prefix string, pos types.VersePosition) RangeErrors {
	book, ok := BookByID(pos.BookID)
	if !ok {
		return append(errs, &ValidationError{Field: prefix + ".book", Message: "알 수 없는 책입니다", Err: ErrRangeInvalid})
	}
	if pos.Chapter < 1 {
		errs = append(errs, &ValidationError{Field: prefix + ".chapter", Message: "장은 1 이상이어야 합니다", Err: ErrRangeInvalid})
	} else if pos.Chapter > book.Chapters {
		errs = append(errs, &ValidationError{
			Field:   prefix + ".chapter",
			Message: fmt.Sprintf("%s은(는) %d장까지 있습니다", book.Name, book.Chapters),
			Err:     ErrRangeInvalid,
		})
	}
	if pos.Verse < 1 {
		errs = append(errs, &ValidationError{Field: prefix + ".verse", Message: "절은 1 이상이어야 합니다", Err: ErrRangeInvalid})
	}
	return errs
}

// MaxVerseLookup reports the last verse number of a chapter, 0 when absent.
type MaxVerseLookup interface {
	GetMaxVerse(ctx context.Context, version Version, bookID, chapter int) (int, error)
}

// ValidateVerseMax checks that pos.Verse exists in its chapter for version.
// It returns the chapter's last verse number alongside the verdict.
func ValidateVerseMax(ctx context.Context, lookup MaxVerseLookup, version Version, pos types.VersePosition) (bool, int, error) {
	if _, ok := BookByID(pos.BookID); !ok {
		return false, 0, nil
	}
	maxVerse, err := lookup.GetMaxVerse(ctx, version, pos.BookID, pos.Chapter)
	if err != nil {
		return false, 0, err
	}
	return pos.Verse <= maxVerse, maxVerse, nil
}

// ValidateRangeVerses checks that both ends of r exist in version. Verses past
// the end of their chapter are reported per field as RangeErrors.
func ValidateRangeVerses(ctx context.Context, lookup MaxVerseLookup, version Version, r types.ScriptureRange) error {
	var errs RangeErrors
	for _, end := range []struct {
		field string
		pos   types.VersePosition
	}{{"start", r.Start}, {"end", r.End}} {
		ok, maxVerse, err := ValidateVerseMax(ctx, lookup, version, end.pos)
		if err != nil {
			return fmt.Errorf("failed to check %s verse: %w", end.field, err)
		}
		if ok {
			continue
		}

		book, _ := BookByID(end.pos.BookID)
		msg := fmt.Sprintf("%s %d장은 %d절까지 있습니다", book.Name, end.pos.Chapter, maxVerse)
		if maxVerse == 0 {
			msg = fmt.Sprintf("%s %d장은 %s에 없습니다", book.Name, end.pos.Chapter, version)
		}
		errs = append(errs, &ValidationError{Field: end.field + ".verse", Message: msg, Err: ErrRangeInvalid})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
