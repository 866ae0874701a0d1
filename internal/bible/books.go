// Package bible provides the canonical book table, supported versions and
// reference parsing.
package bible

import (
	"strings"
)

// Book is one of the 66 canonical books.
type Book struct {
	ID          int
	Name        string
	Abbr        string
	EnglishName string
	Chapters    int
}

// Canonical book id bounds.
const (
	FirstBookID = 1
	LastBookID  = 66
)

var books = []Book{
	// Old Testament
	{ID: 1, Name: "창세기", Abbr: "창", EnglishName: "Genesis", Chapters: 50},
	{ID: 2, Name: "출애굽기", Abbr: "출", EnglishName: "Exodus", Chapters: 40},
	{ID: 3, Name: "레위기", Abbr: "레", EnglishName: "Leviticus", Chapters: 27},
	{ID: 4, Name: "민수기", Abbr: "민", EnglishName: "Numbers", Chapters: 36},
	{ID: 5, Name: "신명기", Abbr: "신", EnglishName: "Deuteronomy", Chapters: 34},
	{ID: 6, Name: "여호수아", Abbr: "수", EnglishName: "Joshua", Chapters: 24},
	{ID: 7, Name: "사사기", Abbr: "삿", EnglishName: "Judges", Chapters: 21},
	{ID: 8, Name: "룻기", Abbr: "룻", EnglishName: "Ruth", Chapters: 4},
	{ID: 9, Name: "사무엘상", Abbr: "삼상", EnglishName: "1 Samuel", Chapters: 31},
	{ID: 10, Name: "사무엘하", Abbr: "삼하", EnglishName: "2 Samuel", Chapters: 24},
	{ID: 11, Name: "열왕기상", Abbr: "왕상", EnglishName: "1 Kings", Chapters: 22},
	{ID: 12, Name: "열왕기하", Abbr: "왕하", EnglishName: "2 Kings", Chapters: 25},
	{ID: 13, Name: "역대상", Abbr: "대상", EnglishName: "1 Chronicles", Chapters: 29},
	{ID: 14, Name: "역대하", Abbr: "대하", EnglishName: "2 Chronicles", Chapters: 36},
	{ID: 15, Name: "에스라", Abbr: "스", EnglishName: "Ezra", Chapters: 10},
	{ID: 16, Name: "느헤미야", Abbr: "느", EnglishName: "Nehemiah", Chapters: 13},
	{ID: 17, Name: "에스더", Abbr: "에", EnglishName: "Esther", Chapters: 10},
	{ID: 18, Name: "욥기", Abbr: "욥", EnglishName: "Job", Chapters: 42},
	{ID: 19, Name: "시편", Abbr: "시", EnglishName: "Psalms", Chapters: 150},
	{ID: 20, Name: "잠언", Abbr: "잠", EnglishName: "Proverbs", Chapters: 31},
	{ID: 21, Name: "전도서", Abbr: "전", EnglishName: "Ecclesiastes", Chapters: 12},
	{ID: 22, Name: "아가", Abbr: "아", EnglishName: "Song of Solomon", Chapters: 8},
	{ID: 23, Name: "이사야", Abbr: "사", EnglishName: "Isaiah", Chapters: 66},
	{ID: 24, Name: "예레미야", Abbr: "렘", EnglishName: "Jeremiah", Chapters: 52},
	{ID: 25, Name: "예레미야애가", Abbr: "애", EnglishName: "Lamentations", Chapters: 5},
	{ID: 26, Name: "에스겔", Abbr: "겔", EnglishName: "Ezekiel", Chapters: 48},
	{ID: 27, Name: "다니엘", Abbr: "단", EnglishName: "Daniel", Chapters: 12},
	{ID: 28, Name: "호세아", Abbr: "호", EnglishName: "Hosea", Chapters: 14},
	{ID: 29, Name: "요엘", Abbr: "욜", EnglishName: "Joel", Chapters: 3},
	{ID: 30, Name: "아모스", Abbr: "암", EnglishName: "Amos", Chapters: 9},
	{ID: 31, Name: "오바댜", Abbr: "옵", EnglishName: "Obadiah", Chapters: 1},
	{ID: 32, Name: "요나", Abbr: "욘", EnglishName: "Jonah", Chapters: 4},
	{ID: 33, Name: "미가", Abbr: "미", EnglishName: "Micah", Chapters: 7},
	{ID: 34, Name: "나훔", Abbr: "나", EnglishName: "Nahum", Chapters: 3},
	{ID: 35, Name: "하박국", Abbr: "합", EnglishName: "Habakkuk", Chapters: 3},
	{ID: 36, Name: "스바냐", Abbr: "습", EnglishName: "Zephaniah", Chapters: 3},
	{ID: 37, Name: "학개", Abbr: "학", EnglishName: "Haggai", Chapters: 2},
	{ID: 38, Name: "스가랴", Abbr: "슥", EnglishName: "Zechariah", Chapters: 14},
	{ID: 39, Name: "말라기", Abbr: "말", EnglishName: "Malachi", Chapters: 4},

	// New Testament
	{ID: 40, Name: "마태복음", Abbr: "마", EnglishName: "Matthew", Chapters: 28},
	{ID: 41, Name: "마가복음", Abbr: "막", EnglishName: "Mark", Chapters: 16},
	{ID: 42, Name: "누가복음", Abbr: "눅", EnglishName: "Luke", Chapters: 24},
	{ID: 43, Name: "요한복음", Abbr: "요", EnglishName: "John", Chapters: 21},
	{ID: 44, Name: "사도행전", Abbr: "행", EnglishName: "Acts", Chapters: 28},
	{ID: 45, Name: "로마서", Abbr: "롬", EnglishName: "Romans", Chapters: 16},
	{ID: 46, Name: "고린도전서", Abbr: "고전", EnglishName: "1 Corinthians", Chapters: 16},
	{ID: 47, Name: "고린도후서", Abbr: "고후", EnglishName: "2 Corinthians", Chapters: 13},
	{ID: 48, Name: "갈라디아서", Abbr: "갈", EnglishName: "Galatians", Chapters: 6},
	{ID: 49, Name: "에베소서", Abbr: "엡", EnglishName: "Ephesians", Chapters: 6},
	{ID: 50, Name: "빌립보서", Abbr: "빌", EnglishName: "Philippians", Chapters: 4},
	{ID: 51, Name: "골로새서", Abbr: "골", EnglishName: "Colossians", Chapters: 4},
	{ID: 52, Name: "데살로니가전서", Abbr: "살전", EnglishName: "1 Thessalonians", Chapters: 5},
	{ID: 53, Name: "데살로니가후서", Abbr: "살후", EnglishName: "2 Thessalonians", Chapters: 3},
	{ID: 54, Name: "디모데전서", Abbr: "딤전", EnglishName: "1 Timothy", Chapters: 6},
	{ID: 55, Name: "디모데후서", Abbr: "딤후", EnglishName: "2 Timothy", Chapters: 4},
	{ID: 56, Name: "디도서", Abbr: "딛", EnglishName: "Titus", Chapters: 3},
	{ID: 57, Name: "빌레몬서", Abbr: "몬", EnglishName: "Philemon", Chapters: 1},
	{ID: 58, Name: "히브리서", Abbr: "히", EnglishName: "Hebrews", Chapters: 13},
	{ID: 59, Name: "야고보서", Abbr: "약", EnglishName: "James", Chapters: 5},
	{ID: 60, Name: "베드로전서", Abbr: "벧전", EnglishName: "1 Peter", Chapters: 5},
	{ID: 61, Name: "베드로후서", Abbr: "벧후", EnglishName: "2 Peter", Chapters: 3},
	{ID: 62, Name: "요한일서", Abbr: "요일", EnglishName: "1 John", Chapters: 5},
	{ID: 63, Name: "요한이서", Abbr: "요이", EnglishName: "2 John", Chapters: 1},
	{ID: 64, Name: "요한삼서", Abbr: "요삼", EnglishName: "3 John", Chapters: 1},
	{ID: 65, Name: "유다서", Abbr: "유", EnglishName: "Jude", Chapters: 1},
	{ID: 66, Name: "요한계시록", Abbr: "계", EnglishName: "Revelation", Chapters: 22},
}

// Books returns the canonical book table. The returned slice must not be modified.
func Books() []Book {
	return books
}

// BookByID returns the book with the given canonical id.
func BookByID(id int) (Book, bool) {
	if id < FirstBookID || id > LastBookID {
		return Book{}, false
	}
	return books[id-1], true
}

// NextBook returns the book following id in canonical order.
func NextBook(id int) (Book, bool) {
	return BookByID(id + 1)
}

// PrevBook returns the book preceding id in canonical order.
func PrevBook(id int) (Book, bool) {
	return BookByID(id - 1)
}

// FindBook looks a book up by Korean name, abbreviation or English name.
// Input typed on an English keyboard layout is retried as Hangul.
func FindBook(query string) (Book, bool) {
	normalized := strings.TrimSpace(query)
	if normalized == "" {
		return Book{}, false
	}

	if book, ok := matchBook(normalized); ok {
		return book, true
	}

	if converted := EngToKor(normalized); converted != normalized {
		return matchBook(converted)
	}
	return Book{}, false
}

// FindBookByAbbr looks a book up by its abbreviation only.
func FindBookByAbbr(abbr string) (Book, bool) {
	abbr = strings.TrimSpace(abbr)
	for _, b := range books {
		if b.Abbr == abbr {
			return b, true
		}
	}
	if converted := EngToKor(abbr); converted != abbr {
		for _, b := range books {
			if b.Abbr == converted {
				return b, true
			}
		}
	}
	return Book{}, false
}

func matchBook(q string) (Book, bool) {
	for _, b := range books {
		if b.Name == q || b.Abbr == q || strings.EqualFold(b.EnglishName, q) {
			return b, true
		}
	}
	return Book{}, false
}
