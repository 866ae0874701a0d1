// Package storagetest builds small verse databases for tests.
package storagetest

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/azyu/bibleview/internal/bible"
	"github.com/azyu/bibleview/internal/storage"
	"github.com/azyu/bibleview/pkg/types"
)

// Chapter lengths present in the corpus, keyed by {book, chapter}.
var ChapterLengths = map[[2]int]int{
	{1, 1}:   31, // 창세기 1
	{39, 4}:  6,  // 말라기 4
	{40, 1}:  25, // 마태복음 1
	{43, 3}:  36, // 요한복음 3
	{43, 4}:  54, // 요한복음 4
	{43, 20}: 31, // 요한복음 20
	{43, 21}: 25, // 요한복음 21
	{44, 1}:  26, // 사도행전 1
	{62, 4}:  21, // 요한일서 4
	{66, 22}: 21, // 요한계시록 22
}

var special = map[[3]int]string{
	{1, 1, 1}:    "태초에 하나님이 천지를 창조하시니라",
	{43, 3, 1}:   "그런데 바리새인 중에 니고데모라 하는 사람이 있으니<sup>1)</sup> 유대인의 관원이라<br/>",
	{43, 3, 16}:  "하나님이 세상을 이처럼 사랑하사 독생자를 주셨으니 이는 저를 믿는 자마다 멸망치 않고 영생을 얻게 하려 하심이니라",
	{43, 3, 17}:  "하나님이 그 아들을 세상에 보내신 것은 세상을 심판하려 하심이 아니요",
	{43, 3, 35}:  "아버지께서 아들을 사랑하사 만물을 다 그 손에 주셨으니",
	{62, 4, 8}:   "사랑하지 아니하는 자는 하나님을 알지 못하나니 이는 하나님은 사랑이심이라",
	{62, 4, 16}:  "하나님이 우리를 사랑하시는 사랑을 우리가 알고 믿었노니 하나님은 사랑이시라",
	{66, 22, 21}: "주 예수의 은혜가 모든 자들에게 있을지어다 아멘",
}

// Corpus returns the verse records of the test version in canonical order.
func Corpus() []types.VerseRecord {
	var keys [][2]int
	for k := range ChapterLengths {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})

	var records []types.VerseRecord
	for _, k := range keys {
		book, _ := bible.BookByID(k[0])
		for v := 1; v <= ChapterLengths[k]; v++ {
			text, ok := special[[3]int{k[0], k[1], v}]
			if !ok {
				text = fmt.Sprintf("%s %d장 %d절 본문", book.Name, k[1], v)
			}
			records = append(records, types.VerseRecord{Book: k[0], Chapter: k[1], Verse: v, Text: text})
		}
	}
	return records
}

// CompareText is the 요한복음 3:16 text of the second installed version.
const CompareText = "하나님이 세상을 이처럼 사랑하셔서 외아들을 주셨으니"

// NewStore returns a store over a temp data dir with 개역한글 holding Corpus
// and 새번역 holding a single verse. The store is closed when the test ends.
func NewStore(t testing.TB) *storage.VerseStore {
	t.Helper()

	store := storage.NewVerseStore(t.TempDir(), nil)
	t.Cleanup(func() { store.Close() })

	Import(t, store, bible.KoreanRevised, Corpus())
	Import(t, store, bible.NewKoreanStandard, []types.VerseRecord{
		{Book: 43, Chapter: 3, Verse: 16, Text: CompareText},
	})
	return store
}

// Import writes records as the database for version v.
func Import(t testing.TB, store *storage.VerseStore, v bible.Version, records []types.VerseRecord) {
	t.Helper()

	_, err := store.ImportVersion(context.Background(), v, records)
	require.NoError(t, err, "failed to import %s", v)
}
