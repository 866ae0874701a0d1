package bible

import (
	"fmt"
	"strings"
	"unicode"
)

// Version is a supported Bible translation. Each version has its own verse table.
type Version int

const (
	VersionUnknown Version = iota
	KoreanRevised          // 개역한글
	RevisedNewKorean       // 개역개정
	NewKoreanStandard      // 새번역
	EasyBible              // 쉬운성경
	KoreanKingJames        // 한글킹
	ModernKorean           // 현대인
	KingJamesKorean        // 킹흠정역
	ContemporaryKorean     // 현대어
	EasyWords              // 쉬운말
	WooriMal               // 우리말
	NIV2011
	NIV1984
	NKJV
	BareunBible // 바른성경
	Vietnamese  // 베트남
	Vietnamese2 // 베트남2
)

// DefaultVersion is the version opened on a fresh install.
const DefaultVersion = KoreanRevised

type versionInfo struct {
	name string
	key  rune
}

var versionTable = map[Version]versionInfo{
	KoreanRevised:      {name: "개역한글", key: 'r'},
	RevisedNewKorean:   {name: "개역개정", key: 'w'},
	NewKoreanStandard:  {name: "새번역", key: 's'},
	EasyBible:          {name: "쉬운성경", key: 'e'},
	KoreanKingJames:    {name: "한글킹", key: 'z'},
	ModernKorean:       {name: "현대인", key: 'g'},
	KingJamesKorean:    {name: "킹흠정역", key: 'x'},
	ContemporaryKorean: {name: "현대어", key: 'f'},
	EasyWords:          {name: "쉬운말", key: 'q'},
	WooriMal:           {name: "우리말", key: 'a'},
	NIV2011:            {name: "NIV2011", key: 'n'},
	NIV1984:            {name: "NIV1984", key: 'm'},
	NKJV:               {name: "NKJV", key: 'k'},
	BareunBible:        {name: "바른성경", key: 'c'},
	Vietnamese:         {name: "베트남", key: 'v'},
	Vietnamese2:        {name: "베트남2", key: 'b'},
}

// Versions returns every supported version in declaration order.
func Versions() []Version {
	out := make([]Version, 0, len(versionTable))
	for v := KoreanRevised; v <= Vietnamese2; v++ {
		out = append(out, v)
	}
	return out
}

// String returns the version's display name, which is also its database file stem.
func (v Version) String() string {
	if info, ok := versionTable[v]; ok {
		return info.name
	}
	return fmt.Sprintf("Version(%d)", int(v))
}

// Key returns the shortcut letter bound to the version.
func (v Version) Key() rune {
	return versionTable[v].key
}

// Valid reports whether v is a supported version.
func (v Version) Valid() bool {
	_, ok := versionTable[v]
	return ok
}

// ParseVersion resolves a version by display name (case-insensitive for Latin names).
func ParseVersion(name string) (Version, error) {
	name = strings.TrimSpace(name)
	for v, info := range versionTable {
		if info.name == name || strings.EqualFold(info.name, name) {
			return v, nil
		}
	}
	return VersionUnknown, fmt.Errorf("%w: %q", ErrUnknownVersion, name)
}

// VersionForKey returns the version bound to a shortcut letter.
func VersionForKey(key rune) (Version, bool) {
	key = unicode.ToLower(key)
	for v, info := range versionTable {
		if info.key == key {
			return v, true
		}
	}
	return VersionUnknown, false
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVersion, int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
