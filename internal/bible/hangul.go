package bible

import (
	"slices"
	"strings"
)

// engToJamo maps QWERTY keys to the jamo on the same key of a 2-beolsik layout.
var engToJamo = map[rune]rune{
	// consonants
	'q': 'ㅂ', 'w': 'ㅈ', 'e': 'ㄷ', 'r': 'ㄱ', 't': 'ㅅ',
	'a': 'ㅁ', 's': 'ㄴ', 'd': 'ㅇ', 'f': 'ㄹ', 'g': 'ㅎ',
	'z': 'ㅋ', 'x': 'ㅌ', 'c': 'ㅊ', 'v': 'ㅍ',
	// vowels
	'y': 'ㅛ', 'u': 'ㅕ', 'i': 'ㅑ', 'o': 'ㅐ', 'p': 'ㅔ',
	'h': 'ㅗ', 'j': 'ㅓ', 'k': 'ㅏ', 'l': 'ㅣ', 'b': 'ㅠ',
	'n': 'ㅜ', 'm': 'ㅡ',
	// shifted
	'Q': 'ㅃ', 'W': 'ㅉ', 'E': 'ㄸ', 'R': 'ㄲ', 'T': 'ㅆ',
	'O': 'ㅒ', 'P': 'ㅖ',
}

var (
	choseong  = []rune("ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ")
	jungseong = []rune("ㅏㅐㅑㅒㅓㅔㅕㅖㅗㅘㅙㅚㅛㅜㅝㅞㅟㅠㅡㅢㅣ")
	// index 0 means no final consonant
	jongseong = append([]rune{0}, []rune("ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ")...)
)

var doubleVowel = map[[2]rune]rune{
	{'ㅗ', 'ㅏ'}: 'ㅘ',
	{'ㅗ', 'ㅐ'}: 'ㅙ',
	{'ㅗ', 'ㅣ'}: 'ㅚ',
	{'ㅜ', 'ㅓ'}: 'ㅝ',
	{'ㅜ', 'ㅔ'}: 'ㅞ',
	{'ㅜ', 'ㅣ'}: 'ㅟ',
	{'ㅡ', 'ㅣ'}: 'ㅢ',
}

var doubleFinal = map[[2]rune]rune{
	{'ㄱ', 'ㅅ'}: 'ㄳ',
	{'ㄴ', 'ㅈ'}: 'ㄵ',
	{'ㄴ', 'ㅎ'}: 'ㄶ',
	{'ㄹ', 'ㄱ'}: 'ㄺ',
	{'ㄹ', 'ㅁ'}: 'ㄻ',
	{'ㄹ', 'ㅂ'}: 'ㄼ',
	{'ㄹ', 'ㅅ'}: 'ㄽ',
	{'ㄹ', 'ㅌ'}: 'ㄾ',
	{'ㄹ', 'ㅍ'}: 'ㄿ',
	{'ㄹ', 'ㅎ'}: 'ㅀ',
	{'ㅂ', 'ㅅ'}: 'ㅄ',
}

func isJamo(r rune) bool { return r >= 0x3131 && r <= 0x3163 }

func isConsonant(r rune) bool {
	return slices.Contains(choseong, r) || r == 'ㄳ' || r == 'ㄵ' || r == 'ㄶ'
}

func isVowel(r rune) bool { return slices.Contains(jungseong, r) }

func canBeInitial(r rune) bool { return slices.Contains(choseong, r) }

func canBeFinal(r rune) bool { return r != 0 && slices.Contains(jongseong, r) }

func composeSyllable(cho, jung, jong rune) rune {
	ci := slices.Index(choseong, cho)
	ji := slices.Index(jungseong, jung)
	fi := 0
	if jong != 0 {
		fi = max(slices.Index(jongseong, jong), 0)
	}
	return rune(0xAC00 + ci*21*28 + ji*28 + fi)
}

// EngToKor converts text typed on an English layout into the Hangul the same
// keystrokes produce on a 2-beolsik layout. Input without Latin letters is
// returned unchanged.
func EngToKor(input string) string {
	if !strings.ContainsFunc(input, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) {
		return input
	}

	jamos := make([]rune, 0, len(input))
	for _, r := range input {
		if j, ok := engToJamo[r]; ok {
			jamos = append(jamos, j)
		} else {
			jamos = append(jamos, r)
		}
	}

	at := func(i int) rune {
		if i < len(jamos) {
			return jamos[i]
		}
		return 0
	}

	var sb strings.Builder
	for i := 0; i < len(jamos); {
		cur := jamos[i]
		if !isJamo(cur) || !isConsonant(cur) || !canBeInitial(cur) || !isVowel(at(i+1)) {
			sb.WriteRune(cur)
			i++
			continue
		}

		jung, jungLen := at(i+1), 1
		if next := at(i + 2); isVowel(next) {
			if combined, ok := doubleVowel[[2]rune{jung, next}]; ok {
				jung, jungLen = combined, 2
			}
		}

		var jong rune
		jongLen := 0
		if fin := at(i + 1 + jungLen); fin != 0 && isConsonant(fin) && canBeFinal(fin) {
			after := at(i + 2 + jungLen)
			switch {
			case isVowel(after):
				// fin starts the next syllable
			case after != 0 && isConsonant(after):
				combined, ok := doubleFinal[[2]rune{fin, after}]
				if ok && canBeFinal(combined) && !isVowel(at(i+3+jungLen)) {
					jong, jongLen = combined, 2
				} else {
					jong, jongLen = fin, 1
				}
			default:
				jong, jongLen = fin, 1
			}
		}

		sb.WriteRune(composeSyllable(cur, jung, jong))
		i += 1 + jungLen + jongLen
	}
	return sb.String()
}
