package korean

import "strings"

const (
	syllableBase  = 0xAC00
	syllableLast  = 0xD7A3
	jungCount     = 21
	jongCount     = 28
	syllableBlock = jungCount * jongCount
)

var (
	choLetters  = []rune("ㄱㄲㄴㄷㄸㄹㅁㅂㅃㅅㅆㅇㅈㅉㅊㅋㅌㅍㅎ")
	jungLetters = []rune("ㅏㅐㅑㅒㅓㅔㅕㅖㅗㅘㅙㅚㅛㅜㅝㅞㅟㅠㅡㅢㅣ")
	// index 0 is "no trailing consonant"
	jongLetters = []rune("\x00ㄱㄲㄳㄴㄵㄶㄷㄹㄺㄻㄼㄽㄾㄿㅀㅁㅂㅄㅅㅆㅇㅈㅊㅋㅌㅍㅎ")
)

var compoundJung = map[rune][2]rune{
	'ㅘ': {'ㅗ', 'ㅏ'},
	'ㅙ': {'ㅗ', 'ㅐ'},
	'ㅚ': {'ㅗ', 'ㅣ'},
	'ㅝ': {'ㅜ', 'ㅓ'},
	'ㅞ': {'ㅜ', 'ㅔ'},
	'ㅟ': {'ㅜ', 'ㅣ'},
	'ㅢ': {'ㅡ', 'ㅣ'},
}

var compoundJong = map[rune][2]rune{
	'ㄳ': {'ㄱ', 'ㅅ'},
	'ㄵ': {'ㄴ', 'ㅈ'},
	'ㄶ': {'ㄴ', 'ㅎ'},
	'ㄺ': {'ㄹ', 'ㄱ'},
	'ㄻ': {'ㄹ', 'ㅁ'},
	'ㄼ': {'ㄹ', 'ㅂ'},
	'ㄽ': {'ㄹ', 'ㅅ'},
	'ㄾ': {'ㄹ', 'ㅌ'},
	'ㄿ': {'ㄹ', 'ㅍ'},
	'ㅀ': {'ㄹ', 'ㅎ'},
	'ㅄ': {'ㅂ', 'ㅅ'},
}

// Reverse tables, filled in init.
var (
	choIndex  = map[rune]int{}
	jungIndex = map[rune]int{}
	jongIndex = map[rune]int{}
	jungPairs = map[[2]rune]rune{}
	jongPairs = map[[2]rune]rune{}
)

func init() {
	for i, r := range choLetters {
		choIndex[r] = i
	}
	for i, r := range jungLetters {
		jungIndex[r] = i
	}
	for i, r := range jongLetters[1:] {
		jongIndex[r] = i + 1
	}
	for c, pair := range compoundJung {
		jungPairs[pair] = c
	}
	for c, pair := range compoundJong {
		jongPairs[pair] = c
	}
}

func isCho(r rune) bool {
	_, ok := choIndex[r]
	return ok
}

func isJung(r rune) bool {
	_, ok := jungIndex[r]
	return ok
}

func isJong(r rune) bool {
	_, ok := jongIndex[r]
	return ok
}

// Disassemble splits every precomposed Hangul syllable into compatibility
// jamo. Compound vowels and compound trailing consonants become two letters.
// Everything else is copied unchanged.
func Disassemble(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)

	for _, r := range s {
		if r < syllableBase || r > syllableLast {
			b.WriteRune(r)
			continue
		}

		idx := int(r - syllableBase)
		cho := idx / syllableBlock
		jung := (idx / jongCount) % jungCount
		jong := idx % jongCount

		b.WriteRune(choLetters[cho])
		writeSplit(&b, jungLetters[jung], compoundJung)
		if jong > 0 {
			writeSplit(&b, jongLetters[jong], compoundJong)
		}
	}

	return b.String()
}

func writeSplit(b *strings.Builder, r rune, compounds map[rune][2]rune) {
	if pair, ok := compounds[r]; ok {
		b.WriteRune(pair[0])
		b.WriteRune(pair[1])
		return
	}
	b.WriteRune(r)
}

// Reassemble joins a jamo stream back into syllables. A consonant that could
// close the current syllable is left to open the next one when a vowel
// follows it. Letters that cannot start a syllable are copied unchanged.
func Reassemble(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	at := func(i int) rune {
		if i < len(rs) {
			return rs[i]
		}
		return 0
	}

	for i := 0; i < len(rs); {
		if !isCho(rs[i]) || !isJung(at(i+1)) {
			b.WriteRune(rs[i])
			i++
			continue
		}

		cho := choIndex[rs[i]]
		vowel := rs[i+1]
		consumed := 2
		if c, ok := jungPairs[[2]rune{vowel, at(i + 2)}]; ok {
			vowel = c
			consumed = 3
		}

		jong := 0
		if c3 := at(i + consumed); isJong(c3) {
			final, n := c3, 1
			if c, ok := jongPairs[[2]rune{c3, at(i + consumed + 1)}]; ok && !isJung(at(i+consumed+2)) {
				final, n = c, 2
			}
			if !isJung(at(i + consumed + n)) {
				jong = jongIndex[final]
				consumed += n
			}
		}

		b.WriteRune(rune(syllableBase + cho*syllableBlock + jungIndex[vowel]*jongCount + jong))
		i += consumed
	}

	return b.String()
}
