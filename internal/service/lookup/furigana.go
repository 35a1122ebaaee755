package lookup

import "github.com/heartmarshall/yomitan-backend/internal/domain"

// Furigana aligns reading against headword by stripping the longest common
// prefix and suffix; what is left of the headword gets the rest of the
// reading as ruby.
//
//	Furigana("食べる", "たべる") = [{食 た} {べる }]
func Furigana(headword, reading string) []domain.FuriganaSegment {
	if reading == "" || headword == reading {
		return []domain.FuriganaSegment{{Text: headword}}
	}

	h, r := []rune(headword), []rune(reading)
	hStart, hEnd := 0, len(h)
	rStart, rEnd := 0, len(r)

	for hStart < hEnd && rStart < rEnd && h[hStart] == r[rStart] {
		hStart++
		rStart++
	}
	for hEnd > hStart && rEnd > rStart && h[hEnd-1] == r[rEnd-1] {
		hEnd--
		rEnd--
	}

	var segs []domain.FuriganaSegment
	if hStart > 0 {
		segs = append(segs, domain.FuriganaSegment{Text: string(h[:hStart])})
	}
	if hStart < hEnd {
		segs = append(segs, domain.FuriganaSegment{Text: string(h[hStart:hEnd]), Ruby: string(r[rStart:rEnd])})
	}
	if hEnd < len(h) {
		segs = append(segs, domain.FuriganaSegment{Text: string(h[hEnd:])})
	}
	return segs
}
