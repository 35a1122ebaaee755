package deinflect

import "strings"

// maxInterposedObjectWords bounds the object of "<verb> <object> <particle>".
const maxInterposedObjectWords = 3

var phrasalParticles = wordSet(
	"aboard", "about", "above", "across", "ahead", "alongside", "apart",
	"around", "aside", "astray", "away", "back", "before", "behind", "below",
	"beneath", "besides", "between", "beyond", "by", "close", "down", "east",
	"west", "north", "south", "eastward", "westward", "northward",
	"southward", "forward", "backward", "backwards", "forwards", "home", "in",
	"inside", "instead", "near", "off", "on", "opposite", "out", "outside",
	"over", "overhead", "past", "round", "since", "through", "throughout",
	"together", "under", "underneath", "up", "within", "without",
)

var phrasalPrepositions = wordSet(
	"aback", "about", "above", "across", "after", "against", "ahead", "along",
	"among", "apart", "around", "as", "aside", "at", "away", "back", "before",
	"behind", "below", "between", "beyond", "down", "even", "for", "forth",
	"forward", "from", "in", "into", "of", "off", "on", "onto", "open", "out",
	"over", "past", "round", "through", "to", "together", "toward", "towards",
	"under", "up", "upon", "way", "with", "without",
)

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func isPhrasalWord(w string) bool {
	if _, ok := phrasalParticles[w]; ok {
		return true
	}
	_, ok := phrasalPrepositions[w]
	return ok
}

func isParticle(w string) bool {
	_, ok := phrasalParticles[w]
	return ok
}

// applyPhrasalSuffix rewrites the verb of "<verb> <particle|preposition> ...".
func applyPhrasalSuffix(r PhrasalSuffix, text string) (string, bool) {
	verb, rest, ok := strings.Cut(text, " ")
	if !ok || len(verb) <= len(r.Inflected) || !strings.HasSuffix(verb, r.Inflected) {
		return "", false
	}
	next, _, _ := strings.Cut(rest, " ")
	if !isPhrasalWord(next) {
		return "", false
	}
	return verb[:len(verb)-len(r.Inflected)] + r.Deinflected + " " + rest, true
}

// applyInterposedObject turns "<verb> <object...> <particle> ..." into
// "<verb> <particle> ...".
func applyInterposedObject(text string) (string, bool) {
	words := strings.Split(text, " ")
	if len(words) < 3 || words[0] == "" {
		return "", false
	}
	for j := 1; j < len(words) && j <= maxInterposedObjectWords+1; j++ {
		w := words[j]
		if w == "" {
			return "", false
		}
		if !isPhrasalWord(w) {
			continue
		}
		if j == 1 || !isParticle(w) {
			return "", false
		}
		return words[0] + " " + strings.Join(words[j:], " "), true
	}
	return "", false
}
