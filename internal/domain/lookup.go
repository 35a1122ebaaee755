package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// LookupResult groups every definition found for one (headword, reading).
type LookupResult struct {
	Headword    string
	Reading     string
	Furigana    []FuriganaSegment
	Definitions []Definition
	Forms       []Form
	// MatchedText is the prefix of the selected text that led to this entry.
	MatchedText string
	// Inflections names the transforms that turn the headword back into
	// MatchedText, outermost first. Empty for an exact match.
	Inflections []string
}

// Definition is one dictionary's content for a LookupResult.
type Definition struct {
	DictionaryID    uuid.UUID
	DictionaryTitle string
	Tags            []string
	Content         json.RawMessage
}

// Form is a written form/reading pair attached to a result.
type Form struct {
	Headword string
	Reading  string
}

// FuriganaSegment is a run of headword text with its ruby. Ruby is empty
// where the headword is already phonetic.
type FuriganaSegment struct {
	Text string
	Ruby string
}
