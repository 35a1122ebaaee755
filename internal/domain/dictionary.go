package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Dictionary is one imported term dictionary.
type Dictionary struct {
	ID        uuid.UUID
	Title     string
	Revision  string
	Language  string
	TermCount int
	CreatedAt time.Time
}

// Term is a single dictionary row. Glossary holds the raw definition content
// as stored by the source dictionary.
type Term struct {
	ID             int64
	DictionaryID   uuid.UUID
	Expression     string
	Reading        string
	DefinitionTags []string
	Rules          string
	Score          int
	Glossary       json.RawMessage
	Sequence       int
	TermTags       []string
}

// Headword returns the expression, or the reading when the expression is
// empty.
func (t Term) Headword() string {
	if t.Expression != "" {
		return t.Expression
	}
	return t.Reading
}
