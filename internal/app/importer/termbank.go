package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

// Positions inside a format 3 term bank row:
// [expression, reading, definitionTags, rules, score, glossary, sequence, termTags]
const (
	colExpression = iota
	colReading
	colDefinitionTags
	colRules
	colScore
	colGlossary
	colSequence
	colTermTags
	rowLength
)

// parseTermBank streams one term bank array. Rows that are not usable terms
// are counted and skipped; only malformed JSON fails the bank.
func parseTermBank(r io.Reader) ([]domain.Term, int, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, 0, fmt.Errorf("read bank: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, 0, errors.New("term bank is not a JSON array")
	}

	var (
		terms   []domain.Term
		skipped int
	)
	for dec.More() {
		var row []json.RawMessage
		if err := dec.Decode(&row); err != nil {
			return nil, 0, fmt.Errorf("row %d: %w", len(terms)+skipped, err)
		}
		t, ok := termFromRow(row)
		if !ok {
			skipped++
			continue
		}
		terms = append(terms, t)
	}

	if _, err := dec.Token(); err != nil {
		return nil, 0, fmt.Errorf("read bank end: %w", err)
	}
	return terms, skipped, nil
}

func termFromRow(row []json.RawMessage) (domain.Term, bool) {
	if len(row) < rowLength {
		return domain.Term{}, false
	}

	var t domain.Term
	var ok bool

	if t.Expression, ok = str(row[colExpression]); !ok {
		return domain.Term{}, false
	}
	if t.Reading, ok = str(row[colReading]); !ok {
		return domain.Term{}, false
	}
	t.Expression = domain.NormalizeText(t.Expression)
	t.Reading = domain.NormalizeText(t.Reading)
	if t.Expression == "" {
		return domain.Term{}, false
	}
	if t.Reading == t.Expression {
		t.Reading = ""
	}

	defTags, ok := str(row[colDefinitionTags])
	if !ok {
		return domain.Term{}, false
	}
	t.DefinitionTags = tagList(defTags)

	if t.Rules, ok = str(row[colRules]); !ok {
		return domain.Term{}, false
	}
	if t.Score, ok = integer(row[colScore]); !ok {
		return domain.Term{}, false
	}

	glossary := bytes.TrimSpace(row[colGlossary])
	if len(glossary) == 0 || glossary[0] != '[' {
		return domain.Term{}, false
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, glossary); err != nil {
		return domain.Term{}, false
	}
	t.Glossary = json.RawMessage(compact.Bytes())

	if t.Sequence, ok = integer(row[colSequence]); !ok {
		return domain.Term{}, false
	}

	termTags, ok := str(row[colTermTags])
	if !ok {
		return domain.Term{}, false
	}
	t.TermTags = tagList(termTags)

	return t, true
}

// str decodes a JSON string; null reads as "".
func str(raw json.RawMessage) (string, bool) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// integer decodes a JSON number, truncating any fraction.
func integer(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// tagList splits a space separated tag string; no tags is nil.
func tagList(s string) []string {
	tags := strings.Fields(s)
	if len(tags) == 0 {
		return nil
	}
	return tags
}
