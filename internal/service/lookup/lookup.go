package lookup

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"unicode"

	"github.com/google/uuid"

	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
	"github.com/heartmarshall/yomitan-backend/internal/domain"
)

const unknownDictionary = "Unknown"

// source records where a lookup key came from.
type source struct {
	prefix string
	runes  int
	trace  []string
}

type match struct {
	term domain.Term
	src  source
}

type groupKey struct {
	headword string
	reading  string
}

// Lookup scans the text from input.Index, deinflects every prefix up to the
// configured scan length and returns the stored entries grouped by
// (headword, reading). Longer matches come first; within one match length
// the store's score order is kept.
func (s *Service) Lookup(ctx context.Context, input Input) ([]domain.LookupResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	runes := []rune(input.Text)
	if input.Index >= len(runes) {
		return []domain.LookupResult{}, nil
	}
	rest := []rune(domain.NormalizeText(string(runes[input.Index:])))
	if len(rest) == 0 {
		return []domain.LookupResult{}, nil
	}

	keys, sources, err := s.collectKeys(input.Language, rest)
	if err != nil {
		return nil, err
	}

	terms, err := s.terms.FindByKeys(ctx, keys, s.cfg.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("find terms: %w", err)
	}
	if len(terms) == 0 {
		s.log.DebugContext(ctx, "lookup miss",
			slog.String("lang", input.Language),
			slog.Int("keys", len(keys)),
		)
		return []domain.LookupResult{}, nil
	}

	matches := make([]match, 0, len(terms))
	var dictIDs []uuid.UUID
	for _, t := range terms {
		src, ok := bestSource(sources, t)
		if !ok {
			continue
		}
		matches = append(matches, match{term: t, src: src})
		if !slices.Contains(dictIDs, t.DictionaryID) {
			dictIDs = append(dictIDs, t.DictionaryID)
		}
	}
	slices.SortStableFunc(matches, func(a, b match) int {
		return b.src.runes - a.src.runes
	})

	titles, err := s.terms.DictionaryTitles(ctx, dictIDs)
	if err != nil {
		return nil, fmt.Errorf("dictionary titles: %w", err)
	}

	results := group(matches, titles)

	s.log.DebugContext(ctx, "lookup",
		slog.String("lang", input.Language),
		slog.Int("keys", len(keys)),
		slog.Int("terms", len(terms)),
		slog.Int("results", len(results)),
	)
	return results, nil
}

// collectKeys deinflects each prefix of runes, longest first, and returns
// the distinct candidate texts. A key keeps the first, so longest, prefix
// that produced it.
func (s *Service) collectKeys(lang string, runes []rune) ([]string, map[string]source, error) {
	n := min(len(runes), s.cfg.MaxScanLength)

	var keys []string
	sources := make(map[string]source)
	for l := n; l > 0; l-- {
		if unicode.IsSpace(runes[l-1]) {
			continue
		}
		prefix := string(runes[:l])
		candidates, err := s.langs.Candidates(lang, prefix)
		if err != nil {
			return nil, nil, err
		}
		for _, c := range candidates {
			if _, seen := sources[c.Text]; seen {
				continue
			}
			sources[c.Text] = source{prefix: prefix, runes: l, trace: transformNames(c.Trace)}
			keys = append(keys, c.Text)
			if len(keys) >= s.cfg.MaxKeys {
				return keys, sources, nil
			}
		}
	}
	return keys, sources, nil
}

// bestSource picks the longer of the expression and reading matches.
func bestSource(sources map[string]source, t domain.Term) (source, bool) {
	byExpr, okExpr := sources[t.Expression]
	byReading, okReading := sources[t.Reading]
	if t.Reading == "" {
		okReading = false
	}
	switch {
	case okExpr && okReading:
		if byReading.runes > byExpr.runes {
			return byReading, true
		}
		return byExpr, true
	case okExpr:
		return byExpr, true
	case okReading:
		return byReading, true
	}
	return source{}, false
}

func group(matches []match, titles map[uuid.UUID]string) []domain.LookupResult {
	results := []domain.LookupResult{}
	index := make(map[groupKey]int)

	for _, m := range matches {
		headword, reading := m.term.Headword(), m.term.Reading
		if m.term.Expression == "" {
			reading = ""
		}
		if headword == "" {
			continue
		}

		title, ok := titles[m.term.DictionaryID]
		if !ok {
			title = unknownDictionary
		}
		def := domain.Definition{
			DictionaryID:    m.term.DictionaryID,
			DictionaryTitle: title,
			Tags:            m.term.DefinitionTags,
			Content:         m.term.Glossary,
		}

		k := groupKey{headword: headword, reading: reading}
		if i, ok := index[k]; ok {
			if !hasDefinition(results[i].Definitions, def) {
				results[i].Definitions = append(results[i].Definitions, def)
			}
			continue
		}

		index[k] = len(results)
		results = append(results, domain.LookupResult{
			Headword:    headword,
			Reading:     reading,
			Furigana:    Furigana(headword, reading),
			Definitions: []domain.Definition{def},
			Forms:       []domain.Form{{Headword: headword, Reading: reading}},
			MatchedText: m.src.prefix,
			Inflections: m.src.trace,
		})
	}
	return results
}

func hasDefinition(defs []domain.Definition, def domain.Definition) bool {
	for _, d := range defs {
		if d.DictionaryID == def.DictionaryID && bytes.Equal(d.Content, def.Content) {
			return true
		}
	}
	return false
}

func transformNames(trace []deinflect.TraceFrame) []string {
	if len(trace) == 0 {
		return nil
	}
	names := make([]string, len(trace))
	for i, f := range trace {
		names[i] = f.Transform
	}
	return names
}
