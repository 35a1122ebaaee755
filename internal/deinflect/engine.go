package deinflect

import "strings"

// TraceFrame identifies one applied rule: the group ID and the rule's index
// inside that group.
type TraceFrame struct {
	Transform string `json:"transform"`
	Rule      int    `json:"rule"`
}

// Candidate is one deinflected form reachable from the input text.
type Candidate struct {
	Text       string
	Conditions ConditionSet
	Trace      []TraceFrame
}

type stateKey struct {
	text       string
	conditions ConditionSet
}

// Deinflect enumerates every form reachable from text by chaining rules,
// breadth first. The first candidate is always the input itself with no
// conditions. A (text, conditions) pair is produced at most once, which is
// what guarantees termination on cyclic rule sets.
func (t *Transformer) Deinflect(text string) []Candidate {
	results := []Candidate{{Text: text}}
	visited := map[stateKey]struct{}{{text: text}: {}}

	for i := 0; i < len(results); i++ {
		cur := results[i]
		for _, g := range t.groups {
			for ri, r := range g.rules {
				if !cur.Conditions.Satisfies(r.in) {
					continue
				}
				next, ok := apply(r.kind, cur.Text)
				if !ok {
					continue
				}

				key := stateKey{text: next, conditions: r.out}
				if _, dup := visited[key]; dup {
					continue
				}
				visited[key] = struct{}{}

				trace := make([]TraceFrame, len(cur.Trace), len(cur.Trace)+1)
				copy(trace, cur.Trace)
				results = append(results, Candidate{
					Text:       next,
					Conditions: r.out,
					Trace:      append(trace, TraceFrame{Transform: g.id, Rule: ri}),
				})
			}
		}
	}

	return results
}

// DeinflectTerms returns the distinct candidate texts in discovery order.
func (t *Transformer) DeinflectTerms(text string) []string {
	return Terms(t.Deinflect(text))
}

// Terms collapses candidates to their distinct texts, keeping first-seen
// order.
func Terms(candidates []Candidate) []string {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.Text]; ok {
			continue
		}
		seen[c.Text] = struct{}{}
		out = append(out, c.Text)
	}
	return out
}

// apply runs the text matcher of a rule kind. An empty result never matches.
func apply(kind RuleKind, text string) (string, bool) {
	var (
		out string
		ok  bool
	)
	switch r := kind.(type) {
	case Suffix:
		if strings.HasSuffix(text, r.Inflected) {
			out, ok = text[:len(text)-len(r.Inflected)]+r.Deinflected, true
		}
	case Prefix:
		if strings.HasPrefix(text, r.Inflected) {
			out, ok = r.Deinflected+text[len(r.Inflected):], true
		}
	case PhrasalSuffix:
		out, ok = applyPhrasalSuffix(r, text)
	case PhrasalInterposedObject:
		out, ok = applyInterposedObject(text)
	}
	return out, ok && out != ""
}
