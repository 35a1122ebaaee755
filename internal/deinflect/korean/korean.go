// Package korean wraps the generic engine for Hangul. Rules are written over
// compatibility jamo, so input is disassembled before the search and every
// candidate is reassembled afterwards.
package korean

import (
	_ "embed"

	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
)

// Code is the language code of this descriptor.
const Code = "ko"

//go:embed transforms.json
var table []byte

// Table returns the embedded rule table.
func Table() []byte { return table }

// New builds the Korean transformer from the embedded table.
func New() (*deinflect.Transformer, error) {
	return deinflect.ParseTable(table)
}

// Candidates runs the engine on the disassembled text and reassembles every
// candidate's text. Conditions and traces are kept.
func Candidates(t *deinflect.Transformer, text string) []deinflect.Candidate {
	cs := t.Deinflect(Disassemble(text))
	for i := range cs {
		cs[i].Text = Reassemble(cs[i].Text)
	}
	return cs
}

// Deinflect returns the distinct syllable-form candidates for text in
// discovery order.
func Deinflect(t *deinflect.Transformer, text string) []string {
	return deinflect.Terms(Candidates(t, text))
}
