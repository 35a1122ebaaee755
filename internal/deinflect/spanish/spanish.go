// Package spanish provides the Spanish rule table.
package spanish

import (
	_ "embed"

	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
)

// Code is the language code of this descriptor.
const Code = "es"

//go:embed transforms.json
var table []byte

// Table returns the embedded rule table.
func Table() []byte { return table }

// New builds the Spanish transformer from the embedded table.
func New() (*deinflect.Transformer, error) {
	return deinflect.ParseTable(table)
}
