// Package japanese provides the Japanese rule table.
package japanese

import (
	_ "embed"

	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
)

// Code is the language code of this descriptor.
const Code = "ja"

//go:embed transforms.json
var table []byte

// Table returns the embedded rule table.
func Table() []byte { return table }

// New builds the Japanese transformer from the embedded table.
func New() (*deinflect.Transformer, error) {
	return deinflect.ParseTable(table)
}
