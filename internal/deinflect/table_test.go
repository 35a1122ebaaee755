package deinflect

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validTable = `{
  "language": "xx",
  "conditions": {
    "v":  {"name": "Verb", "subConditions": ["v1"]},
    "v1": {"name": "Ichidan verb"},
    "-ta": {"name": "Past"}
  },
  "transforms": [
    {
      "id": "past",
      "description": "Past tense",
      "rules": [
        {"type": "suffix", "inflected": "た", "deinflected": "る", "conditionsIn": ["-ta"], "conditionsOut": ["v1"]}
      ]
    },
    {
      "id": "honorific",
      "rules": [
        {"type": "prefix", "inflected": "お", "deinflected": "", "conditionsIn": [], "conditionsOut": ["v"]}
      ]
    }
  ]
}`

func TestParseTable_Valid(t *testing.T) {
	t.Parallel()

	tr, err := ParseTable([]byte(validTable))
	require.NoError(t, err)

	assert.Equal(t, "xx", tr.Language())
	assert.Equal(t, 2, tr.RuleCount())
	assert.Equal(t, []string{"食べた", "食べる"}, tr.DeinflectTerms("食べた"))
	assert.Equal(t, []string{"お食べた", "お食べる", "食べた", "食べる"}, tr.DeinflectTerms("お食べた"))
}

func TestDecodeTable_Valid(t *testing.T) {
	t.Parallel()

	tr, err := DecodeTable(strings.NewReader(validTable))
	require.NoError(t, err)
	assert.Equal(t, "xx", tr.Language())
}

func TestParseTable_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `{"language":`},
		{name: "unknown field", input: `{"language":"xx","transforms":[{"id":"a","rules":[]}],"extra":1}`},
		{name: "no transforms", input: `{"language":"xx","conditions":{}}`},
		{name: "trailing data", input: `{"transforms":[{"id":"a","rules":[]}]} {}`},
		{
			name:  "unknown rule type",
			input: `{"transforms":[{"id":"a","rules":[{"type":"infix","inflected":"x"}]}]}`,
		},
		{
			name:  "empty inflected",
			input: `{"transforms":[{"id":"a","rules":[{"type":"suffix","inflected":"","deinflected":"x"}]}]}`,
		},
		{
			name:  "undefined condition",
			input: `{"conditions":{"v":{}},"transforms":[{"id":"a","rules":[{"type":"suffix","inflected":"x","conditionsIn":["n"]}]}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTable([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDescriptor), "got %v", err)
		})
	}
}
