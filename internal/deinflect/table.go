package deinflect

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Rule type names used by JSON tables.
const (
	RuleTypeSuffix                  = "suffix"
	RuleTypePrefix                  = "prefix"
	RuleTypePhrasalSuffix           = "phrasalSuffix"
	RuleTypePhrasalInterposedObject = "phrasalInterposedObject"
)

type tableFile struct {
	Language   string                         `json:"language"`
	Conditions map[string]ConditionDefinition `json:"conditions"`
	Transforms []tableTransform               `json:"transforms"`
}

type tableTransform struct {
	ID          string      `json:"id"`
	Description string      `json:"description"`
	Rules       []tableRule `json:"rules"`
}

type tableRule struct {
	Type          string   `json:"type"`
	Inflected     string   `json:"inflected"`
	Deinflected   string   `json:"deinflected"`
	ConditionsIn  []string `json:"conditionsIn"`
	ConditionsOut []string `json:"conditionsOut"`
}

// ParseTable decodes a JSON rule table and builds it.
func ParseTable(data []byte) (*Transformer, error) {
	return DecodeTable(bytes.NewReader(data))
}

// DecodeTable reads a JSON rule table from r and builds it. Unknown fields,
// unknown rule types and trailing data are rejected.
func DecodeTable(r io.Reader) (*Transformer, error) {
	d, err := decodeDescriptor(r)
	if err != nil {
		return nil, err
	}
	return Build(d)
}

func decodeDescriptor(r io.Reader) (Descriptor, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var f tableFile
	if err := dec.Decode(&f); err != nil {
		return Descriptor{}, fmt.Errorf("%w: decode table: %v", ErrInvalidDescriptor, err)
	}
	if dec.More() {
		return Descriptor{}, fmt.Errorf("%w: trailing data after table", ErrInvalidDescriptor)
	}
	if len(f.Transforms) == 0 {
		return Descriptor{}, fmt.Errorf("%w: table has no transforms", ErrInvalidDescriptor)
	}

	d := Descriptor{
		Language:   f.Language,
		Conditions: f.Conditions,
		Transforms: make([]TransformGroup, 0, len(f.Transforms)),
	}
	for _, tt := range f.Transforms {
		g := TransformGroup{
			ID:          tt.ID,
			Description: tt.Description,
			Rules:       make([]Rule, 0, len(tt.Rules)),
		}
		for i, tr := range tt.Rules {
			kind, err := tableRuleKind(tr)
			if err != nil {
				return Descriptor{}, fmt.Errorf("%w: transform %q rule #%d: %v", ErrInvalidDescriptor, tt.ID, i, err)
			}
			g.Rules = append(g.Rules, Rule{
				Kind:          kind,
				ConditionsIn:  tr.ConditionsIn,
				ConditionsOut: tr.ConditionsOut,
			})
		}
		d.Transforms = append(d.Transforms, g)
	}
	return d, nil
}

func tableRuleKind(r tableRule) (RuleKind, error) {
	switch r.Type {
	case RuleTypeSuffix:
		return Suffix{Inflected: r.Inflected, Deinflected: r.Deinflected}, nil
	case RuleTypePrefix:
		return Prefix{Inflected: r.Inflected, Deinflected: r.Deinflected}, nil
	case RuleTypePhrasalSuffix:
		return PhrasalSuffix{Inflected: r.Inflected, Deinflected: r.Deinflected}, nil
	case RuleTypePhrasalInterposedObject:
		return PhrasalInterposedObject{}, nil
	default:
		return nil, fmt.Errorf("unknown rule type %q", r.Type)
	}
}
