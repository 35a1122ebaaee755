package deinflect

import (
	"errors"
	"fmt"
)

// ErrInvalidDescriptor is returned when a descriptor or table cannot be built.
var ErrInvalidDescriptor = errors.New("invalid deinflection descriptor")

// TransformGroup is a named bundle of rules for one grammatical phenomenon.
// Rules inside a group are tried independently of each other.
type TransformGroup struct {
	ID          string
	Description string
	Rules       []Rule
}

// Descriptor is the grammar of one language: its condition vocabulary and
// its ordered transform groups.
type Descriptor struct {
	Language   string
	Conditions map[string]ConditionDefinition
	Transforms []TransformGroup
}

type compiledRule struct {
	kind RuleKind
	in   ConditionSet
	out  ConditionSet
}

type compiledGroup struct {
	id    string
	rules []compiledRule
}

// Transformer is a built descriptor. It is immutable and safe for
// concurrent use.
type Transformer struct {
	language   string
	conditions *conditionTable
	groups     []compiledGroup
}

// Build validates d and compiles it into a Transformer.
func Build(d Descriptor) (*Transformer, error) {
	conditions, err := newConditionTable(d.Conditions)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(d.Transforms))
	groups := make([]compiledGroup, 0, len(d.Transforms))
	for gi, g := range d.Transforms {
		if g.ID == "" {
			return nil, fmt.Errorf("%w: transform #%d has no id", ErrInvalidDescriptor, gi)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("%w: duplicate transform %q", ErrInvalidDescriptor, g.ID)
		}
		seen[g.ID] = true

		rules := make([]compiledRule, 0, len(g.Rules))
		for ri, r := range g.Rules {
			cr, err := compileRule(conditions, r)
			if err != nil {
				return nil, fmt.Errorf("%w: transform %q rule #%d: %v", ErrInvalidDescriptor, g.ID, ri, err)
			}
			rules = append(rules, cr)
		}
		groups = append(groups, compiledGroup{id: g.ID, rules: rules})
	}

	return &Transformer{
		language:   d.Language,
		conditions: conditions,
		groups:     groups,
	}, nil
}

func compileRule(conditions *conditionTable, r Rule) (compiledRule, error) {
	if r.Kind == nil {
		return compiledRule{}, errors.New("missing rule kind")
	}
	if inflected, ok := affix(r.Kind); ok && inflected == "" {
		return compiledRule{}, fmt.Errorf("%s rule with empty inflected text", r.Kind.kind())
	}
	in, err := conditions.resolve(r.ConditionsIn)
	if err != nil {
		return compiledRule{}, fmt.Errorf("conditionsIn: %w", err)
	}
	out, err := conditions.resolve(r.ConditionsOut)
	if err != nil {
		return compiledRule{}, fmt.Errorf("conditionsOut: %w", err)
	}
	return compiledRule{kind: r.Kind, in: in, out: out}, nil
}

// Language returns the language code the descriptor was built for.
func (t *Transformer) Language() string { return t.language }

// ConditionNames expands a condition set back into tag names, sorted.
func (t *Transformer) ConditionNames(set ConditionSet) []string {
	return t.conditions.tagNames(set)
}

// Conditions resolves tag names into a condition set. Unknown names are an
// error.
func (t *Transformer) Conditions(tags ...string) (ConditionSet, error) {
	return t.conditions.resolve(tags)
}

// RuleCount returns the number of compiled rules across all groups.
func (t *Transformer) RuleCount() int {
	n := 0
	for _, g := range t.groups {
		n += len(g.rules)
	}
	return n
}
