package deinflect

import (
	"fmt"
	"maps"
	"math/bits"
	"slices"
)

// maxConditions is the width of ConditionSet.
const maxConditions = 64

// ConditionDefinition declares a condition tag and the tags it covers.
type ConditionDefinition struct {
	Name          string   `json:"name,omitempty"`
	SubConditions []string `json:"subConditions,omitempty"`
}

// ConditionSet is a bitmask of condition tags, already expanded by coverage:
// a tag's mask includes the bits of every tag reachable through its
// sub-conditions.
type ConditionSet uint64

// Satisfies reports whether a candidate carrying s may enter a rule that
// requires required. An empty set on either side is unconstrained.
func (s ConditionSet) Satisfies(required ConditionSet) bool {
	return s == 0 || required == 0 || s&required != 0
}

// conditionTable resolves tag names to expanded masks.
type conditionTable struct {
	flags map[string]ConditionSet
	names []string // bit index -> tag name
}

func newConditionTable(defs map[string]ConditionDefinition) (*conditionTable, error) {
	if len(defs) > maxConditions {
		return nil, fmt.Errorf("%w: %d conditions exceed the limit of %d",
			ErrInvalidDescriptor, len(defs), maxConditions)
	}

	names := slices.Sorted(maps.Keys(defs))
	own := make(map[string]ConditionSet, len(names))
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty condition name", ErrInvalidDescriptor)
		}
		own[name] = 1 << uint(i)
	}

	for _, name := range names {
		for _, sub := range defs[name].SubConditions {
			if _, ok := own[sub]; !ok {
				return nil, fmt.Errorf("%w: condition %q covers undefined condition %q",
					ErrInvalidDescriptor, name, sub)
			}
		}
	}

	flags := make(map[string]ConditionSet, len(names))
	for _, name := range names {
		var set ConditionSet
		visited := make(map[string]bool)
		stack := []string{name}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if visited[cur] {
				continue
			}
			visited[cur] = true
			set |= own[cur]
			stack = append(stack, defs[cur].SubConditions...)
		}
		flags[name] = set
	}

	return &conditionTable{flags: flags, names: names}, nil
}

// resolve converts tag names into one expanded mask.
func (c *conditionTable) resolve(tags []string) (ConditionSet, error) {
	var set ConditionSet
	for _, tag := range tags {
		f, ok := c.flags[tag]
		if !ok {
			return 0, fmt.Errorf("undefined condition %q", tag)
		}
		set |= f
	}
	return set, nil
}

// tagNames lists the tag names whose bits are present in set.
func (c *conditionTable) tagNames(set ConditionSet) []string {
	out := make([]string, 0, bits.OnesCount64(uint64(set)))
	for i, name := range c.names {
		if set&(1<<uint(i)) != 0 {
			out = append(out, name)
		}
	}
	return out
}
