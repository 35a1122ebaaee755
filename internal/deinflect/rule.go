package deinflect

// RuleKind is the text matcher/rewriter of a rule. The set of kinds is closed:
// Suffix, Prefix, PhrasalSuffix and PhrasalInterposedObject. A language that
// needs new structural behaviour adds a kind here and a case in apply.
type RuleKind interface {
	kind() string
}

// Suffix replaces a trailing Inflected with Deinflected.
type Suffix struct {
	Inflected   string
	Deinflected string
}

// Prefix replaces a leading Inflected with Deinflected.
type Prefix struct {
	Inflected   string
	Deinflected string
}

// PhrasalSuffix applies a suffix replacement to the verb of a phrasal verb,
// "looked up" -> "look up".
type PhrasalSuffix struct {
	Inflected   string
	Deinflected string
}

// PhrasalInterposedObject removes an object placed between a phrasal verb and
// its particle, "look it up" -> "look up".
type PhrasalInterposedObject struct{}

func (Suffix) kind() string                  { return "suffix" }
func (Prefix) kind() string                  { return "prefix" }
func (PhrasalSuffix) kind() string           { return "phrasalSuffix" }
func (PhrasalInterposedObject) kind() string { return "phrasalInterposedObject" }

// Rule couples a kind with its condition gates. ConditionsIn are required of
// the current candidate; ConditionsOut replace the candidate's conditions.
type Rule struct {
	Kind          RuleKind
	ConditionsIn  []string
	ConditionsOut []string
}

// SuffixRule is shorthand for a Rule with a Suffix kind.
func SuffixRule(inflected, deinflected string, in, out []string) Rule {
	return Rule{
		Kind:          Suffix{Inflected: inflected, Deinflected: deinflected},
		ConditionsIn:  in,
		ConditionsOut: out,
	}
}

// PrefixRule is shorthand for a Rule with a Prefix kind.
func PrefixRule(inflected, deinflected string, in, out []string) Rule {
	return Rule{
		Kind:          Prefix{Inflected: inflected, Deinflected: deinflected},
		ConditionsIn:  in,
		ConditionsOut: out,
	}
}

// affix returns the inflected part of affix-like kinds.
func affix(k RuleKind) (string, bool) {
	switch r := k.(type) {
	case Suffix:
		return r.Inflected, true
	case Prefix:
		return r.Inflected, true
	case PhrasalSuffix:
		return r.Inflected, true
	}
	return "", false
}
