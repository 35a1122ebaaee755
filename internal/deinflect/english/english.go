// Package english builds the English deinflection rules in code. Regular
// inflection families are listed once and their doubled-consonant and
// phrasal-verb variants are generated.
package english

import (
	"slices"

	"github.com/heartmarshall/yomitan-backend/internal/deinflect"
)

// Code is the language code of this descriptor.
const Code = "en"

var (
	v    = []string{"v"}
	vPhr = []string{"v_phr"}
	np   = []string{"np"}
	ns   = []string{"ns"}
	n    = []string{"n"}
	adj  = []string{"adj"}
	adv  = []string{"adv"}
)

// Descriptor returns the English rule set.
func Descriptor() deinflect.Descriptor {
	past := slices.Concat(
		[]deinflect.Rule{
			suffix("ed", "", v, v),
			suffix("ed", "e", v, v),
			suffix("ied", "y", v, v),
			suffix("cked", "c", v, v),
		},
		doubledConsonant("bdgklmnprstz", "ed", v, v),
		[]deinflect.Rule{
			suffix("laid", "lay", v, v),
			suffix("paid", "pay", v, v),
			suffix("said", "say", v, v),
		},
	)

	ing := slices.Concat(
		[]deinflect.Rule{
			suffix("ing", "", v, v),
			suffix("ing", "e", v, v),
			suffix("ying", "ie", v, v),
			suffix("cking", "c", v, v),
		},
		doubledConsonant("bdgklmnprstz", "ing", v, v),
	)

	thirdPerson := []deinflect.Rule{
		suffix("s", "", v, v),
		suffix("es", "", v, v),
		suffix("ies", "y", v, v),
	}

	return deinflect.Descriptor{
		Language: Code,
		Conditions: map[string]deinflect.ConditionDefinition{
			"v":     {Name: "Verb", SubConditions: vPhr},
			"v_phr": {Name: "Phrasal verb"},
			"n":     {Name: "Noun", SubConditions: []string{"np", "ns"}},
			"np":    {Name: "Noun plural"},
			"ns":    {Name: "Noun singular"},
			"adj":   {Name: "Adjective"},
			"adv":   {Name: "Adverb"},
		},
		Transforms: []deinflect.TransformGroup{
			{
				ID:          "plural",
				Description: "Plural form of a noun",
				Rules: []deinflect.Rule{
					suffix("s", "", np, ns),
					suffix("es", "", np, ns),
					suffix("ies", "y", np, ns),
					suffix("ves", "fe", np, ns),
					suffix("ves", "f", np, ns),
				},
			},
			{
				ID:          "possessive",
				Description: "Possessive form of a noun",
				Rules: []deinflect.Rule{
					suffix("'s", "", n, n),
					suffix("s'", "s", n, n),
				},
			},
			{
				ID:          "past",
				Description: "Simple past tense of a verb",
				Rules:       withPhrasal(past),
			},
			{
				ID:          "ing",
				Description: "Present participle of a verb",
				Rules:       withPhrasal(ing),
			},
			{
				ID:          "3rd pers. sing. pres",
				Description: "Third person singular present tense of a verb",
				Rules:       withPhrasal(thirdPerson),
			},
			{
				ID:          "interposed object",
				Description: "Phrasal verb with an object between the verb and its particle",
				Rules: []deinflect.Rule{{
					Kind:          deinflect.PhrasalInterposedObject{},
					ConditionsOut: vPhr,
				}},
			},
			{
				ID:          "archaic",
				Description: "Archaic form of a word",
				Rules:       []deinflect.Rule{suffix("'d", "ed", v, v)},
			},
			{
				ID:          "adverb",
				Description: "Adverb form of an adjective",
				Rules: []deinflect.Rule{
					suffix("ly", "", adv, adj),
					suffix("ily", "y", adv, adj),
					suffix("ly", "le", adv, adj),
				},
			},
			{
				ID:          "comparative",
				Description: "Comparative form of an adjective",
				Rules: slices.Concat(
					[]deinflect.Rule{
						suffix("er", "", adj, adj),
						suffix("er", "e", adj, adj),
						suffix("ier", "y", adj, adj),
					},
					doubledConsonant("bdgmnt", "er", adj, adj),
				),
			},
			{
				ID:          "superlative",
				Description: "Superlative form of an adjective",
				Rules: slices.Concat(
					[]deinflect.Rule{
						suffix("est", "", adj, adj),
						suffix("est", "e", adj, adj),
						suffix("iest", "y", adj, adj),
					},
					doubledConsonant("bdgmnt", "est", adj, adj),
				),
			},
			{
				ID:          "dropped g",
				Description: "Dropped g in -ing",
				Rules:       []deinflect.Rule{suffix("in'", "ing", v, v)},
			},
			{
				ID:          "-y",
				Description: "Adjective formed from a verb or noun",
				Rules: slices.Concat(
					[]deinflect.Rule{
						suffix("y", "", adj, []string{"n", "v"}),
						suffix("y", "e", adj, []string{"n", "v"}),
					},
					doubledConsonant("glmnprst", "y", nil, []string{"n", "v"}),
				),
			},
			{
				ID:          "un-",
				Description: "Negating prefix",
				Rules: []deinflect.Rule{
					deinflect.PrefixRule("un", "", []string{"adj", "adv", "v"}, []string{"adj", "adv", "v"}),
				},
			},
			{
				ID:          "going-to future",
				Description: "Going-to future tense of a verb",
				Rules:       []deinflect.Rule{deinflect.PrefixRule("going to ", "", v, v)},
			},
			{
				ID:          "will future",
				Description: "Will-future tense of a verb",
				Rules:       []deinflect.Rule{deinflect.PrefixRule("will ", "", v, v)},
			},
			{
				ID:          "imperative negative",
				Description: "Negative imperative form of a verb",
				Rules: []deinflect.Rule{
					deinflect.PrefixRule("don't ", "", v, v),
					deinflect.PrefixRule("do not ", "", v, v),
				},
			},
			{
				ID:          "-able",
				Description: "Adjective formed from a verb",
				Rules: slices.Concat(
					[]deinflect.Rule{
						suffix("able", "", v, adj),
						suffix("able", "e", v, adj),
						suffix("iable", "y", v, adj),
					},
					doubledConsonant("bdgklmnprstz", "able", v, adj),
				),
			},
		},
	}
}

// New builds the English transformer.
func New() (*deinflect.Transformer, error) {
	return deinflect.Build(Descriptor())
}

func suffix(inflected, deinflected string, in, out []string) deinflect.Rule {
	return deinflect.SuffixRule(inflected, deinflected, in, out)
}

// doubledConsonant yields "bbed" -> "b", "dded" -> "d", ... for every
// consonant in consonants.
func doubledConsonant(consonants, sfx string, in, out []string) []deinflect.Rule {
	rules := make([]deinflect.Rule, 0, len(consonants))
	for _, c := range consonants {
		s := string(c)
		rules = append(rules, suffix(s+s+sfx, s, in, out))
	}
	return rules
}

// withPhrasal appends a phrasal-verb copy of every suffix rule:
// "looked up" -> "look up".
func withPhrasal(rules []deinflect.Rule) []deinflect.Rule {
	out := make([]deinflect.Rule, 0, 2*len(rules))
	out = append(out, rules...)
	for _, r := range rules {
		s, ok := r.Kind.(deinflect.Suffix)
		if !ok {
			continue
		}
		out = append(out, deinflect.Rule{
			Kind:          deinflect.PhrasalSuffix{Inflected: s.Inflected, Deinflected: s.Deinflected},
			ConditionsIn:  v,
			ConditionsOut: vPhr,
		})
	}
	return out
}
