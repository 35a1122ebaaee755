package deinflect

import "testing"

func FuzzDeinflect(f *testing.F) {
	tr, err := Build(Descriptor{
		Conditions: testConditions(),
		Transforms: []TransformGroup{
			{ID: "dropped g", Rules: []Rule{SuffixRule("in'", "ing", []string{"v"}, []string{"v"})}},
			{ID: "ing", Rules: []Rule{SuffixRule("ing", "in'", []string{"v"}, []string{"v"})}},
			{ID: "plural", Rules: []Rule{SuffixRule("s", "", []string{"np"}, []string{"ns"})}},
			{ID: "interposed object", Rules: []Rule{{Kind: PhrasalInterposedObject{}, ConditionsOut: []string{"v_phr"}}}},
		},
	})
	if err != nil {
		f.Fatal(err)
	}

	f.Add("readin'")
	f.Add("cats")
	f.Add("look it up")
	f.Add("")
	f.Add("   ")
	f.Add("\xff\xfe")
	f.Add("한글이다")

	f.Fuzz(func(t *testing.T, s string) {
		got := tr.Deinflect(s)
		if len(got) == 0 || got[0].Text != s || got[0].Conditions != 0 || len(got[0].Trace) != 0 {
			t.Fatalf("identity candidate missing for %q: %+v", s, got)
		}

		seen := make(map[stateKey]bool, len(got))
		for _, c := range got[1:] {
			if c.Text == "" {
				t.Errorf("empty candidate for %q", s)
			}
			if len(c.Trace) == 0 {
				t.Errorf("derived candidate %q has no trace", c.Text)
			}
			k := stateKey{text: c.Text, conditions: c.Conditions}
			if seen[k] {
				t.Errorf("duplicate state %+v for %q", k, s)
			}
			seen[k] = true
		}
	})
}
