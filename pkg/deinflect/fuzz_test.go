package deinflect

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// verifyInvariants checks the structural guarantees of a result set.
func verifyInvariants(t *testing.T, d *Deinflector, word string, ds *Deinflections) {
	t.Helper()
	rules := d.Catalog().Rules()
	seen := make(map[stateKey]bool)
	roots := 0

	for c := range ds.All() {
		term, cats := ds.String(c), ds.Categories(c)
		if term == "" {
			t.Fatalf("candidate %d: empty term", c)
		}
		key := stateKey{term: term, cats: cats}
		if seen[key] {
			t.Fatalf("candidate %d: duplicate (%q, %v)", c, term, cats)
		}
		seen[key] = true

		parent, ok := ds.Parent(c)
		if !ok {
			roots++
			if term != word || len(ds.Reasons(c)) != 0 {
				t.Fatalf("root mismatch: %q", term)
			}
			continue
		}
		if parent >= c {
			t.Fatalf("candidate %d: parent %d not discovered first", c, parent)
		}

		r := rules[ds.RuleIndex(c)]
		if got, ok := r.Apply(ds.String(parent)); !ok || got != term {
			t.Fatalf("candidate %d: %q is not %s applied to %q", c, term, r.Reason, ds.String(parent))
		}
		if r.Result != cats {
			t.Fatalf("candidate %d: categories %v, rule gives %v", c, cats, r.Result)
		}
		if parent != ds.Root() && !r.Admits(ds.Categories(parent)) {
			t.Fatalf("candidate %d: %s applied to %v", c, r.Reason, ds.Categories(parent))
		}
		reasons := ds.Reasons(c)
		if len(reasons) != ds.Depth(c) || reasons[len(reasons)-1] != r.Reason {
			t.Fatalf("candidate %d: reasons %v do not end in %s", c, reasons, r.Reason)
		}
	}
	if roots != 1 {
		t.Fatalf("expected one root, got %d", roots)
	}
}

func FuzzDeinflect(f *testing.F) {
	f.Add("聞かれました")
	f.Add("食べさせられなかった")
	f.Add("来させられていました")
	f.Add("した")
	f.Add("い")
	f.Add("ーーーた")

	d, err := Default()
	if err != nil {
		f.Fatalf("Default: %v", err)
	}

	f.Fuzz(func(t *testing.T, word string) {
		if word == "" || !utf8.ValidString(word) || len(word) > 64 {
			return
		}
		ds, err := d.Deinflect(word)
		if err != nil {
			t.Fatalf("Deinflect(%q): %v", word, err)
		}
		verifyInvariants(t, d, word, ds)
	})
}

func TestInvariantsOnCommonForms(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	words := strings.Fields("聞かれました 食べなかった 読ませられる 美しくなかった 勉強していました 来られる 行っちゃった 書けば")
	for _, w := range words {
		ds, err := d.Deinflect(w)
		if err != nil {
			t.Fatalf("Deinflect(%q): %v", w, err)
		}
		verifyInvariants(t, d, w, ds)
	}
}
