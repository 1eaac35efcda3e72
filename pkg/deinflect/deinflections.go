package deinflect

import (
	"iter"
	"slices"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
)

// Candidate identifies one entry in a Deinflections result set. It is only
// meaningful together with the set that produced it.
type Candidate int

type entry struct {
	term   string
	cats   catalog.Category
	reason string
	rule   int // catalog index, -1 for the root
	parent int // -1 for the root
	depth  int
}

// Deinflections is the immutable result of one Deinflect call. Every
// candidate has a distinct (term, categories) pair and, except for the root,
// sits one rule application away from its parent.
type Deinflections struct {
	source string
	nodes  []entry
}

// Source returns the word that was deinflected.
func (ds *Deinflections) Source() string { return ds.source }

// Len returns the number of candidates, including the root.
func (ds *Deinflections) Len() int { return len(ds.nodes) }

// Root returns the candidate for the input word.
func (ds *Deinflections) Root() Candidate { return 0 }

// All yields every candidate in discovery order.
func (ds *Deinflections) All() iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		for i := range ds.nodes {
			if !yield(Candidate(i)) {
				return
			}
		}
	}
}

// Candidates returns All as a slice.
func (ds *Deinflections) Candidates() []Candidate {
	return slices.Collect(ds.All())
}

// String returns the term a candidate stands for.
func (ds *Deinflections) String(c Candidate) string {
	return ds.nodes[c].term
}

// Categories returns the categories assigned by the last rule applied. The
// root has none.
func (ds *Deinflections) Categories(c Candidate) catalog.Category {
	return ds.nodes[c].cats
}

// Parent returns the candidate c was derived from.
func (ds *Deinflections) Parent(c Candidate) (Candidate, bool) {
	p := ds.nodes[c].parent
	if p < 0 {
		return 0, false
	}
	return Candidate(p), true
}

// Depth returns the number of rules applied to reach c.
func (ds *Deinflections) Depth(c Candidate) int { return ds.nodes[c].depth }

// RuleIndex returns the catalog index of the rule that produced c, or -1 for
// the root.
func (ds *Deinflections) RuleIndex(c Candidate) int { return ds.nodes[c].rule }

// Reasons returns the reason chain of c in the order the rules were applied,
// starting from the surface form. 聞かれました → 聞く gives
// ["polite past", "passive"].
func (ds *Deinflections) Reasons(c Candidate) []string {
	out := make([]string, ds.nodes[c].depth)
	for i := int(c); ds.nodes[i].parent >= 0; i = ds.nodes[i].parent {
		out[ds.nodes[i].depth-1] = ds.nodes[i].reason
	}
	return out
}

// Derivation returns the reason chain from the base form outward, the reverse
// of Reasons.
func (ds *Deinflections) Derivation(c Candidate) []string {
	out := ds.Reasons(c)
	slices.Reverse(out)
	return out
}

// Find returns every candidate whose term equals term.
func (ds *Deinflections) Find(term string) []Candidate {
	var out []Candidate
	for i, n := range ds.nodes {
		if n.term == term {
			out = append(out, Candidate(i))
		}
	}
	return out
}

// Result is a flattened view of a candidate for display or encoding.
type Result struct {
	Term       string   `json:"term"`
	Categories []string `json:"categories"`
	Reasons    []string `json:"reasons"`
	Derivation []string `json:"derivation"`
	Depth      int      `json:"depth"`
}

// Result flattens c.
func (ds *Deinflections) Result(c Candidate) Result {
	return Result{
		Term:       ds.String(c),
		Categories: ds.Categories(c).Names(),
		Reasons:    ds.Reasons(c),
		Derivation: ds.Derivation(c),
		Depth:      ds.Depth(c),
	}
}

// Results flattens every candidate in discovery order.
func (ds *Deinflections) Results() []Result {
	out := make([]Result, 0, len(ds.nodes))
	for c := range ds.All() {
		out = append(out, ds.Result(c))
	}
	return out
}
