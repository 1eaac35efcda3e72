// Package catalog holds the immutable table of suffix rewrite rules used by
// the deinflection engine.
package catalog

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// Catalog indexes rules by the suffix they match. A built Catalog is never
// mutated and is safe for concurrent use.
type Catalog struct {
	rules []*Rule
	root  *node
}

// node is one level of a trie keyed by runes read from the end of a suffix.
type node struct {
	next  map[rune]*node
	rules []int
}

func (n *node) child(r rune) *node {
	if n.next == nil {
		n.next = make(map[rune]*node)
	}
	c, ok := n.next[r]
	if !ok {
		c = &node{}
		n.next[r] = c
	}
	return c
}

// Build validates entries and indexes them in order.
func Build(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		rules: make([]*Rule, 0, len(entries)),
		root:  &node{},
	}
	for i, e := range entries {
		if err := validate(i, e); err != nil {
			return nil, err
		}
		r := &Rule{
			MatchSuffix:   e.MatchSuffix,
			ReplaceSuffix: e.ReplaceSuffix,
			Required:      e.Required,
			Result:        e.Result,
			Reason:        e.Reason,
			Index:         i,
		}
		c.rules = append(c.rules, r)

		n := c.root
		for s := e.MatchSuffix; s != ""; {
			ch, size := utf8.DecodeLastRuneInString(s)
			n = n.child(ch)
			s = s[:len(s)-size]
		}
		n.rules = append(n.rules, i)
	}
	return c, nil
}

func validate(i int, e Entry) error {
	switch {
	case e.MatchSuffix == "":
		return &CatalogError{Index: i, Reason: e.Reason, Msg: "empty match suffix"}
	case e.Reason == "":
		return &CatalogError{Index: i, Msg: "empty reason"}
	case !utf8.ValidString(e.MatchSuffix) || !utf8.ValidString(e.ReplaceSuffix):
		return &CatalogError{Index: i, Reason: e.Reason, Msg: "suffix is not valid UTF-8"}
	case e.MatchSuffix == e.ReplaceSuffix && e.Required == e.Result:
		return &CatalogError{Index: i, Reason: e.Reason, Msg: "rule rewrites " + e.MatchSuffix + " to itself"}
	case refires(e):
		return &CatalogError{Index: i, Reason: e.Reason, Msg: "rule grows " + e.MatchSuffix + " into " + e.ReplaceSuffix + " and matches its own output"}
	}
	return nil
}

// refires reports whether e lengthens a term, still matches the result and
// accepts its own result categories, so it would apply forever.
func refires(e Entry) bool {
	return len(e.ReplaceSuffix) > len(e.MatchSuffix) &&
		strings.HasSuffix(e.ReplaceSuffix, e.MatchSuffix) &&
		(e.Required.IsEmpty() || e.Required.Intersects(e.Result))
}

// Lookup returns every rule whose match suffix is a suffix of term, in
// catalog order. Shorter and longer matches are all returned.
func (c *Catalog) Lookup(term string) []*Rule {
	var idx []int
	n := c.root
	for s := term; s != ""; {
		ch, size := utf8.DecodeLastRuneInString(s)
		n = n.next[ch]
		if n == nil {
			break
		}
		idx = append(idx, n.rules...)
		s = s[:len(s)-size]
	}
	if len(idx) == 0 {
		return nil
	}
	slices.Sort(idx)
	out := make([]*Rule, len(idx))
	for i, ri := range idx {
		out[i] = c.rules[ri]
	}
	return out
}

// Len returns the number of rules.
func (c *Catalog) Len() int { return len(c.rules) }

// Rules returns the rules in catalog order.
func (c *Catalog) Rules() []*Rule {
	return slices.Clone(c.rules)
}

// Reasons returns the distinct reason labels in order of first appearance.
func (c *Catalog) Reasons() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range c.rules {
		if !seen[r.Reason] {
			seen[r.Reason] = true
			out = append(out, r.Reason)
		}
	}
	return out
}

// Entries returns the ingestion records the catalog was built from.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.rules))
	for i, r := range c.rules {
		out[i] = r.Entry()
	}
	return out
}
