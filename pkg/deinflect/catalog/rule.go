package catalog

import "strings"

// Entry is a raw rule record as read from a catalog file.
type Entry struct {
	MatchSuffix   string
	ReplaceSuffix string
	Required      Category
	Result        Category
	Reason        string
}

// Rule is a validated suffix rewrite. Rules are owned by a Catalog and
// must not be modified.
type Rule struct {
	MatchSuffix   string
	ReplaceSuffix string
	Required      Category
	Result        Category
	Reason        string

	// Index is the rule's position in the catalog.
	Index int
}

// Admits reports whether the rule may fire on a term carrying cats.
// Rules with an empty required set apply to anything.
func (r *Rule) Admits(cats Category) bool {
	return r.Required.IsEmpty() || r.Required.Intersects(cats)
}

// Apply rewrites the matched suffix of term. It returns false when term does
// not end in MatchSuffix or the rewrite would leave an empty string.
func (r *Rule) Apply(term string) (string, bool) {
	if !strings.HasSuffix(term, r.MatchSuffix) {
		return "", false
	}
	out := term[:len(term)-len(r.MatchSuffix)] + r.ReplaceSuffix
	if out == "" {
		return "", false
	}
	return out, true
}

// Entry returns the ingestion record the rule was built from.
func (r *Rule) Entry() Entry {
	return Entry{
		MatchSuffix:   r.MatchSuffix,
		ReplaceSuffix: r.ReplaceSuffix,
		Required:      r.Required,
		Result:        r.Result,
		Reason:        r.Reason,
	}
}
