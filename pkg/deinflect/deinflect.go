// Package deinflect reverses Japanese inflection. Given a surface form it
// enumerates every base form reachable through the rule catalog together with
// the reasons that connect them.
package deinflect

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
	"github.com/cognicore/deinflect/pkg/deinflect/config"
)

// Deinflector expands words against a fixed catalog. It holds no mutable
// state and may be shared between goroutines.
type Deinflector struct {
	cat *catalog.Catalog
}

// New returns a Deinflector backed by cat.
func New(cat *catalog.Catalog) *Deinflector {
	return &Deinflector{cat: cat}
}

// Catalog returns the catalog the Deinflector was built with.
func (d *Deinflector) Catalog() *catalog.Catalog { return d.cat }

type stateKey struct {
	term string
	cats catalog.Category
}

// Deinflect explores every rule chain that applies to word breadth-first and
// returns the complete result set. The root candidate is word itself with no
// categories; it is exempt from category checks.
func (d *Deinflector) Deinflect(word string) (*Deinflections, error) {
	if word == "" {
		return nil, &InvalidInputError{Msg: "empty word"}
	}

	ds := &Deinflections{
		source: word,
		nodes:  []entry{{term: word, parent: -1, rule: -1}},
	}
	seen := map[stateKey]struct{}{{term: word}: {}}

	// nodes doubles as the queue; next is the head.
	for next := 0; next < len(ds.nodes); next++ {
		cur := ds.nodes[next]
		for _, r := range d.cat.Lookup(cur.term) {
			if next != 0 && !r.Admits(cur.cats) {
				continue
			}
			term, ok := r.Apply(cur.term)
			if !ok {
				continue
			}
			key := stateKey{term: term, cats: r.Result}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			ds.nodes = append(ds.nodes, entry{
				term:   term,
				cats:   r.Result,
				reason: r.Reason,
				rule:   r.Index,
				parent: next,
				depth:  cur.depth + 1,
			})
		}
	}
	return ds, nil
}

// Prefixes deinflects s and then every shorter prefix of s, dropping one rune
// at a time. Element i of the result has i runes removed from the end. The
// prefixes are byte slices of s, so invalid UTF-8 is carried through as is
// and each invalid byte counts as one rune.
func (d *Deinflector) Prefixes(s string) ([]*Deinflections, error) {
	if s == "" {
		return nil, &InvalidInputError{Msg: "empty text"}
	}
	out := make([]*Deinflections, 0, utf8.RuneCountInString(s))
	for s != "" {
		ds, err := d.Deinflect(s)
		if err != nil {
			return nil, err
		}
		out = append(out, ds)
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return out, nil
}

var defaultDeinflector = sync.OnceValues(func() (*Deinflector, error) {
	cat, err := config.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("build default catalog: %w", err)
	}
	return New(cat), nil
})

// Default returns a Deinflector over the embedded catalog. The catalog is
// built on first use and shared afterwards.
func Default() (*Deinflector, error) {
	return defaultDeinflector()
}

// FromWord deinflects word with the embedded catalog.
func FromWord(word string) (*Deinflections, error) {
	d, err := Default()
	if err != nil {
		return nil, err
	}
	return d.Deinflect(word)
}
