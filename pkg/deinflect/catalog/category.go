package catalog

import (
	"fmt"
	"strings"
)

// Category is a set of grammatical categories encoded as bit flags.
// The zero value is the empty set, which the engine treats as unconstrained.
type Category uint8

const (
	V1   Category = 1 << iota // ichidan verb
	V5                        // godan verb
	VS                        // suru verb
	VK                        // kuru verb
	VZ                        // zuru verb
	AdjI                      // i-adjective
	Iru                       // te-form waiting for いる
)

// All is the union of every known category.
const All = V1 | V5 | VS | VK | VZ | AdjI | Iru

var categoryNames = [...]struct {
	cat  Category
	name string
}{
	{V1, "v1"},
	{V5, "v5"},
	{VS, "vs"},
	{VK, "vk"},
	{VZ, "vz"},
	{AdjI, "adj-i"},
	{Iru, "iru"},
}

// Has reports whether every flag in o is present in c.
func (c Category) Has(o Category) bool { return c&o == o }

// Intersects reports whether c and o share at least one flag.
func (c Category) Intersects(o Category) bool { return c&o != 0 }

// IsEmpty reports whether no flag is set.
func (c Category) IsEmpty() bool { return c == 0 }

// Names returns the catalog names of the set flags in declaration order.
func (c Category) Names() []string {
	names := make([]string, 0, len(categoryNames))
	for _, cn := range categoryNames {
		if c&cn.cat != 0 {
			names = append(names, cn.name)
		}
	}
	return names
}

func (c Category) String() string {
	return strings.Join(c.Names(), " ")
}

// ParseCategory maps a single catalog name such as "v5" or "adj-i" to its flag.
func ParseCategory(name string) (Category, error) {
	for _, cn := range categoryNames {
		if cn.name == name {
			return cn.cat, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// ParseCategories unions the flags for every name. Empty names are skipped.
func ParseCategories(names []string) (Category, error) {
	var c Category
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cat, err := ParseCategory(name)
		if err != nil {
			return 0, err
		}
		c |= cat
	}
	return c, nil
}
