package deinflect

import (
	"os"
	"slices"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/deinflect/pkg/deinflect/catalog"
)

type goldenCase struct {
	Term    string   `yaml:"term"`
	Source  string   `yaml:"source"`
	Rule    string   `yaml:"rule"`
	Reasons []string `yaml:"reasons"`
}

func loadGolden(t *testing.T, path string) []goldenCase {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var cases []goldenCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	if len(cases) == 0 {
		t.Fatalf("%s: no cases", path)
	}
	return cases
}

// TestGoldenValid checks that every source reaches its base form with the
// expected category and derivation.
func TestGoldenValid(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	for _, tc := range loadGolden(t, "testdata/valid.yaml") {
		want, err := catalog.ParseCategory(tc.Rule)
		if err != nil {
			t.Fatalf("%s: %v", tc.Source, err)
		}
		ds, err := d.Deinflect(tc.Source)
		if err != nil {
			t.Fatalf("Deinflect(%q): %v", tc.Source, err)
		}

		var hit bool
		for _, c := range ds.Find(tc.Term) {
			cats := ds.Categories(c)
			if !cats.IsEmpty() && !cats.Has(want) {
				continue
			}
			if slices.Equal(ds.Derivation(c), tc.Reasons) {
				hit = true
				break
			}
		}
		if !hit {
			t.Errorf("%s → %s (%s) via %v: not found", tc.Source, tc.Term, tc.Rule, tc.Reasons)
		}
	}
}

// TestGoldenInvalid checks that ungrammatical sources never reach the base
// form under the given category.
func TestGoldenInvalid(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	for _, tc := range loadGolden(t, "testdata/invalid.yaml") {
		want, err := catalog.ParseCategory(tc.Rule)
		if err != nil {
			t.Fatalf("%s: %v", tc.Source, err)
		}
		ds, err := d.Deinflect(tc.Source)
		if err != nil {
			t.Fatalf("Deinflect(%q): %v", tc.Source, err)
		}
		for _, c := range ds.Find(tc.Term) {
			if ds.Categories(c).Has(want) {
				t.Errorf("%s → %s (%s): unexpected derivation %v", tc.Source, tc.Term, tc.Rule, ds.Derivation(c))
			}
		}
	}
}
