package catalog

import "testing"

func TestParseCategories(t *testing.T) {
	tests := []struct {
		names []string
		want  Category
	}{
		{nil, 0},
		{[]string{"v1"}, V1},
		{[]string{"v5", "adj-i"}, V5 | AdjI},
		{[]string{"vs", "vk", "vz", "iru", ""}, VS | VK | VZ | Iru},
	}
	for _, tt := range tests {
		got, err := ParseCategories(tt.names)
		if err != nil {
			t.Fatalf("ParseCategories(%v): %v", tt.names, err)
		}
		if got != tt.want {
			t.Errorf("ParseCategories(%v) = %v, want %v", tt.names, got, tt.want)
		}
	}

	if _, err := ParseCategories([]string{"v2"}); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestCategoryString(t *testing.T) {
	if s := (V5 | V1).String(); s != "v1 v5" {
		t.Errorf("expected %q, got %q", "v1 v5", s)
	}
	if s := Category(0).String(); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
	if len(All.Names()) != 7 {
		t.Errorf("expected 7 names, got %v", All.Names())
	}
}

func TestCategorySetOps(t *testing.T) {
	c := V1 | AdjI
	if !c.Has(V1) || c.Has(V1|V5) {
		t.Error("Has mismatch")
	}
	if !c.Intersects(V5|AdjI) || c.Intersects(VS) {
		t.Error("Intersects mismatch")
	}
	if c.IsEmpty() || !Category(0).IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}
