package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFacetsFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facets.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write facets file: %v", err)
	}
	return path
}

func TestLoadFacets(t *testing.T) {
	path := writeFacetsFile(t, `
category_synonyms:
  lunch: [lunch, main course]
diet_keywords:
  vegan: [vegan, plant-based]
allergen_keywords:
  gluten: [wheat, rye]
policy:
  authenticated_page_size: 25
  anonymous_page_size: 10
`)

	f, err := LoadFacets(path)
	if err != nil {
		t.Fatalf("LoadFacets returned error: %v", err)
	}

	tables := f.Tables()
	if got := tables.CategorySynonyms["lunch"]; len(got) != 2 || got[1] != "main course" {
		t.Errorf("unexpected lunch synonyms: %v", got)
	}
	if got := tables.AllergenKeywords["gluten"]; len(got) != 2 {
		t.Errorf("unexpected gluten keywords: %v", got)
	}

	policy := f.QueryPolicy()
	if policy.AuthenticatedPageSize != 25 {
		t.Errorf("AuthenticatedPageSize = %d, want 25", policy.AuthenticatedPageSize)
	}
	if policy.AnonymousPageSize != 10 {
		t.Errorf("AnonymousPageSize = %d, want 10", policy.AnonymousPageSize)
	}
	// Unset values keep defaults.
	if policy.BatchLimit != 100 {
		t.Errorf("BatchLimit = %d, want default 100", policy.BatchLimit)
	}
}

func TestLoadFacetsMissingSectionsFallBack(t *testing.T) {
	path := writeFacetsFile(t, "policy:\n  batch_limit: 50\n")

	f, err := LoadFacets(path)
	if err != nil {
		t.Fatalf("LoadFacets returned error: %v", err)
	}

	tables := f.Tables()
	if len(tables.CategorySynonyms) == 0 {
		t.Error("expected default category synonyms when section missing")
	}
	if f.QueryPolicy().BatchLimit != 50 {
		t.Errorf("BatchLimit = %d, want 50", f.QueryPolicy().BatchLimit)
	}
}

func TestLoadFacetsBadFile(t *testing.T) {
	if _, err := LoadFacets(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := writeFacetsFile(t, "category_synonyms: [not, a, map]")
	if _, err := LoadFacets(path); err == nil {
		t.Error("expected error for malformed file")
	}
}
