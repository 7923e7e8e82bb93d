package config

import (
	"fmt"
	"os"

	"github.com/smartplates/smartplates-api/internal/query"
	"gopkg.in/yaml.v3"
)

// Facets is the parsed facet configuration file. It carries the synonym
// and keyword tables the query engine filters with, plus pagination policy
// overrides.
type Facets struct {
	CategorySynonyms map[string][]string `yaml:"category_synonyms"`
	DietKeywords     map[string][]string `yaml:"diet_keywords"`
	AllergenKeywords map[string][]string `yaml:"allergen_keywords"`
	Policy           facetPolicy         `yaml:"policy"`
}

type facetPolicy struct {
	AuthenticatedPageSize int `yaml:"authenticated_page_size"`
	AnonymousPageSize     int `yaml:"anonymous_page_size"`
	AnonymousVisibleLimit int `yaml:"anonymous_visible_limit"`
	BatchLimit            int `yaml:"batch_limit"`
}

// LoadFacets reads and parses the facet configuration file at path.
func LoadFacets(path string) (*Facets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read facets file: %w", err)
	}
	var f Facets
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse facets file: %w", err)
	}
	return &f, nil
}

// Tables converts the parsed file into the query engine's lookup tables.
// Sections missing from the file fall back to the built-in defaults.
func (f *Facets) Tables() query.Tables {
	t := query.DefaultTables()
	if len(f.CategorySynonyms) > 0 {
		t.CategorySynonyms = f.CategorySynonyms
	}
	if len(f.DietKeywords) > 0 {
		t.DietKeywords = f.DietKeywords
	}
	if len(f.AllergenKeywords) > 0 {
		t.AllergenKeywords = f.AllergenKeywords
	}
	return t
}

// QueryPolicy converts the parsed policy section into engine policy,
// keeping defaults for any unset value.
func (f *Facets) QueryPolicy() query.Policy {
	p := query.DefaultPolicy()
	if f.Policy.AuthenticatedPageSize > 0 {
		p.AuthenticatedPageSize = f.Policy.AuthenticatedPageSize
	}
	if f.Policy.AnonymousPageSize > 0 {
		p.AnonymousPageSize = f.Policy.AnonymousPageSize
	}
	if f.Policy.AnonymousVisibleLimit > 0 {
		p.AnonymousVisibleLimit = f.Policy.AnonymousVisibleLimit
	}
	if f.Policy.BatchLimit > 0 {
		p.BatchLimit = f.Policy.BatchLimit
	}
	return p
}
