package query

import "strings"

// MatchesSearchText reports whether the recipe matches a free-text query.
// Every whitespace-separated token must appear, case-insensitively, in the
// title or summary.
func MatchesSearchText(r Recipe, text string) bool {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(tokens) == 0 {
		return true
	}
	haystack := strings.ToLower(r.Title + " " + r.Summary)
	for _, tok := range tokens {
		if !strings.Contains(haystack, tok) {
			return false
		}
	}
	return true
}

// FilterCandidates applies the request's facet filters in order: category,
// diet, intolerance, difficulty. First-seen order is preserved.
func (t Tables) FilterCandidates(candidates []Recipe, req Request) []Recipe {
	out := make([]Recipe, 0, len(candidates))
	for _, r := range candidates {
		if !t.matchesCategory(r, req.Category) {
			continue
		}
		if !t.matchesDiet(r, req.Diet) {
			continue
		}
		if t.excludedByAllergen(r, req.Intolerance) {
			continue
		}
		if req.Difficulty != "" && RecipeDifficulty(r) != req.Difficulty {
			continue
		}
		out = append(out, r)
	}
	return out
}

// matchesCategory keeps a recipe when any dish-type tag loosely matches a
// synonym of the requested category. Recipes with no dish-type tags at all
// are kept: imported records often lack tag metadata, and hiding them would
// be worse than over-including them.
func (t Tables) matchesCategory(r Recipe, category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return true
	}
	if len(r.DishTypes) == 0 {
		return true
	}
	synonyms := t.CategorySynonyms[category]
	if len(synonyms) == 0 {
		synonyms = []string{category}
	}
	for _, tag := range r.DishTypes {
		tag = strings.ToLower(tag)
		for _, syn := range synonyms {
			if strings.Contains(tag, syn) || strings.Contains(syn, tag) {
				return true
			}
		}
	}
	return false
}

// matchesDiet keeps a recipe when its diet tags contain a keyword for the
// requested diet, or, because upstream tagging is inconsistent, when the
// free-text summary mentions it.
func (t Tables) matchesDiet(r Recipe, diet string) bool {
	diet = strings.ToLower(strings.TrimSpace(diet))
	if diet == "" {
		return true
	}
	keywords := t.DietKeywords[diet]
	if len(keywords) == 0 {
		keywords = []string{diet}
	}
	for _, tag := range r.Diets {
		tag = strings.ToLower(tag)
		for _, kw := range keywords {
			if strings.Contains(tag, kw) {
				return true
			}
		}
	}
	summary := strings.ToLower(r.Summary)
	for _, kw := range keywords {
		if strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}

// excludedByAllergen reports whether the recipe's free text mentions a
// keyword for the requested intolerance. This is a best-effort keyword scan
// over prose, not a structured allergen check: absence of a keyword is
// treated as safe, which callers must not present as a guarantee.
func (t Tables) excludedByAllergen(r Recipe, intolerance string) bool {
	intolerance = strings.ToLower(strings.TrimSpace(intolerance))
	if intolerance == "" {
		return false
	}
	keywords := t.AllergenKeywords[intolerance]
	if len(keywords) == 0 {
		keywords = []string{intolerance}
	}
	summary := strings.ToLower(r.Summary)
	for _, kw := range keywords {
		if strings.Contains(summary, kw) {
			return true
		}
	}
	return false
}
