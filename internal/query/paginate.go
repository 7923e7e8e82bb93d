package query

// Paginate slices filtered items into the 1-indexed page. Used only in
// local-filtered mode; remote-paginated mode passes upstream metadata through
// instead. totalPages is never below 1, so an empty result still has one
// (empty) page.
func Paginate(items []Recipe, page, pageSize int) (pageItems []Recipe, totalPages int, hasMore bool) {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	totalPages = (len(items) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	hasMore = page < totalPages

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []Recipe{}, totalPages, hasMore
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], totalPages, hasMore
}

// Deduplicate removes entries sharing an identity key, preserving first-seen
// order. Source data may contain accidental duplicates from concurrent
// upstream pages, so this runs on every result. Idempotent.
func Deduplicate(items []Recipe) []Recipe {
	seen := make(map[string]bool, len(items))
	out := make([]Recipe, 0, len(items))
	for _, r := range items {
		key := r.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// dropMalformed removes candidates missing required shape. A record with no
// title has no usable identity fallback and nothing to display, so it is
// silently dropped rather than aborting the whole query.
func dropMalformed(items []Recipe) []Recipe {
	out := make([]Recipe, 0, len(items))
	for _, r := range items {
		if r.Title == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
