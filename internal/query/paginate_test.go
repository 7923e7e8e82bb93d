package query

import (
	"fmt"
	"testing"
)

func makeRecipes(n int) []Recipe {
	out := make([]Recipe, n)
	for i := range out {
		out[i] = Recipe{
			SourceID: int64(i + 1),
			Title:    fmt.Sprintf("Recipe %d", i+1),
		}
	}
	return out
}

func TestPaginate_Coverage(t *testing.T) {
	// Concatenating every page must reconstruct the input exactly.
	for _, n := range []int{0, 1, 7, 15, 16, 45, 100} {
		for _, pageSize := range []int{1, 7, 15, 30} {
			items := makeRecipes(n)
			var rebuilt []Recipe

			_, totalPages, _ := Paginate(items, 1, pageSize)
			wantPages := (n + pageSize - 1) / pageSize
			if wantPages < 1 {
				wantPages = 1
			}
			if totalPages != wantPages {
				t.Fatalf("n=%d pageSize=%d: totalPages = %d, want %d", n, pageSize, totalPages, wantPages)
			}

			for page := 1; page <= totalPages; page++ {
				pageItems, _, hasMore := Paginate(items, page, pageSize)
				rebuilt = append(rebuilt, pageItems...)
				if wantHasMore := page < totalPages; hasMore != wantHasMore {
					t.Errorf("n=%d pageSize=%d page=%d: hasMore = %v, want %v", n, pageSize, page, hasMore, wantHasMore)
				}
			}

			if len(rebuilt) != n {
				t.Fatalf("n=%d pageSize=%d: rebuilt %d items", n, pageSize, len(rebuilt))
			}
			for i := range rebuilt {
				if rebuilt[i].SourceID != items[i].SourceID {
					t.Fatalf("n=%d pageSize=%d: item %d out of order", n, pageSize, i)
				}
			}
		}
	}
}

func TestPaginate_PageBeyondEnd(t *testing.T) {
	items := makeRecipes(5)
	pageItems, totalPages, hasMore := Paginate(items, 9, 15)
	if len(pageItems) != 0 {
		t.Errorf("page beyond end returned %d items", len(pageItems))
	}
	if totalPages != 1 {
		t.Errorf("totalPages = %d, want 1", totalPages)
	}
	if hasMore {
		t.Error("hasMore should be false past the last page")
	}
}

func TestPaginate_EmptyInput(t *testing.T) {
	pageItems, totalPages, hasMore := Paginate(nil, 1, 15)
	if len(pageItems) != 0 || totalPages != 1 || hasMore {
		t.Errorf("empty input: items=%d totalPages=%d hasMore=%v, want 0/1/false", len(pageItems), totalPages, hasMore)
	}
}

func TestDeduplicate_FirstSeenOrder(t *testing.T) {
	items := []Recipe{
		{SourceID: 2, Title: "B"},
		{SourceID: 1, Title: "A"},
		{SourceID: 2, Title: "B duplicate"},
		{LocalID: "x", Title: "X"},
		{SourceID: 1, Title: "A duplicate"},
		{LocalID: "x", Title: "X duplicate"},
	}
	got := Deduplicate(items)
	if len(got) != 3 {
		t.Fatalf("Deduplicate returned %d items, want 3", len(got))
	}
	if got[0].SourceID != 2 || got[1].SourceID != 1 || got[2].LocalID != "x" {
		t.Errorf("first-seen order not preserved: %+v", got)
	}
	if got[0].Title != "B" {
		t.Errorf("kept entry should be the first occurrence, got %q", got[0].Title)
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	items := []Recipe{
		{SourceID: 1, Title: "A"},
		{SourceID: 1, Title: "A"},
		{Title: "no id"},
		{Title: "no id"},
	}
	once := Deduplicate(items)
	twice := Deduplicate(once)
	if len(once) != len(twice) {
		t.Fatalf("dedup not idempotent: %d then %d", len(once), len(twice))
	}
	for i := range once {
		if once[i].Key() != twice[i].Key() {
			t.Errorf("item %d changed between passes", i)
		}
	}
}

func TestDeduplicate_TitleFallbackKey(t *testing.T) {
	// Records with no identifier at all fall back to the title key.
	items := []Recipe{
		{Title: "Grandma's Stew"},
		{Title: "Grandma's Stew"},
	}
	got := Deduplicate(items)
	if len(got) != 1 {
		t.Errorf("title-keyed duplicates not collapsed: %d items", len(got))
	}
}

func TestRecipeKey_Precedence(t *testing.T) {
	r := Recipe{LocalID: "local-1", SourceID: 99, Title: "T"}
	if r.Key() != "local-1" {
		t.Errorf("Key = %q, want local identifier first", r.Key())
	}
	r = Recipe{SourceID: 99, Title: "T"}
	if r.Key() != "99" {
		t.Errorf("Key = %q, want re-stringified source id", r.Key())
	}
	r = Recipe{Title: "T"}
	if r.Key() != "T" {
		t.Errorf("Key = %q, want title fallback", r.Key())
	}
}
