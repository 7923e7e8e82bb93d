package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// mockSource is an in-test Source with overridable funcs.
type mockSource struct {
	SearchPageFunc func(ctx context.Context, params SearchParams) (*PageResult, error)
	FetchBatchFunc func(ctx context.Context, limit int) ([]Recipe, error)

	mu         sync.Mutex
	lastParams SearchParams
	lastLimit  int
}

func (m *mockSource) SearchPage(ctx context.Context, params SearchParams) (*PageResult, error) {
	m.mu.Lock()
	m.lastParams = params
	m.mu.Unlock()
	if m.SearchPageFunc != nil {
		return m.SearchPageFunc(ctx, params)
	}
	return &PageResult{}, nil
}

func (m *mockSource) FetchBatch(ctx context.Context, limit int) ([]Recipe, error) {
	m.mu.Lock()
	m.lastLimit = limit
	m.mu.Unlock()
	if m.FetchBatchFunc != nil {
		return m.FetchBatchFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockSource) LastParams() SearchParams {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastParams
}

func (m *mockSource) LastLimit() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLimit
}

func newTestEngine(src Source) *Engine {
	return NewEngine(src, DefaultTables(), Policy{
		AuthenticatedPageSize: 30,
		AnonymousPageSize:     15,
		AnonymousVisibleLimit: 30,
		BatchLimit:            100,
	})
}

func TestResolveMode_Determinism(t *testing.T) {
	cases := []struct {
		text string
		want Mode
	}{
		{"", ModeRemotePaginated},
		{"   ", ModeRemotePaginated},
		{"pasta", ModeLocalFiltered},
		{"  pasta  ", ModeLocalFiltered},
	}
	for _, c := range cases {
		// Other fields must not affect the mode.
		variants := []Request{
			{SearchText: c.text},
			{SearchText: c.text, Category: "dinner", Diet: "vegan", Page: 7, IsAuthenticated: true},
			{SearchText: c.text, Difficulty: DifficultyHard, PageSize: 3},
		}
		for _, req := range variants {
			if got := ResolveMode(req); got != c.want {
				t.Errorf("ResolveMode(%q with %+v) = %q, want %q", c.text, req, got, c.want)
			}
		}
	}
}

func TestExecute_RemotePaginated_ScenarioA(t *testing.T) {
	// 45 candidates upstream, category=dinner, page 2 of 15, authenticated.
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			items := make([]Recipe, 15)
			for i := range items {
				items[i] = Recipe{SourceID: int64(15 + i + 1), Title: fmt.Sprintf("Dinner %d", 15+i+1)}
			}
			return &PageResult{Items: items, Total: 45}, nil
		},
	}
	engine := newTestEngine(src)

	res, err := engine.Execute(context.Background(), Request{
		Category:        "dinner",
		Page:            2,
		PageSize:        15,
		IsAuthenticated: true,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if src.LastParams().MealType != "dinner" {
		t.Errorf("upstream meal type = %q, want dinner", src.LastParams().MealType)
	}
	if src.LastParams().Page != 2 || src.LastParams().PageSize != 15 {
		t.Errorf("upstream pagination = page %d size %d, want 2/15", src.LastParams().Page, src.LastParams().PageSize)
	}
	if res.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3 (total 45 / 15)", res.TotalPages)
	}
	if !res.HasMore {
		t.Error("HasMore should be true on page 2 of 3")
	}
	if len(res.Items) != 15 {
		t.Errorf("Items = %d, want 15", len(res.Items))
	}
	if res.PromptRegister {
		t.Error("authenticated requests never get a register prompt")
	}
}

func TestExecute_LocalFiltered_ScenarioB(t *testing.T) {
	// searchText="pasta", 3 of 100 fetched candidates match in title.
	src := &mockSource{
		FetchBatchFunc: func(ctx context.Context, limit int) ([]Recipe, error) {
			items := make([]Recipe, 0, 100)
			for i := 1; i <= 100; i++ {
				title := fmt.Sprintf("Dish %d", i)
				if i <= 3 {
					title = fmt.Sprintf("Pasta Special %d", i)
				}
				items = append(items, Recipe{SourceID: int64(i), Title: title})
			}
			return items, nil
		},
	}
	engine := newTestEngine(src)

	res, err := engine.Execute(context.Background(), Request{
		SearchText:      "pasta",
		PageSize:        30,
		IsAuthenticated: true,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if src.LastLimit() != 100 {
		t.Errorf("batch limit = %d, want 100", src.LastLimit())
	}
	if len(res.Items) != 3 {
		t.Errorf("Items = %d, want 3", len(res.Items))
	}
	if res.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", res.TotalPages)
	}
	if res.HasMore {
		t.Error("HasMore should be false")
	}
}

func TestExecute_UpstreamFailure_ScenarioD(t *testing.T) {
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	engine := newTestEngine(src)

	res, err := engine.Execute(context.Background(), Request{Category: "dinner"})
	if res != nil {
		t.Error("no partial result on upstream failure")
	}
	var ue UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T, want UpstreamError", err)
	}
}

func TestExecute_UpstreamErrorPassedThroughVerbatim(t *testing.T) {
	orig := UpstreamError{Status: 502, Err: errors.New("bad gateway")}
	src := &mockSource{
		FetchBatchFunc: func(ctx context.Context, limit int) ([]Recipe, error) {
			return nil, orig
		},
	}
	engine := newTestEngine(src)

	_, err := engine.Execute(context.Background(), Request{SearchText: "soup"})
	var ue UpstreamError
	if !errors.As(err, &ue) || ue.Status != 502 {
		t.Errorf("typed upstream error not propagated verbatim: %v", err)
	}
}

func TestExecute_DifficultyFilterAppliedInRemoteMode(t *testing.T) {
	// Upstream max-ready-time over-fetches the easy band into "medium"; the
	// engine must still split the band in memory.
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			return &PageResult{
				Items: []Recipe{
					{SourceID: 1, Title: "Quick", ReadyInMinutes: 10},
					{SourceID: 2, Title: "Mid", ReadyInMinutes: 25},
				},
				Total: 2,
			}, nil
		},
	}
	engine := newTestEngine(src)

	res, err := engine.Execute(context.Background(), Request{
		Difficulty:      DifficultyMedium,
		IsAuthenticated: true,
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if src.LastParams().MaxReadyMinutes != 34 {
		t.Errorf("upstream max ready = %d, want 34", src.LastParams().MaxReadyMinutes)
	}
	if len(res.Items) != 1 || res.Items[0].SourceID != 2 {
		t.Errorf("medium band not split in memory: %+v", res.Items)
	}
}

func TestExecute_MalformedRecordsDropped(t *testing.T) {
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			return &PageResult{
				Items: []Recipe{
					{SourceID: 1, Title: "Good"},
					{SourceID: 2}, // no title: dropped, not fatal
					{SourceID: 3, Title: "Also Good"},
				},
				Total: 3,
			}, nil
		},
	}
	engine := newTestEngine(src)

	res, err := engine.Execute(context.Background(), Request{IsAuthenticated: true})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("Items = %d, want 2 (malformed dropped silently)", len(res.Items))
	}
}

func TestExecute_DeduplicatesWithinResult(t *testing.T) {
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			return &PageResult{
				Items: []Recipe{
					{SourceID: 7, Title: "Dup"},
					{SourceID: 7, Title: "Dup"},
					{SourceID: 8, Title: "Solo"},
				},
				Total: 3,
			}, nil
		},
	}
	engine := newTestEngine(src)

	res, err := engine.Execute(context.Background(), Request{IsAuthenticated: true})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	seen := map[string]bool{}
	for _, r := range res.Items {
		if seen[r.Key()] {
			t.Fatalf("duplicate id %q in one result", r.Key())
		}
		seen[r.Key()] = true
	}
}

func TestExecute_SupersededRequestDiscarded(t *testing.T) {
	// An older request whose fetch completes after a newer request was issued
	// must be discarded (last-request-wins).
	started := make(chan struct{})
	release := make(chan struct{})
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			if params.Page == 1 {
				close(started)
				<-release
				return &PageResult{Items: []Recipe{{SourceID: 99, Title: "Stale"}}, Total: 1}, nil
			}
			return &PageResult{Items: []Recipe{{SourceID: 2, Title: "Fresh"}}, Total: 1}, nil
		},
	}
	engine := newTestEngine(src)

	type outcome struct {
		res *Result
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := engine.Execute(context.Background(), Request{Page: 1, IsAuthenticated: true})
		first <- outcome{res, err}
	}()

	<-started
	res2, err := engine.Execute(context.Background(), Request{Page: 2, IsAuthenticated: true})
	if err != nil {
		t.Fatalf("newer Execute error: %v", err)
	}
	if len(res2.Items) != 1 || res2.Items[0].SourceID != 2 {
		t.Errorf("newer request result wrong: %+v", res2.Items)
	}

	close(release)
	out := <-first
	if !errors.Is(out.err, ErrSuperseded) {
		t.Errorf("stale request error = %v, want ErrSuperseded", out.err)
	}
	if out.res != nil {
		t.Error("stale request must not return a result")
	}
}

func TestExecute_PageSizeDefaultsByTier(t *testing.T) {
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			return &PageResult{Total: 0}, nil
		},
	}
	engine := newTestEngine(src)

	if _, err := engine.Execute(context.Background(), Request{IsAuthenticated: true}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if src.LastParams().PageSize != 30 {
		t.Errorf("authenticated default page size = %d, want 30", src.LastParams().PageSize)
	}

	if _, err := engine.Execute(context.Background(), Request{}); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if src.LastParams().PageSize != 15 {
		t.Errorf("anonymous default page size = %d, want 15", src.LastParams().PageSize)
	}
}

func TestExecute_AnonymousRegisterPrompt(t *testing.T) {
	src := &mockSource{
		SearchPageFunc: func(ctx context.Context, params SearchParams) (*PageResult, error) {
			items := make([]Recipe, params.PageSize)
			for i := range items {
				items[i] = Recipe{SourceID: int64((params.Page-1)*params.PageSize + i + 1), Title: fmt.Sprintf("R%d", i)}
			}
			return &PageResult{Items: items, Total: 200}, nil
		},
	}
	engine := newTestEngine(src)

	// Page 1 of 15 for an anonymous user: under the 30-item teaser limit.
	res, err := engine.Execute(context.Background(), Request{Page: 1})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if res.PromptRegister {
		t.Error("page 1 should not prompt registration")
	}

	// Page 2 reaches the limit.
	res, err = engine.Execute(context.Background(), Request{Page: 2})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !res.PromptRegister {
		t.Error("anonymous page 2 of a large result should prompt registration")
	}
}
