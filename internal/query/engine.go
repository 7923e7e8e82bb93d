package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrSuperseded is returned when a newer request was issued while this one
// was in flight. The caller should discard the result; the newer request's
// result is the one to render.
var ErrSuperseded = errors.New("query superseded by a newer request")

// UpstreamError wraps a failed upstream fetch. The engine performs no retry
// and returns no partial result; retrying is the caller's responsibility.
type UpstreamError struct {
	Status int
	Err    error
}

// Error returns the error message.
func (e UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream fetch failed (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("upstream fetch failed: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e UpstreamError) Unwrap() error { return e.Err }

// Engine executes recipe queries against a Source. The only state shared
// across requests is the most-recent-request counter used for the
// supersession check, so no locking is required.
type Engine struct {
	source Source
	tables Tables
	policy Policy
	latest atomic.Uint64
}

// NewEngine creates an engine over the given source, facet tables, and
// access-tier policy.
func NewEngine(source Source, tables Tables, policy Policy) *Engine {
	return &Engine{
		source: source,
		tables: tables,
		policy: policy,
	}
}

// ResolveMode selects the query mode. Free-text search always fetches a full
// candidate pool and computes its own fixed-size pages, because mixing text
// relevance with upstream pagination produces inconsistent page boundaries.
// The mode is a pure function of the trimmed search text.
func ResolveMode(req Request) Mode {
	if strings.TrimSpace(req.SearchText) != "" {
		return ModeLocalFiltered
	}
	return ModeRemotePaginated
}

// Execute runs one query and returns one page of results. If a newer Execute
// call was issued while this one's fetch was in flight, the stale result is
// discarded and ErrSuperseded is returned (last-request-wins).
func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	token := e.latest.Add(1)
	req = e.normalize(req)

	var (
		res *Result
		err error
	)
	switch ResolveMode(req) {
	case ModeLocalFiltered:
		res, err = e.executeLocal(ctx, req)
	default:
		res, err = e.executeRemote(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if e.latest.Load() != token {
		return nil, ErrSuperseded
	}

	res.PromptRegister = e.promptRegister(req, res.HasMore)
	return res, nil
}

// normalize fills page and page-size defaults from policy.
func (e *Engine) normalize(req Request) Request {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		if req.IsAuthenticated {
			req.PageSize = e.policy.AuthenticatedPageSize
		} else {
			req.PageSize = e.policy.AnonymousPageSize
		}
	}
	return req
}

// executeRemote translates facet filters into upstream parameters and
// delegates pagination to the source. The difficulty filter is still applied
// in memory: "hard" has no upstream upper-bound translation, and the
// max-ready-time bound over-fetches the easy band into "medium". For easy
// the recompute is redundant but safe.
func (e *Engine) executeRemote(ctx context.Context, req Request) (*Result, error) {
	params := SearchParams{
		MealType:        strings.ToLower(strings.TrimSpace(req.Category)),
		Diet:            strings.ToLower(strings.TrimSpace(req.Diet)),
		Intolerances:    strings.ToLower(strings.TrimSpace(req.Intolerance)),
		MaxReadyMinutes: maxReadyMinutesFor(req.Difficulty),
		Page:            req.Page,
		PageSize:        req.PageSize,
	}

	page, err := e.source.SearchPage(ctx, params)
	if err != nil {
		return nil, asUpstreamError(err)
	}

	items := Deduplicate(dropMalformed(page.Items))
	if req.Difficulty != "" {
		items = e.tables.FilterCandidates(items, Request{Difficulty: req.Difficulty})
	}

	totalPages := (page.Total + req.PageSize - 1) / req.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	return &Result{
		Items:      items,
		Page:       req.Page,
		TotalPages: totalPages,
		HasMore:    req.Page < totalPages,
	}, nil
}

// executeLocal fetches one bounded unfiltered batch and performs all
// narrowing and pagination in memory.
func (e *Engine) executeLocal(ctx context.Context, req Request) (*Result, error) {
	batch, err := e.source.FetchBatch(ctx, e.policy.BatchLimit)
	if err != nil {
		return nil, asUpstreamError(err)
	}

	candidates := Deduplicate(dropMalformed(batch))

	matched := make([]Recipe, 0, len(candidates))
	for _, r := range candidates {
		if MatchesSearchText(r, req.SearchText) {
			matched = append(matched, r)
		}
	}

	filtered := e.tables.FilterCandidates(matched, req)
	pageItems, totalPages, hasMore := Paginate(filtered, req.Page, req.PageSize)

	return &Result{
		Items:      pageItems,
		Page:       req.Page,
		TotalPages: totalPages,
		HasMore:    hasMore,
	}, nil
}

// promptRegister implements the anonymous teaser policy: once an anonymous
// user has paged past the visible limit and more results remain, the UI
// shows a registration prompt instead of "load more".
func (e *Engine) promptRegister(req Request, hasMore bool) bool {
	if req.IsAuthenticated || !hasMore || e.policy.AnonymousVisibleLimit <= 0 {
		return false
	}
	return req.Page*req.PageSize >= e.policy.AnonymousVisibleLimit
}

// asUpstreamError ensures source failures surface as UpstreamError without
// double-wrapping errors the source already typed.
func asUpstreamError(err error) error {
	var ue UpstreamError
	if errors.As(err, &ue) {
		return err
	}
	return UpstreamError{Err: err}
}
