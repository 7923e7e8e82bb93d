package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/spoonacular"
	"github.com/smartplates/smartplates-api/internal/testutil"
)

func waitForRun(t *testing.T, done func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if done() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("timed out waiting for backfill run to finish")
}

func TestStartBackfill_Validation(t *testing.T) {
	svc := NewAdminService(&testutil.MockRecipeRepo{}, &testutil.MockBackfillRepo{}, &testutil.MockUpstream{}, nil, 100)

	cases := []struct {
		name string
		req  BackfillRequest
	}{
		{"zero batch size", BackfillRequest{BatchSize: 0, Batches: 1}},
		{"batch size too large", BackfillRequest{BatchSize: 999, Batches: 1}},
		{"zero batches", BackfillRequest{BatchSize: 5, Batches: 0}},
		{"too many batches", BackfillRequest{BatchSize: 5, Batches: 999}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.StartBackfill(1, &tc.req); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestStartBackfill_RejectedWhenQuotaExhausted(t *testing.T) {
	upstream := &testutil.MockUpstream{
		ExhaustedFunc: func() bool { return true },
	}
	svc := NewAdminService(&testutil.MockRecipeRepo{}, &testutil.MockBackfillRepo{}, upstream, nil, 100)

	if _, err := svc.StartBackfill(1, &BackfillRequest{BatchSize: 5, Batches: 2}); err == nil {
		t.Error("expected error when quota is exhausted")
	}
}

func TestStartBackfill_ImportsAndCompletes(t *testing.T) {
	var mu sync.Mutex
	var upserted []int64
	var finalRun *models.BackfillRun

	repo := &testutil.MockRecipeRepo{
		UpsertCachedRecipeFunc: func(recipe *models.CachedRecipe) error {
			mu.Lock()
			defer mu.Unlock()
			upserted = append(upserted, recipe.SourceID)
			return nil
		},
	}
	backfills := &testutil.MockBackfillRepo{
		UpdateRunFunc: func(run *models.BackfillRun) error {
			mu.Lock()
			defer mu.Unlock()
			if run.FinishedAt != nil {
				copied := *run
				finalRun = &copied
			}
			return nil
		},
	}
	next := int64(0)
	upstream := &testutil.MockUpstream{
		RandomBatchFunc: func(ctx context.Context, tags string, count int) ([]*spoonacular.RecipeDetail, error) {
			details := make([]*spoonacular.RecipeDetail, 0, count)
			for i := 0; i < count; i++ {
				next++
				details = append(details, testutil.TestRecipeDetail(next, "Imported Recipe"))
			}
			return details, nil
		},
	}

	svc := NewAdminService(repo, backfills, upstream, nil, 1000)
	run, err := svc.StartBackfill(1, &BackfillRequest{Tags: "vegetarian", BatchSize: 3, Batches: 2})
	if err != nil {
		t.Fatalf("StartBackfill returned error: %v", err)
	}
	if run.Status != models.BackfillRunning {
		t.Errorf("initial status = %q, want running", run.Status)
	}

	waitForRun(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return finalRun != nil
	})

	mu.Lock()
	defer mu.Unlock()
	if finalRun.Status != models.BackfillCompleted {
		t.Errorf("final status = %q, want completed", finalRun.Status)
	}
	if finalRun.Imported != 6 {
		t.Errorf("imported = %d, want 6", finalRun.Imported)
	}
	if len(upserted) != 6 {
		t.Errorf("upserts = %d, want 6", len(upserted))
	}
}

func TestStartBackfill_UpstreamFailureMarksRunFailed(t *testing.T) {
	var mu sync.Mutex
	var finalRun *models.BackfillRun

	backfills := &testutil.MockBackfillRepo{
		UpdateRunFunc: func(run *models.BackfillRun) error {
			mu.Lock()
			defer mu.Unlock()
			if run.FinishedAt != nil {
				copied := *run
				finalRun = &copied
			}
			return nil
		},
	}
	upstream := &testutil.MockUpstream{
		RandomBatchFunc: func(ctx context.Context, tags string, count int) ([]*spoonacular.RecipeDetail, error) {
			return nil, errors.New("payment required")
		},
	}

	svc := NewAdminService(&testutil.MockRecipeRepo{}, backfills, upstream, nil, 1000)
	if _, err := svc.StartBackfill(1, &BackfillRequest{BatchSize: 3, Batches: 2}); err != nil {
		t.Fatalf("StartBackfill returned error: %v", err)
	}

	waitForRun(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return finalRun != nil
	})

	mu.Lock()
	defer mu.Unlock()
	if finalRun.Status != models.BackfillFailed {
		t.Errorf("final status = %q, want failed", finalRun.Status)
	}
	if finalRun.LastError == "" {
		t.Error("expected LastError to be recorded")
	}
}

func TestStartBackfill_MalformedRecordsCountedFailed(t *testing.T) {
	var mu sync.Mutex
	var finalRun *models.BackfillRun

	backfills := &testutil.MockBackfillRepo{
		UpdateRunFunc: func(run *models.BackfillRun) error {
			mu.Lock()
			defer mu.Unlock()
			if run.FinishedAt != nil {
				copied := *run
				finalRun = &copied
			}
			return nil
		},
	}
	upstream := &testutil.MockUpstream{
		RandomBatchFunc: func(ctx context.Context, tags string, count int) ([]*spoonacular.RecipeDetail, error) {
			good := testutil.TestRecipeDetail(1, "Good Recipe")
			missingTitle := testutil.TestRecipeDetail(2, "")
			return []*spoonacular.RecipeDetail{good, missingTitle}, nil
		},
	}

	svc := NewAdminService(&testutil.MockRecipeRepo{}, backfills, upstream, nil, 1000)
	if _, err := svc.StartBackfill(1, &BackfillRequest{BatchSize: 2, Batches: 1}); err != nil {
		t.Fatalf("StartBackfill returned error: %v", err)
	}

	waitForRun(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return finalRun != nil
	})

	mu.Lock()
	defer mu.Unlock()
	if finalRun.Imported != 1 {
		t.Errorf("imported = %d, want 1", finalRun.Imported)
	}
	if finalRun.Failed != 1 {
		t.Errorf("failed = %d, want 1", finalRun.Failed)
	}
}

func TestReviewUpload(t *testing.T) {
	var gotStatus models.ModerationStatus
	var gotReviewer uint
	repo := &testutil.MockRecipeRepo{
		SetModerationStatusFunc: func(recipeID uint, status models.ModerationStatus, reviewerID uint, note string) error {
			gotStatus = status
			gotReviewer = reviewerID
			return nil
		},
	}

	svc := NewAdminService(repo, &testutil.MockBackfillRepo{}, &testutil.MockUpstream{}, nil, 1)

	if err := svc.ReviewUpload(10, true, 2, "looks great"); err != nil {
		t.Fatalf("ReviewUpload returned error: %v", err)
	}
	if gotStatus != models.ModerationApproved {
		t.Errorf("status = %q, want approved", gotStatus)
	}
	if gotReviewer != 2 {
		t.Errorf("reviewer = %d, want 2", gotReviewer)
	}

	if err := svc.ReviewUpload(11, false, 2, "spam"); err != nil {
		t.Fatalf("ReviewUpload returned error: %v", err)
	}
	if gotStatus != models.ModerationRejected {
		t.Errorf("status = %q, want rejected", gotStatus)
	}
}

func TestGetQuotaReport(t *testing.T) {
	var saved *models.QuotaSnapshot
	backfills := &testutil.MockBackfillRepo{
		SaveQuotaSnapshotFunc: func(snapshot *models.QuotaSnapshot) error {
			saved = snapshot
			return nil
		},
	}
	repo := &testutil.MockRecipeRepo{
		CountCachedRecipesFunc: func() (int64, error) { return 240, nil },
	}
	upstream := &testutil.MockUpstream{
		QuotaFunc: func() spoonacular.QuotaStatus {
			return spoonacular.QuotaStatus{Used: 42.5, Remaining: 107.5}
		},
	}

	svc := NewAdminService(repo, backfills, upstream, nil, 1)
	report, err := svc.GetQuotaReport()
	if err != nil {
		t.Fatalf("GetQuotaReport returned error: %v", err)
	}
	if report.Quota.Used != 42.5 {
		t.Errorf("Used = %v, want 42.5", report.Quota.Used)
	}
	if report.CachedCount != 240 {
		t.Errorf("CachedCount = %d, want 240", report.CachedCount)
	}
	if saved == nil || saved.Used != 42.5 {
		t.Error("expected quota snapshot to be persisted")
	}
}
