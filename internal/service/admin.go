package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smartplates/smartplates-api/internal/logger"
	"github.com/smartplates/smartplates-api/internal/models"
	"github.com/smartplates/smartplates-api/internal/query"
	"github.com/smartplates/smartplates-api/internal/repository"
	"github.com/smartplates/smartplates-api/internal/spoonacular"
	"github.com/smartplates/smartplates-api/internal/ws"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	maxBackfillBatchSize = 25
	maxBackfillBatches   = 40
	defaultRunListLimit  = 20
)

// AdminService is the business logic layer for moderation, quota reporting,
// and cache backfill runs.
type AdminService struct {
	Recipes   repository.RecipeRepo
	Backfills repository.BackfillRepo
	Upstream  UpstreamSource
	Hub       *ws.Hub
	limiter   *rate.Limiter
}

// NewAdminService is the constructor function for initializing a new AdminService.
// rps paces backfill requests against the upstream API.
func NewAdminService(recipes repository.RecipeRepo, backfills repository.BackfillRepo, upstream UpstreamSource, hub *ws.Hub, rps float64) *AdminService {
	if rps <= 0 {
		rps = 1
	}
	return &AdminService{
		Recipes:   recipes,
		Backfills: backfills,
		Upstream:  upstream,
		Hub:       hub,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// ModerationQueue returns pending uploads, flagged ones first.
func (s *AdminService) ModerationQueue(limit int) ([]models.UserRecipe, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Recipes.GetModerationQueue(limit)
}

// ReviewUpload records an approve or reject decision on a pending upload.
func (s *AdminService) ReviewUpload(recipeID uint, approve bool, reviewerID uint, note string) error {
	status := models.ModerationRejected
	if approve {
		status = models.ModerationApproved
	}
	if err := s.Recipes.SetModerationStatus(recipeID, status, reviewerID, note); err != nil {
		return err
	}
	logger.Get().Info("upload reviewed",
		zap.Uint("recipe_id", recipeID),
		zap.String("status", string(status)),
		zap.Uint("reviewer_id", reviewerID),
	)
	return nil
}

// QuotaReport is the dashboard view of upstream quota and cache size.
type QuotaReport struct {
	Quota       spoonacular.QuotaStatus `json:"quota"`
	CachedCount int64                   `json:"cachedCount"`
}

// GetQuotaReport snapshots current upstream quota usage and returns it with
// the cache size. The snapshot is persisted so consumption can be charted.
func (s *AdminService) GetQuotaReport() (*QuotaReport, error) {
	quota := s.Upstream.Quota()

	snapshot := &models.QuotaSnapshot{
		Used:      quota.Used,
		Remaining: quota.Remaining,
		Exhausted: quota.Exhausted,
	}
	if err := s.Backfills.SaveQuotaSnapshot(snapshot); err != nil {
		logger.Get().Warn("failed to persist quota snapshot", zap.Error(err))
	}

	count, err := s.Recipes.CountCachedRecipes()
	if err != nil {
		return nil, fmt.Errorf("failed to count cached recipes: %w", err)
	}

	return &QuotaReport{Quota: quota, CachedCount: count}, nil
}

// BackfillRequest is the payload for starting a backfill run.
type BackfillRequest struct {
	Tags      string `json:"tags"` // comma-separated upstream tags, empty = random
	BatchSize int    `json:"batchSize"`
	Batches   int    `json:"batches"`
}

// StartBackfill validates the request, records the run, and launches the
// worker. The returned run carries the public run ID watchers subscribe to.
func (s *AdminService) StartBackfill(adminID uint, req *BackfillRequest) (*models.BackfillRun, error) {
	if s.Upstream.Exhausted() {
		return nil, errors.New("upstream quota is exhausted")
	}
	if req.BatchSize <= 0 || req.BatchSize > maxBackfillBatchSize {
		return nil, fmt.Errorf("batchSize must be between 1 and %d", maxBackfillBatchSize)
	}
	if req.Batches <= 0 || req.Batches > maxBackfillBatches {
		return nil, fmt.Errorf("batches must be between 1 and %d", maxBackfillBatches)
	}

	run := &models.BackfillRun{
		RunID:       uuid.New(),
		Tags:        req.Tags,
		BatchSize:   req.BatchSize,
		Batches:     req.Batches,
		Status:      models.BackfillRunning,
		StartedByID: adminID,
	}
	if err := s.Backfills.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	go s.runBackfill(run)

	return run, nil
}

// runBackfill executes the batches of one run. It paces requests with the
// shared limiter and stops early when the upstream quota runs out.
func (s *AdminService) runBackfill(run *models.BackfillRun) {
	log := logger.Get().With(zap.String("run_id", run.RunID.String()))
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	log.Info("backfill started",
		zap.String("tags", run.Tags),
		zap.Int("batch_size", run.BatchSize),
		zap.Int("batches", run.Batches),
	)

	var runErr error
	for batch := 1; batch <= run.Batches; batch++ {
		if err := s.limiter.Wait(ctx); err != nil {
			runErr = err
			break
		}

		details, err := s.Upstream.RandomBatch(ctx, run.Tags, run.BatchSize)
		if err != nil {
			runErr = err
			break
		}

		for _, d := range details {
			if d.SourceID == 0 || d.Title == "" {
				run.Failed++
				continue
			}
			if err := s.Recipes.UpsertCachedRecipe(detailToCached(d)); err != nil {
				log.Warn("failed to cache recipe",
					zap.Int64("source_id", d.SourceID),
					zap.Error(err),
				)
				run.Failed++
				continue
			}
			run.Imported++
		}

		if err := s.Backfills.UpdateRun(run); err != nil {
			log.Warn("failed to persist run progress", zap.Error(err))
		}
		s.pushProgress(ws.MsgTypeProgress, run, batch, "")

		if s.Upstream.Exhausted() {
			runErr = errors.New("upstream quota exhausted")
			break
		}
	}

	now := time.Now()
	run.FinishedAt = &now
	msgType := ws.MsgTypeCompleted
	run.Status = models.BackfillCompleted
	errText := ""
	if runErr != nil {
		msgType = ws.MsgTypeFailed
		run.Status = models.BackfillFailed
		run.LastError = runErr.Error()
		errText = runErr.Error()
		log.Error("backfill failed", zap.Error(runErr), zap.Int("imported", run.Imported))
	} else {
		log.Info("backfill completed",
			zap.Int("imported", run.Imported),
			zap.Int("failed", run.Failed),
		)
	}

	if err := s.Backfills.UpdateRun(run); err != nil {
		log.Error("failed to persist run result", zap.Error(err))
	}
	s.pushProgress(msgType, run, run.Batches, errText)
}

func (s *AdminService) pushProgress(msgType string, run *models.BackfillRun, batch int, errText string) {
	if s.Hub == nil {
		return
	}
	quota := s.Upstream.Quota()
	s.Hub.PushProgress(msgType, ws.ProgressPayload{
		RunID:          run.RunID.String(),
		Batch:          batch,
		Batches:        run.Batches,
		Imported:       run.Imported,
		Failed:         run.Failed,
		QuotaUsed:      quota.Used,
		QuotaRemaining: quota.Remaining,
		QuotaExhausted: quota.Exhausted,
		Error:          errText,
	})
}

func detailToCached(d *spoonacular.RecipeDetail) *models.CachedRecipe {
	ingredients := make([]string, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		if ing.OriginalText != "" {
			ingredients = append(ingredients, ing.OriginalText)
		} else {
			ingredients = append(ingredients, ing.Name)
		}
	}
	return &models.CachedRecipe{
		SourceID:     d.SourceID,
		Title:        d.Title,
		Summary:      d.Summary,
		ImageURL:     d.ImageURL,
		SourceURL:    d.SourceURL,
		Ingredients:  ingredients,
		Diets:        d.Diets,
		DishTypes:    d.DishTypes,
		ReadyMinutes: query.ResolveReadyMinutes(d.Recipe),
		CookMinutes:  d.CookingMinutes,
		Servings:     d.Servings,
	}
}

// GetRun returns one run by its public run ID.
func (s *AdminService) GetRun(runID string) (*models.BackfillRun, error) {
	return s.Backfills.GetRunByRunID(runID)
}

// ListRuns returns recent runs, newest first.
func (s *AdminService) ListRuns() ([]models.BackfillRun, error) {
	return s.Backfills.ListRuns(defaultRunListLimit)
}
