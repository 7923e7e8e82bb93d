package repository

import (
	"errors"

	"github.com/smartplates/smartplates-api/internal/models"
	"gorm.io/gorm"
)

// BackfillRepository is a repository for backfill runs and quota snapshots.
type BackfillRepository struct {
	DB *gorm.DB
}

// NewBackfillRepository creates a new BackfillRepository.
func NewBackfillRepository(db *gorm.DB) *BackfillRepository {
	return &BackfillRepository{DB: db}
}

// CreateRun records the start of a backfill run.
func (r *BackfillRepository) CreateRun(run *models.BackfillRun) error {
	return r.DB.Create(run).Error
}

// UpdateRun persists progress or final state of a run.
func (r *BackfillRepository) UpdateRun(run *models.BackfillRun) error {
	return r.DB.Save(run).Error
}

// GetRunByRunID retrieves a run by its public run ID.
func (r *BackfillRepository) GetRunByRunID(runID string) (*models.BackfillRun, error) {
	var run models.BackfillRun
	if err := r.DB.Where("run_id = ?", runID).First(&run).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "Backfill run not found"}
		}
		return nil, err
	}
	return &run, nil
}

// ListRuns retrieves recent runs, newest first.
func (r *BackfillRepository) ListRuns(limit int) ([]models.BackfillRun, error) {
	var runs []models.BackfillRun
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}

// SaveQuotaSnapshot records a point-in-time view of upstream quota usage.
func (r *BackfillRepository) SaveQuotaSnapshot(snapshot *models.QuotaSnapshot) error {
	return r.DB.Create(snapshot).Error
}

// LatestQuotaSnapshot retrieves the most recent quota snapshot.
func (r *BackfillRepository) LatestQuotaSnapshot() (*models.QuotaSnapshot, error) {
	var snapshot models.QuotaSnapshot
	if err := r.DB.Order("created_at DESC").First(&snapshot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError{message: "No quota snapshot recorded"}
		}
		return nil, err
	}
	return &snapshot, nil
}
