package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type ProcessingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) (*types.ProcessingStatus, error)
	GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ProcessingStatus, error)
	Update(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) error
	UpdateProgress(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) error
	DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error
}

type processingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessingRepo(db *gorm.DB, baseLog *logger.Logger) ProcessingRepo {
	return &processingRepo{db: db, log: baseLog.With("repo", "ProcessingRepo")}
}

func (pr *processingRepo) Create(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) (*types.ProcessingStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(status).Error; err != nil {
		return nil, err
	}
	return status, nil
}

func (pr *processingRepo) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ProcessingStatus, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var status types.ProcessingStatus
	if err := transaction.WithContext(ctx).Where("session_id = ?", sessionID).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &status, nil
}

func (pr *processingRepo) Update(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(status).Error
}

// UpdateProgress writes only the stage and progress columns. The run loop
// uses it so a stop persisted between its reads is never overwritten by the
// stale in-memory status.
func (pr *processingRepo) UpdateProgress(ctx context.Context, tx *gorm.DB, status *types.ProcessingStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ProcessingStatus{}).
		Where("id = ?", status.ID).
		Updates(map[string]interface{}{
			"stages":           status.Stages,
			"overall_progress": status.OverallProgress,
			"current_stage":    status.CurrentStage,
		}).Error
}

func (pr *processingRepo) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.ProcessingStatus{}).Error
}
