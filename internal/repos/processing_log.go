package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type ProcessingLogRepo interface {
	Append(ctx context.Context, tx *gorm.DB, entry *types.ProcessingLog) (*types.ProcessingLog, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]types.ProcessingLog, error)
	DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error
}

type processingLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProcessingLogRepo(db *gorm.DB, baseLog *logger.Logger) ProcessingLogRepo {
	return &processingLogRepo{db: db, log: baseLog.With("repo", "ProcessingLogRepo")}
}

func (plr *processingLogRepo) Append(ctx context.Context, tx *gorm.DB, entry *types.ProcessingLog) (*types.ProcessingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = plr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (plr *processingLogRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]types.ProcessingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = plr.db
	}
	var entries []types.ProcessingLog
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (plr *processingLogRepo) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error {
	transaction := tx
	if transaction == nil {
		transaction = plr.db
	}
	return transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.ProcessingLog{}).Error
}
