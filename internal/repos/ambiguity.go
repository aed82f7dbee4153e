package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type AmbiguityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, data *types.AmbiguityData) (*types.AmbiguityData, error)
	GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*types.AmbiguityData, error)
	Update(ctx context.Context, tx *gorm.DB, data *types.AmbiguityData) error
	DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error
}

type ambiguityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAmbiguityRepo(db *gorm.DB, baseLog *logger.Logger) AmbiguityRepo {
	return &ambiguityRepo{db: db, log: baseLog.With("repo", "AmbiguityRepo")}
}

func (ar *ambiguityRepo) Create(ctx context.Context, tx *gorm.DB, data *types.AmbiguityData) (*types.AmbiguityData, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if err := transaction.WithContext(ctx).Create(data).Error; err != nil {
		return nil, err
	}
	return data, nil
}

func (ar *ambiguityRepo) GetBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*types.AmbiguityData, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	var data types.AmbiguityData
	if err := transaction.WithContext(ctx).Where("session_id = ?", sessionID).First(&data).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &data, nil
}

func (ar *ambiguityRepo) Update(ctx context.Context, tx *gorm.DB, data *types.AmbiguityData) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).Save(data).Error
}

func (ar *ambiguityRepo) DeleteBySession(ctx context.Context, tx *gorm.DB, sessionID string) error {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	return transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&types.AmbiguityData{}).Error
}
