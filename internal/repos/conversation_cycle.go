package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type ConversationCycleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, cycle *types.ConversationCycle) (*types.ConversationCycle, error)
	LatestBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ConversationCycle, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]types.ConversationCycle, error)
	Update(ctx context.Context, tx *gorm.DB, cycle *types.ConversationCycle) error
}

type conversationCycleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewConversationCycleRepo(db *gorm.DB, baseLog *logger.Logger) ConversationCycleRepo {
	return &conversationCycleRepo{db: db, log: baseLog.With("repo", "ConversationCycleRepo")}
}

func (cr *conversationCycleRepo) Create(ctx context.Context, tx *gorm.DB, cycle *types.ConversationCycle) (*types.ConversationCycle, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(cycle).Error; err != nil {
		return nil, err
	}
	return cycle, nil
}

func (cr *conversationCycleRepo) LatestBySession(ctx context.Context, tx *gorm.DB, sessionID string) (*types.ConversationCycle, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var cycle types.ConversationCycle
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("cycle_number DESC").
		First(&cycle).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cycle, nil
}

func (cr *conversationCycleRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]types.ConversationCycle, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var cycles []types.ConversationCycle
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("cycle_number ASC").
		Find(&cycles).Error
	if err != nil {
		return nil, err
	}
	return cycles, nil
}

func (cr *conversationCycleRepo) Update(ctx context.Context, tx *gorm.DB, cycle *types.ConversationCycle) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).Save(cycle).Error
}
