package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type MessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error)
	GetByID(ctx context.Context, tx *gorm.DB, messageID string) (*types.Message, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]types.Message, error)
	LatestByType(ctx context.Context, tx *gorm.DB, sessionID string, messageType types.MessageType) (*types.Message, error)
	Update(ctx context.Context, tx *gorm.DB, message *types.Message) error
}

type messageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
	return &messageRepo{db: db, log: baseLog.With("repo", "MessageRepo")}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.Message) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if err := transaction.WithContext(ctx).Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

func (mr *messageRepo) GetByID(ctx context.Context, tx *gorm.DB, messageID string) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var message types.Message
	if err := transaction.WithContext(ctx).Where("id = ?", messageID).First(&message).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (mr *messageRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID string) ([]types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var messages []types.Message
	err := transaction.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (mr *messageRepo) LatestByType(ctx context.Context, tx *gorm.DB, sessionID string, messageType types.MessageType) (*types.Message, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var message types.Message
	err := transaction.WithContext(ctx).
		Where("session_id = ? AND type = ?", sessionID, messageType).
		Order("timestamp DESC").
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (mr *messageRepo) Update(ctx context.Context, tx *gorm.DB, message *types.Message) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).Save(message).Error
}
