package repos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type SessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error)
	GetByID(ctx context.Context, tx *gorm.DB, sessionID string) (*types.Session, error)
	GetOwned(ctx context.Context, tx *gorm.DB, sessionID, userID string) (*types.Session, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]types.Session, error)
	SearchByUser(ctx context.Context, tx *gorm.DB, userID, query string) ([]types.Session, error)
	Update(ctx context.Context, tx *gorm.DB, session *types.Session) error
	Delete(ctx context.Context, tx *gorm.DB, sessionID string) error
	CountMessages(ctx context.Context, tx *gorm.DB, sessionID string) (int64, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (sr *sessionRepo) Create(ctx context.Context, tx *gorm.DB, session *types.Session) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (sr *sessionRepo) GetByID(ctx context.Context, tx *gorm.DB, sessionID string) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var session types.Session
	if err := transaction.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) GetOwned(ctx context.Context, tx *gorm.DB, sessionID, userID string) (*types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var session types.Session
	err := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (sr *sessionRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var sessions []types.Session
	query := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *sessionRepo) SearchByUser(ctx context.Context, tx *gorm.DB, userID, query string) ([]types.Session, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	pattern := "%" + strings.ToLower(query) + "%"
	var sessions []types.Session
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("LOWER(title) LIKE ? OR LOWER(domain) LIKE ?", pattern, pattern).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

func (sr *sessionRepo) Update(ctx context.Context, tx *gorm.DB, session *types.Session) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).Save(session).Error
}

func (sr *sessionRepo) Delete(ctx context.Context, tx *gorm.DB, sessionID string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", sessionID).
		Delete(&types.Session{}).Error
}

func (sr *sessionRepo) CountMessages(ctx context.Context, tx *gorm.DB, sessionID string) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var count int64
	err := transaction.WithContext(ctx).
		Model(&types.Message{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}
