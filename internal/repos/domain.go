package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type DomainRepo interface {
	Create(ctx context.Context, tx *gorm.DB, domain *types.Domain) (*types.Domain, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Domain, error)
	List(ctx context.Context, tx *gorm.DB) ([]types.Domain, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, domainID string) error
}

type domainRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDomainRepo(db *gorm.DB, baseLog *logger.Logger) DomainRepo {
	return &domainRepo{db: db, log: baseLog.With("repo", "DomainRepo")}
}

func (dr *domainRepo) Create(ctx context.Context, tx *gorm.DB, domain *types.Domain) (*types.Domain, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if err := transaction.WithContext(ctx).Create(domain).Error; err != nil {
		return nil, err
	}
	return domain, nil
}

func (dr *domainRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Domain, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var domain types.Domain
	if err := transaction.WithContext(ctx).Where("name = ?", name).First(&domain).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain, nil
}

func (dr *domainRepo) List(ctx context.Context, tx *gorm.DB) ([]types.Domain, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var domains []types.Domain
	if err := transaction.WithContext(ctx).Order("name ASC").Find(&domains).Error; err != nil {
		return nil, err
	}
	return domains, nil
}

func (dr *domainRepo) IncrementUsage(ctx context.Context, tx *gorm.DB, domainID string) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Domain{}).
		Where("id = ?", domainID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
}
