package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type DomainService interface {
	List(ctx context.Context) ([]types.Domain, []string, error)
	Create(ctx context.Context, name, description string) (*types.Domain, error)
}

type domainService struct {
	db         *gorm.DB
	log        *logger.Logger
	cfg        *config.Config
	domainRepo repos.DomainRepo
}

func NewDomainService(db *gorm.DB, log *logger.Logger, cfg *config.Config, domainRepo repos.DomainRepo) DomainService {
	return &domainService{
		db:         db,
		log:        log.With("service", "DomainService"),
		cfg:        cfg,
		domainRepo: domainRepo,
	}
}

// List returns registered domains ordered by usage (busiest first, then by
// name) together with the configured default set.
func (ds *domainService) List(ctx context.Context) ([]types.Domain, []string, error) {
	domains, err := ds.domainRepo.List(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("list domains: %w", err)
	}
	sort.SliceStable(domains, func(i, j int) bool {
		if domains[i].UsageCount != domains[j].UsageCount {
			return domains[i].UsageCount > domains[j].UsageCount
		}
		return domains[i].Name < domains[j].Name
	})
	return domains, ds.cfg.Analytics.SupportedDomains, nil
}

func (ds *domainService) Create(ctx context.Context, name, description string) (*types.Domain, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: domain name is required", ErrValidation)
	}

	id := types.DomainID(name)
	existing, err := ds.domainRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list domains: %w", err)
	}
	for _, d := range existing {
		if d.ID == id {
			return nil, fmt.Errorf("%w: domain", ErrConflict)
		}
	}

	if strings.TrimSpace(description) == "" {
		description = fmt.Sprintf("%s analytics and insights", name)
	}
	domain, err := ds.domainRepo.Create(ctx, nil, &types.Domain{
		ID:          id,
		Name:        name,
		Description: description,
	})
	if err != nil {
		return nil, fmt.Errorf("create domain: %w", err)
	}
	ds.log.Info("Domain created", "domain", name)
	return domain, nil
}
