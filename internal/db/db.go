package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/config"
	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewService connects to the configured database. Postgres is the deployment
// target; sqlite covers local runs and tests (":memory:" supported).
func NewService(cfg config.DatabaseConfig, log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)
		dialector = postgres.Open(dsn)
	case "sqlite", "":
		path := cfg.Path
		if path == "" {
			path = "analytics_engine.db"
		}
		dialector = sqlite.Open(path + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	serviceLog.Info("Connecting to database...", "driver", cfg.Driver)
	gdb, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

// AutoMigrateAll creates the schema. Session deletion cascades through
// messages, ambiguity data, processing status (and its logs), and cycles via
// the constraint tags on the models.
func (s *Service) AutoMigrateAll() error {
	s.log.Info("Auto migrating tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Session{},
		&types.Message{},
		&types.AmbiguityData{},
		&types.ProcessingStatus{},
		&types.ProcessingLog{},
		&types.Domain{},
		&types.ConversationCycle{},
	)
	if err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

// SeedDefaults provisions the demo users and the configured domains, skipping
// rows that already exist.
func (s *Service) SeedDefaults(cfg *config.Config) error {
	users := []types.User{
		{ID: "user_1", Email: "sarah.johnson@bluesherpa.com", Name: "Sarah Johnson", Role: "Data Analyst"},
		{ID: "user_admin", Email: "admin@bluesherpa.com", Name: "Admin User", Role: "Administrator"},
	}
	for i := range users {
		var count int64
		if err := s.db.Model(&types.User{}).Where("email = ?", users[i].Email).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := s.db.Create(&users[i]).Error; err != nil {
				return err
			}
		}
	}

	for _, name := range cfg.Analytics.SupportedDomains {
		id := types.DomainID(name)
		var count int64
		if err := s.db.Model(&types.Domain{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			d := types.Domain{
				ID:          id,
				Name:        name,
				Description: fmt.Sprintf("%s analytics and insights", name),
			}
			if err := s.db.Create(&d).Error; err != nil {
				return err
			}
		}
	}
	s.log.Info("Database seeded")
	return nil
}

func (s *Service) DB() *gorm.DB {
	return s.db
}
