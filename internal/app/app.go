package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/futurenote/futurenote/internal/config"
	"github.com/futurenote/futurenote/internal/db"
	"github.com/futurenote/futurenote/internal/ratelimit"
	"github.com/futurenote/futurenote/internal/repository"
	"github.com/futurenote/futurenote/internal/secure"
	"github.com/futurenote/futurenote/internal/service"
	"github.com/futurenote/futurenote/internal/storage"
)

type App struct {
	Cfg     *config.Config
	DB      *sqlx.DB
	Limiter *ratelimit.Limiter

	AdminAuthService  *service.AdminAuthService
	GoalService       *service.GoalService
	ReminderService   *service.ReminderService
	BadgeService      *service.BadgeService
	ModerationService *service.ModerationService
	ExportService     *service.ExportService
}

// Deps are the collaborators that reach outside the process.
type Deps struct {
	Mailer  service.Mailer
	Storage storage.Storage // nil disables exports
	Limiter *ratelimit.Limiter
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	exportStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)

	a, err := Build(cfg, database, Deps{
		Mailer:  emailService,
		Storage: exportStorage,
		Limiter: ratelimit.NewInMemory(),
	})
	if err != nil {
		_ = db.Close(database)
		return nil, err
	}
	return a, nil
}

// Build wires repositories and services over an open, migrated database.
func Build(cfg *config.Config, database *sqlx.DB, deps Deps) (*App, error) {
	key, err := cfg.EncryptionKeyBytes()
	if err != nil {
		return nil, err
	}
	cipher, err := secure.NewEmailCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize email cipher: %w", err)
	}

	limiter := deps.Limiter
	if limiter == nil {
		limiter = ratelimit.NewInMemory()
	}

	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	reportRepository := repository.NewReportRepository(database)
	badgeRepository := repository.NewBadgeRepository(database)
	emailLogRepository := repository.NewEmailLogRepository(database)
	adminRepository := repository.NewAdminRepository(database)

	// Services
	badgeService := service.NewBadgeService(goalRepository, badgeRepository)
	goalService := service.NewGoalService(goalRepository, emailLogRepository, badgeService, cipher, deps.Mailer)
	reminderService := service.NewReminderService(goalRepository, emailLogRepository, cipher, deps.Mailer, cfg.ReminderBatchSize)
	moderationService := service.NewModerationService(goalRepository, reportRepository)
	exportService := service.NewExportService(goalRepository, deps.Storage)
	adminAuthService := service.NewAdminAuthService(adminRepository, cfg.JWTSecret, cfg.JWTExpiry, cfg.IsProduction())

	return &App{
		Cfg:               cfg,
		DB:                database,
		Limiter:           limiter,
		AdminAuthService:  adminAuthService,
		GoalService:       goalService,
		ReminderService:   reminderService,
		BadgeService:      badgeService,
		ModerationService: moderationService,
		ExportService:     exportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
