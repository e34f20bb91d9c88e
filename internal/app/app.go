package app

import (
	"fmt"
	"html/template"

	"github.com/jmoiron/sqlx"
	"github.com/vaibhavguptahere/smacad-test/internal/config"
	"github.com/vaibhavguptahere/smacad-test/internal/db"
	"github.com/vaibhavguptahere/smacad-test/internal/markdown"
	"github.com/vaibhavguptahere/smacad-test/internal/repository"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
	"github.com/vaibhavguptahere/smacad-test/internal/storage"
	"github.com/vaibhavguptahere/smacad-test/web"
)

type App struct {
	Cfg              *config.Config
	DB               *sqlx.DB
	Storage          storage.Storage
	Templates        *template.Template
	AuthService      *service.AuthService
	EmailService     *service.EmailService
	NoteService      *service.NoteService
	ContactService   *service.ContactService
	AnalyticsService *service.AnalyticsService
	SitemapService   *service.SitemapService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return Build(cfg, database, fileStorage)
}

// Build wires repositories and services over an open, migrated database and
// a storage backend.
func Build(cfg *config.Config, database *sqlx.DB, fileStorage storage.Storage) (*App, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Repositories
	adminRepository := repository.NewAdminRepository(database)
	noteRepository := repository.NewNoteRepository(database)
	contactRepository := repository.NewContactRepository(database)
	downloadRepository := repository.NewDownloadRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.ContactNotifyEmail,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		adminRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.CookieSecure,
	)
	noteService := service.NewNoteService(
		noteRepository,
		downloadRepository,
		fileStorage,
		markdown.NewParser(),
		cfg.MaxUploadSize,
	)
	contactService := service.NewContactService(contactRepository, emailService)
	analyticsService := service.NewAnalyticsService(noteRepository, contactRepository, downloadRepository, cfg.Location())
	sitemapService := service.NewSitemapService(analyticsService, cfg.AppURL)

	return &App{
		Cfg:              cfg,
		DB:               database,
		Storage:          fileStorage,
		Templates:        templates,
		AuthService:      authService,
		EmailService:     emailService,
		NoteService:      noteService,
		ContactService:   contactService,
		AnalyticsService: analyticsService,
		SitemapService:   sitemapService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
