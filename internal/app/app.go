// Package app wires configuration, storage, adapters and services together.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	_ "github.com/lib/pq"

	"minibadge/config"
	"minibadge/internal/adapters/auth"
	"minibadge/internal/adapters/email"
	"minibadge/internal/adapters/storage"
	deliveryhttp "minibadge/internal/delivery/http"
	"minibadge/internal/delivery/http/controllers"
	"minibadge/internal/delivery/http/middleware"
	"minibadge/internal/domain"
	"minibadge/internal/repository/postgres"
	"minibadge/internal/services"
)

// App holds the long-lived dependencies shared by the CLI commands.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB

	Badges     domain.BadgeService
	Awards     domain.AwardService
	Assertions domain.AssertionService
	Tokens     *auth.JWT
}

// OpenDB opens and pings the Postgres database at url.
func OpenDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// New builds the application on top of an open database.
func New(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*App, error) {
	badgeRepo := postgres.NewBadgeRepository(db)
	awardRepo := postgres.NewAwardRepository(db)

	images, err := storage.NewImageStore(storage.Config{
		Provider:      cfg.ImageStore,
		LocalRoot:     cfg.UploadsRoot,
		CloudinaryURL: cfg.CloudinaryURL,
	}, logger)
	if err != nil {
		return nil, err
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:             cfg.AWSRegion,
			AccessKeyID:        cfg.AWSAccessKeyID,
			SecretAccessKey:    cfg.AWSSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return nil, err
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	notifier := services.NewEmailNotifier(mailer, renderer, logger)
	slugs := services.NewSlugGenerator(awardRepo, cfg.SlugAttempts)

	return &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Badges: services.NewBadgeService(badgeRepo, awardRepo, images, cfg.ContextTimeout),
		Awards: services.NewAwardService(badgeRepo, awardRepo, slugs, notifier, logger, cfg.ContextTimeout),
		Assertions: services.NewAssertionService(services.AssertionConfig{
			Issuer:         cfg.BadgeIssuer,
			UploadsBaseURL: cfg.UploadsBaseURL,
		}, awardRepo, badgeRepo),
		Tokens: auth.NewJWT(cfg.JWTSecret, cfg.TokenExpiry),
	}, nil
}

// Handler returns the HTTP API with logging, metrics and CORS applied.
func (a *App) Handler() http.Handler {
	cfg := a.Config
	router := deliveryhttp.RouterConfig{
		Badges:      controllers.NewBadgeController(a.Logger, a.Badges, a.Awards, a.Assertions, cfg.BaseURL),
		Awards:      controllers.NewAwardController(a.Logger, a.Badges, a.Assertions, cfg.BaseURL),
		RequireAuth: middleware.RequireAuth(a.Tokens, a.Logger),
	}
	// Images on the local disk are served by the API itself when the uploads URL is a path.
	if cfg.ImageStore != "cloudinary" && strings.HasPrefix(cfg.UploadsBaseURL, "/") {
		router.UploadsPrefix = strings.TrimSuffix(cfg.UploadsBaseURL, "/") + "/"
		router.Uploads = http.FileServer(http.Dir(cfg.UploadsRoot))
	}
	mux := deliveryhttp.NewRouter(router)
	return middleware.LoggingMiddleware(a.Logger, middleware.CORS(cfg.CORSAllowedOrigins, mux))
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}
