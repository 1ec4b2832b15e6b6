package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"minibadge/internal/delivery/http/controllers"
)

// RouterConfig carries the controllers and middleware the router mounts.
type RouterConfig struct {
	Badges      *controllers.BadgeController
	Awards      *controllers.AwardController
	RequireAuth func(http.HandlerFunc) http.HandlerFunc
	// Uploads serves stored badge images under UploadsPrefix when set.
	Uploads       http.Handler
	UploadsPrefix string
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	// Badges
	mux.HandleFunc("GET /badges", cfg.Badges.ListBadges)
	mux.HandleFunc("POST /badges", cfg.RequireAuth(cfg.Badges.CreateBadge))
	mux.HandleFunc("GET /badges/{slug}", cfg.Badges.GetBadge)
	mux.HandleFunc("PATCH /badges/{slug}", cfg.RequireAuth(cfg.Badges.UpdateBadge))
	mux.HandleFunc("POST /badges/{slug}/awards", cfg.RequireAuth(cfg.Badges.AwardBadge))

	// Awards
	mux.HandleFunc("GET /awards/{slug}", cfg.Awards.GetAward)
	mux.HandleFunc("GET /awards/{slug}/assertion", cfg.Awards.GetAssertion)
	mux.HandleFunc("GET /claims/{email}", cfg.Awards.GetClaims)

	if cfg.Uploads != nil && cfg.UploadsPrefix != "" {
		mux.Handle("GET "+cfg.UploadsPrefix, http.StripPrefix(cfg.UploadsPrefix, cfg.Uploads))
	}

	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
