package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taihub/taihub/internal/dictionary"
	"github.com/taihub/taihub/internal/exams"
	"github.com/taihub/taihub/internal/gallery"
	"github.com/taihub/taihub/internal/identity"
	"github.com/taihub/taihub/internal/library"
	"github.com/taihub/taihub/internal/observability"
	"github.com/taihub/taihub/internal/shared"
	"github.com/taihub/taihub/internal/songs"
	"github.com/taihub/taihub/internal/stats"
	"github.com/taihub/taihub/internal/students"
	"github.com/taihub/taihub/internal/videos"
	"github.com/taihub/taihub/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager

	IdentityHandler   *identity.Handler
	DictionaryHandler *dictionary.Handler
	LibraryHandler    *library.Handler
	GalleryHandler    *gallery.Handler
	SongsHandler      *songs.Handler
	VideosHandler     *videos.Handler
	StudentsHandler   *students.Handler
	ExamsHandler      *exams.Handler
	StatsHandler      *stats.Handler
	StatsService      *stats.Service
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
	MediaDir          string
}

// NewRouter constructs the chi.Router with TaiHub defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.IdentityHandler.MountAuthRoutes)
	r.Route("/staff", params.IdentityHandler.MountStaffRoutes)

	// Content routes invalidate the public counters on successful writes.
	contentGroup := func(pattern string, mount func(chi.Router)) {
		r.Route(pattern, func(r chi.Router) {
			if params.StatsService != nil {
				r.Use(stats.InvalidateAfterWrite(params.Logger, params.StatsService))
			}
			mount(r)
		})
	}
	contentGroup("/words", params.DictionaryHandler.MountRoutes)
	contentGroup("/books", params.LibraryHandler.MountRoutes)
	contentGroup("/gallery", params.GalleryHandler.MountRoutes)
	contentGroup("/songs", params.SongsHandler.MountRoutes)
	contentGroup("/videos", params.VideosHandler.MountRoutes)

	r.Route("/students", params.StudentsHandler.MountRoutes)
	r.Route("/exams", params.ExamsHandler.MountRoutes)
	r.Route("/stats", params.StatsHandler.MountRoutes)
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.MediaDir != "" {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(params.MediaDir)))
		r.Handle("/media/*", mediaCacheHandler(fileServer))
	}

	return r
}

// mediaCacheHandler wraps the media file server with Cache-Control
// headers. Generated media is immutable per word, so an hour in the
// browser cache is safe.
func mediaCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
