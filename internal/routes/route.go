package routes

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ronins-bknd/internal/auth"
	"ronins-bknd/internal/config"
	"ronins-bknd/internal/gallery"
	"ronins-bknd/internal/handlers"
	"ronins-bknd/internal/logger"
	"ronins-bknd/internal/metrics"
	mdlwr "ronins-bknd/internal/middleware"
	"ronins-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(mdlwr.RequestLogger(logr.Logger))

	reg := metrics.NewRegistry()
	r.Use(mdlwr.Metrics(reg))

	// Per-IP rate limits: a generous site-wide bucket and a much stricter
	// one for the login endpoint (5 attempts per 15 minutes).
	siteLimiter := mdlwr.NewRateLimiter(rate.Every(9*time.Second), 100)
	authLimiter := mdlwr.NewRateLimiter(rate.Every(3*time.Minute), 5)
	r.Use(siteLimiter.Handler)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "X-Requested-With", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, "ronins-treks", cfg.TokenTTL)
	authMW := mdlwr.NewAdminAuth(jwtMgr, logr.Logger)

	trekSvc := services.NewTrekService(db)
	bookingSvc := services.NewBookingService(db)
	feedbackSvc := services.NewFeedbackService(db)
	querySvc := services.NewBusinessQueryService(db)
	teamSvc := services.NewTeamService(db)
	gpsSvc := services.NewGPSService(db, reg)
	galleryStore := gallery.NewStore(cfg.GalleryPath)

	adminHandler := handlers.NewAdminHandler(jwtMgr, cfg.AdminPassword, logr.Logger)
	trekHandler := handlers.NewTrekHandler(trekSvc, logr.Logger)
	bookingHandler := handlers.NewBookingHandler(bookingSvc, reg, logr.Logger)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackSvc, logr.Logger)
	queryHandler := handlers.NewBusinessQueryHandler(querySvc, logr.Logger)
	teamHandler := handlers.NewTeamHandler(teamSvc, logr.Logger)
	gpsHandler := handlers.NewGPSHandler(gpsSvc, logr.Logger)
	galleryHandler := handlers.NewGalleryHandler(galleryStore, logr.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		r.Route("/admin", func(r chi.Router) {
			r.With(authLimiter.Handler).Post("/login", adminHandler.Login)
			r.With(authMW.RequireAdmin).Get("/verify", adminHandler.Verify)
		})

		r.Route("/treks", func(r chi.Router) {
			r.Get("/", trekHandler.List)
			r.Get("/{id}", trekHandler.Get)

			// Admin-only mutations
			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Post("/", trekHandler.Create)
				r.Patch("/{id}/price", trekHandler.UpdatePrice)
				r.Patch("/{id}/image", trekHandler.UpdateImage)
				r.Delete("/{id}", trekHandler.Delete)
			})
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", bookingHandler.Create)
			r.Group(func(r chi.Router) {
				r.Use(authMW.RequireAdmin)
				r.Get("/", bookingHandler.List)
				r.Delete("/{id}", bookingHandler.Delete)
			})
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/", feedbackHandler.List)
			r.Post("/", feedbackHandler.Create)
		})

		r.Route("/business-queries", func(r chi.Router) {
			r.Get("/", queryHandler.List)
			r.Post("/", queryHandler.Create)
		})
		r.Post("/contact", queryHandler.Create)

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", galleryHandler.Get)
			r.With(authMW.RequireAdmin).Post("/", galleryHandler.Update)
		})

		r.Route("/team-members", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.With(authMW.RequireAdmin).Put("/{id}", teamHandler.Update)
		})

		r.Route("/gps", func(r chi.Router) {
			r.Get("/driver-treks", gpsHandler.DriverTreks)
			r.Get("/active-treks", gpsHandler.ActiveTreks)
			r.Post("/trek-location", gpsHandler.SubmitLocation)
			r.Get("/trek-locations/{trekId}", gpsHandler.LocationHistory)
			r.Get("/trek-details/{trekId}", gpsHandler.TrekDetails)
			r.Post("/trek-location/{id}/stop", gpsHandler.Stop)
			r.Post("/verify-driver-password", gpsHandler.VerifyDriverPassword)
			r.Post("/verify-trek-password", gpsHandler.VerifyTrekPassword)
			r.Post("/activate-trek", gpsHandler.ActivateTrek)
			r.Get("/config", gpsHandler.GetConfig)
			r.Put("/config", gpsHandler.UpdateConfig)
		})
	})

	r.Handle("/metrics", reg.Handler())

	registerStatic(r, cfg.StaticDir)

	return r
}

// registerStatic serves the front-end shell: real files when they exist,
// index.html for anything else so client-side routes deep-link.
func registerStatic(r chi.Router, staticDir string) {
	serveFile := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(staticDir, name))
		}
	}

	r.Get("/robots.txt", serveFile("robots.txt"))
	r.Get("/.well-known/security.txt", serveFile(filepath.Join(".well-known", "security.txt")))

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if strings.HasPrefix(req.URL.Path, "/api/") {
			http.NotFound(w, req)
			return
		}

		candidate := filepath.Join(staticDir, filepath.Clean("/"+req.URL.Path))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			http.ServeFile(w, req, candidate)
			return
		}
		http.ServeFile(w, req, filepath.Join(staticDir, "index.html"))
	})
}
