package routes

import (
	"net/http"

	"nepa-bknd/internal/auth"
	"nepa-bknd/internal/config"
	"nepa-bknd/internal/events"
	"nepa-bknd/internal/handlers"
	"nepa-bknd/internal/logger"
	mdlwr "nepa-bknd/internal/middleware"
	"nepa-bknd/internal/power"
	"nepa-bknd/internal/realtime"
	"nepa-bknd/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/uptrace/bun"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger, bus *events.Bus, hub *realtime.Hub) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	thresholds := power.Thresholds{
		OnRatio:          cfg.OnRatio,
		OffRatio:         cfg.OffRatio,
		HighBuddyCount:   cfg.HighBuddyCount,
		MediumBuddyCount: cfg.MediumBuddyCount,
		Recency:          cfg.RecencyWindow,
		Staleness:        cfg.StalenessWindow,
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, "nepa-bknd", cfg.AdminTokenTTL)
	adminMW := mdlwr.NewAdminAuth(jwtMgr, logr.Logger)

	zoneSvc := services.NewZoneService(db, cfg.Region)
	reportSvc := services.NewReportService(db, bus, thresholds, logr.Logger)
	statusSvc := services.NewStatusService(db, bus)
	outageSvc := services.NewOutageService(db)
	issueSvc := services.NewIssueService(db, reportSvc, logr.Logger)
	importer := services.NewOSMImporter(db, cfg.OverpassURL, logr.Logger)

	zoneHandler := handlers.NewZoneHandler(zoneSvc, logr.Logger)
	reportHandler := handlers.NewReportHandler(reportSvc, logr.Logger)
	statusHandler := handlers.NewStatusHandler(statusSvc, logr.Logger)
	outageHandler := handlers.NewOutageHandler(outageSvc, logr.Logger)
	issueHandler := handlers.NewIssueHandler(issueSvc, logr.Logger)
	adminHandler := handlers.NewAdminHandler(statusSvc, importer, jwtMgr, cfg, logr.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/zones", func(r chi.Router) {
			r.Get("/", zoneHandler.ListZones)
			r.Post("/", zoneHandler.RegisterZone)
			r.Get("/nearest", zoneHandler.NearestZone)
		})

		r.Post("/reports", reportHandler.RecordReport)
		r.Post("/feedback", issueHandler.SubmitFeedback)
		r.Post("/issues", issueHandler.SubmitIssue)

		r.Route("/status", func(r chi.Router) {
			r.Get("/", statusHandler.GetAllZoneStatuses)
			r.Get("/{zoneID}", statusHandler.GetZoneStatus)
		})

		r.Route("/outages", func(r chi.Router) {
			r.Get("/", outageHandler.ListOutages)
			r.Get("/export", outageHandler.ExportOutages)
		})

		r.Get("/stream", hub.ServeWS)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", adminHandler.Login)

			// Operator-only simulation surface
			r.Group(func(r chi.Router) {
				r.Use(adminMW.RequireAdmin)
				r.Post("/zones/{zoneID}/status", adminHandler.ForceStatus)
				r.Post("/zones/import-osm", adminHandler.ImportOSMZones)
				r.Get("/issues", issueHandler.ListIssues)
			})
		})

	})

	return r
}
