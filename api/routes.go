package api

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/garnizeh/ustabul/internal/auth"
	"github.com/garnizeh/ustabul/internal/config"
	"github.com/garnizeh/ustabul/internal/marketplace"
	"github.com/garnizeh/ustabul/pkg/models"
)

// SetupRoutes builds the HTTP surface. The returned handler carries the
// logging, recovery and CORS middleware.
func SetupRoutes(cfg *config.Config, version, buildTime string, svc *marketplace.Service, issuer *auth.Issuer) (http.Handler, error) {
	v, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("load request schemas: %w", err)
	}

	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	authed := JWTAuthMiddleware(issuer)
	protect := func(h http.HandlerFunc, roles ...models.Role) http.Handler {
		if len(roles) > 0 {
			h = requireRole(h, roles...)
		}
		return authed(h)
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(svc, v)
	workers := NewWorkersHandler(svc, v)
	employers := NewEmployersHandler(svc, v)
	skills := NewSkillsHandler(svc)
	portfolio := NewPortfolioHandler(svc, cfg.Marketplace.MaxUploadBytes)
	jobs := NewJobsHandler(svc, v)
	applications := NewApplicationsHandler(svc, v)
	ratings := NewRatingsHandler(svc, v)
	notifications := NewNotificationsHandler(svc)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(filesOnly{root: http.Dir(cfg.UploadDir)}))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	api.Handle("/workers/details", protect(workers.CreateDetails, models.RoleWorker)).Methods("POST")
	api.HandleFunc("/workers", workers.List).Methods("GET")
	api.HandleFunc("/workers/{id}", workers.Get).Methods("GET")
	api.Handle("/workers/{id}/skills", protect(workers.AddSkill, models.RoleWorker)).Methods("POST")
	api.HandleFunc("/workers/{id}/skills", workers.ListSkills).Methods("GET")

	api.Handle("/employers/details", protect(employers.CreateDetails, models.RoleEmployer)).Methods("POST")
	api.HandleFunc("/employers", employers.List).Methods("GET")
	api.HandleFunc("/employers/{id}", employers.Get).Methods("GET")

	api.HandleFunc("/skills/categories", skills.Categories).Methods("GET")
	api.HandleFunc("/skills/categories/tree", skills.Tree).Methods("GET")

	api.Handle("/portfolio/upload", protect(portfolio.Upload, models.RoleWorker)).Methods("POST")
	api.HandleFunc("/portfolio/{workerId}", portfolio.List).Methods("GET")

	// /jobs/apply is registered before /jobs/{id} so "apply" never reads as an id.
	api.Handle("/jobs/apply", protect(jobs.Apply, models.RoleWorker)).Methods("POST")
	api.Handle("/jobs", protect(jobs.Create, models.RoleEmployer)).Methods("POST")
	api.HandleFunc("/jobs", jobs.List).Methods("GET")
	api.HandleFunc("/jobs/{id}", jobs.Get).Methods("GET")
	api.Handle("/jobs/{id}/status", protect(jobs.UpdateStatus, models.RoleEmployer)).Methods("PUT")
	api.Handle("/jobs/{id}/applications", protect(jobs.Applications, models.RoleEmployer)).Methods("GET")

	api.Handle("/applications/{id}/accept", protect(applications.Accept, models.RoleEmployer)).Methods("PUT")
	api.Handle("/applications/{id}/reject", protect(applications.Reject, models.RoleEmployer)).Methods("PUT")
	api.Handle("/applications/{id}/withdraw", protect(applications.Withdraw, models.RoleWorker)).Methods("PUT")

	api.Handle("/ratings", protect(ratings.Create)).Methods("POST")
	api.HandleFunc("/ratings/user/{id}", ratings.ForUser).Methods("GET")

	api.Handle("/notifications/{userId}", protect(notifications.List)).Methods("GET")
	api.Handle("/notifications/{id}/read", protect(notifications.MarkRead)).Methods("PUT")

	return NewCORS(cfg.CORSOrigins)(r), nil
}
