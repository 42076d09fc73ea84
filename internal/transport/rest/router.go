package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hospital-records/internal/audit"
	"github.com/frahmantamala/hospital-records/internal/auth"
	"github.com/frahmantamala/hospital-records/internal/patient"
	"github.com/frahmantamala/hospital-records/internal/transport/middleware"
	"github.com/frahmantamala/hospital-records/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// RegisterAllRoutes wires the role matrix onto the HTTP surface. The route
// middleware is the outer fence; the services repeat the same checks before
// touching the store.
func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	patientHandler *patient.Handler,
	auditHandler *audit.Handler,
	rbac *auth.RBACAuthorization,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", authHandler.Login)
			sr.Post("/refresh", authHandler.RefreshToken)
			sr.Post("/logout", authHandler.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Route("/patients", func(er chi.Router) {
				// any authenticated role; raw fields are redacted per role
				er.Get("/", patientHandler.ListPatients)

				er.Group(func(wr chi.Router) {
					wr.Use(rbac.RequireRoles(auth.RoleAdmin, auth.RoleReceptionist))
					wr.Post("/", patientHandler.CreatePatient)
					wr.Put("/{id}", patientHandler.UpdatePatient)
				})

				er.Group(func(ar chi.Router) {
					ar.Use(rbac.RequireAdmin())
					ar.Post("/anonymize", patientHandler.AnonymizeAll)
					ar.Post("/decrypt", patientHandler.DecryptField)
				})
			})

			pr.Group(func(ar chi.Router) {
				ar.Use(rbac.RequireAdmin())
				ar.Get("/audit-logs", auditHandler.ListEntries)
			})
		})
	})
}
