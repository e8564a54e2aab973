package rest

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
	"github.com/maulanaar/labtrack/internal/auth"
	"github.com/maulanaar/labtrack/internal/borrowing"
	"github.com/maulanaar/labtrack/internal/equipment"
	"github.com/maulanaar/labtrack/internal/maintenance"
	"github.com/maulanaar/labtrack/internal/report"
	"github.com/maulanaar/labtrack/internal/room"
	"github.com/maulanaar/labtrack/internal/transport/middleware"
	"github.com/maulanaar/labtrack/internal/user"
)

// Handlers bundles every page handler the router mounts.
type Handlers struct {
	Pages       *PageHandler
	Auth        *auth.Handler
	Equipment   *equipment.Handler
	Room        *room.Handler
	Maintenance *maintenance.Handler
	Borrowing   *borrowing.Handler
	User        *user.Handler
	Report      *report.Handler
	Audit       *audit.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(h.Auth.SessionMiddleware)

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	router.Get("/", h.Pages.Home)
	router.Get("/access-denied", h.Pages.AccessDenied)

	router.Get("/login", h.Auth.ShowLogin)
	router.Post("/login", h.Auth.Login)
	router.Get("/register", h.Auth.ShowRegister)
	router.Post("/register", h.Auth.Register)
	router.Post("/logout", h.Auth.Logout)

	router.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)

		pr.Get("/admin", h.Pages.Landing("Administrator Dashboard", internal.RoleAdministrator))
		pr.Get("/faculty", h.Pages.Landing("Faculty Dashboard", internal.RoleFaculty))
		pr.Get("/technician", h.Pages.Landing("Lab Technician Dashboard", internal.RoleLabTechnician))
		pr.Get("/student", h.Pages.Landing("Student Assistant Dashboard", internal.RoleStudentAssistant))

		pr.Route("/equipment", func(er chi.Router) {
			er.Get("/", h.Equipment.List)

			er.Group(func(mr chi.Router) {
				mr.Use(middleware.RequireCapability(internal.CapManageEquipment))
				mr.Get("/new", h.Equipment.ShowForm)
				mr.Post("/", h.Equipment.Create)
				mr.Get("/{id}/edit", h.Equipment.ShowForm)
				mr.Post("/{id}", h.Equipment.Update)
				mr.Post("/{id}/delete", h.Equipment.Delete)
			})
		})

		pr.Route("/rooms", func(rr chi.Router) {
			rr.Get("/", h.Room.List)

			rr.Group(func(mr chi.Router) {
				mr.Use(middleware.RequireCapability(internal.CapManageRooms))
				mr.Get("/new", h.Room.ShowForm)
				mr.Post("/", h.Room.Create)
				mr.Get("/{id}/edit", h.Room.ShowForm)
				mr.Post("/{id}", h.Room.Update)
				mr.Post("/{id}/delete", h.Room.Delete)
			})
		})

		pr.Route("/maintenance", func(mr chi.Router) {
			mr.Get("/", h.Maintenance.List)
			mr.Get("/new", h.Maintenance.ShowReportForm)
			mr.Post("/", h.Maintenance.Report)

			mr.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireCapability(internal.CapManageMaintenance))
				ar.Post("/{id}/assign", h.Maintenance.Assign)
			})

			// owner-or-manager rules live in the service
			mr.Post("/{id}/complete", h.Maintenance.Complete)
			mr.Post("/{id}/cancel", h.Maintenance.Cancel)
			mr.Post("/{id}/delete", h.Maintenance.Delete)
		})

		pr.Route("/borrowings", func(br chi.Router) {
			br.Get("/", h.Borrowing.List)
			br.Get("/new", h.Borrowing.ShowRequestForm)
			br.Post("/", h.Borrowing.Request)
			br.Post("/{id}/cancel", h.Borrowing.Cancel)

			br.Group(func(ar chi.Router) {
				ar.Use(middleware.RequireCapability(internal.CapApproveBorrowing))
				ar.Post("/{id}/approve", h.Borrowing.Approve)
				ar.Post("/{id}/reject", h.Borrowing.Reject)
				ar.Post("/{id}/return", h.Borrowing.Return)
			})
		})

		pr.Route("/users", func(ur chi.Router) {
			ur.Use(middleware.RequireCapability(internal.CapManageUsers))
			ur.Get("/", h.User.List)
			ur.Post("/{id}/role", h.User.ChangeRole)
			ur.Post("/{id}/deactivate", h.User.Deactivate)
			ur.Post("/{id}/activate", h.User.Activate)
		})

		pr.Route("/audit", func(ar chi.Router) {
			ar.Use(middleware.RequireCapability(internal.CapManageUsers))
			ar.Get("/", h.Audit.List)
		})

		pr.Route("/reports", func(rr chi.Router) {
			rr.Use(middleware.RequireCapability(internal.CapViewReports))
			rr.Get("/", h.Report.Show)
		})
	})
}
