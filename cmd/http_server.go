package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maulanaar/labtrack/internal"
	"github.com/maulanaar/labtrack/internal/audit"
	auditpg "github.com/maulanaar/labtrack/internal/audit/postgres"
	"github.com/maulanaar/labtrack/internal/auth"
	authpg "github.com/maulanaar/labtrack/internal/auth/postgres"
	"github.com/maulanaar/labtrack/internal/borrowing"
	borrowingpg "github.com/maulanaar/labtrack/internal/borrowing/postgres"
	"github.com/maulanaar/labtrack/internal/equipment"
	equipmentpg "github.com/maulanaar/labtrack/internal/equipment/postgres"
	"github.com/maulanaar/labtrack/internal/maintenance"
	maintenancepg "github.com/maulanaar/labtrack/internal/maintenance/postgres"
	"github.com/maulanaar/labtrack/internal/report"
	"github.com/maulanaar/labtrack/internal/room"
	roompg "github.com/maulanaar/labtrack/internal/room/postgres"
	"github.com/maulanaar/labtrack/internal/transport"
	"github.com/maulanaar/labtrack/internal/transport/rest"
	"github.com/maulanaar/labtrack/internal/user"
	userpg "github.com/maulanaar/labtrack/internal/user/postgres"
	"github.com/maulanaar/labtrack/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that serves the web application`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpg.New(gormpg.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	renderer, err := transport.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	userRepo := authpg.NewUserRepository(gormDB)
	sessionRepo := authpg.NewSessionRepository(gormDB)
	auditRepo := auditpg.NewAuditRepository(gormDB)
	equipmentRepo := equipmentpg.NewEquipmentRepository(gormDB)
	roomRepo := roompg.NewRoomRepository(gormDB)
	maintenanceRepo := maintenancepg.NewMaintenanceRepository(gormDB)
	borrowingRepo := borrowingpg.NewBorrowingRepository(gormDB)
	accountRepo := userpg.NewUserRepository(gormDB)

	base := transport.NewBaseHandler(lg, renderer, sessionRepo)

	authService := auth.NewService(userRepo, sessionRepo, auditRepo, config.Security.BCryptCost, config.Security.Session.Lifetime, lg)
	equipmentService := equipment.NewService(equipmentRepo, auditRepo, lg)
	roomService := room.NewService(roomRepo, lg)
	maintenanceService := maintenance.NewService(maintenanceRepo, equipmentRepo, accountRepo, auditRepo, lg)
	borrowingService := borrowing.NewService(borrowingRepo, equipmentRepo, auditRepo, lg)
	userService := user.NewService(accountRepo, sessionRepo, auditRepo, lg)
	reportService := report.NewService(maintenanceRepo, borrowingRepo, equipmentRepo, lg)

	handlers := rest.Handlers{
		Pages:       rest.NewPageHandler(base),
		Auth:        auth.NewHandler(base, authService, config.Security.Session),
		Equipment:   equipment.NewHandler(base, equipmentService),
		Room:        room.NewHandler(base, roomService),
		Maintenance: maintenance.NewHandler(base, maintenanceService),
		Borrowing:   borrowing.NewHandler(base, borrowingService),
		User:        user.NewHandler(base, userService),
		Report:      report.NewHandler(base, reportService),
		Audit:       audit.NewHandler(base, auditRepo),
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, handlers, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
