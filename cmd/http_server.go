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

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/auth"
	authSqlite "github.com/rosterly/roster-management/internal/auth/sqlite"
	companySqlite "github.com/rosterly/roster-management/internal/company/sqlite"
	"github.com/rosterly/roster-management/internal/dashboard"
	dashboardSqlite "github.com/rosterly/roster-management/internal/dashboard/sqlite"
	"github.com/rosterly/roster-management/internal/export"
	"github.com/rosterly/roster-management/internal/mail"
	"github.com/rosterly/roster-management/internal/pdf"
	pdfSqlite "github.com/rosterly/roster-management/internal/pdf/sqlite"
	"github.com/rosterly/roster-management/internal/roster"
	rosterSqlite "github.com/rosterly/roster-management/internal/roster/sqlite"
	"github.com/rosterly/roster-management/internal/session"
	"github.com/rosterly/roster-management/internal/staff"
	staffSqlite "github.com/rosterly/roster-management/internal/staff/sqlite"
	"github.com/rosterly/roster-management/internal/transport/rest"
	"github.com/rosterly/roster-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that serves the roster management UI and JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config           *internal.Config
	DB               *gorm.DB
	ReadDB           *sqlx.DB
	Router           *chi.Mux
	Logger           *slog.Logger
	Sessions         *session.Manager
	AuthHandler      *auth.Handler
	StaffHandler     *staff.Handler
	RosterHandler    *roster.Handler
	DashboardHandler *dashboard.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

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
		if sqlDB, derr := deps.DB.DB(); derr == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("Database close error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) {
	sqlDB, _ := deps.DB.DB()
	rest.RegisterAllRoutes(deps.Router, sqlDB, deps.Sessions,
		deps.AuthHandler, deps.StaffHandler, deps.RosterHandler,
		deps.DashboardHandler, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Logging.Level, config.Logging.Format)
	lg := logger.L()

	gormDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}

	// First run bootstrap: schema, default manager, company info, PDF dir.
	if err := migrateDB(context.Background(), sqlDB, "up"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := seedDefaults(gormDB, config.Security.BCryptCost); err != nil {
		return nil, fmt.Errorf("failed to seed defaults: %w", err)
	}
	if err := os.MkdirAll(config.Storage.RostersDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create rosters dir: %w", err)
	}

	// Read-side queries (PDF report, dashboard) go through sqlx on the same
	// connection pool gorm owns.
	readDB := sqlx.NewDb(sqlDB, "sqlite3")

	sessions := session.NewManager(config.Security.SessionSecret, lg)

	tokenGen := auth.NewTokenGenerator(config.Security.APITokenSecret, config.Security.APITokenDuration)
	authService := auth.NewService(authSqlite.NewManagerRepository(gormDB), tokenGen, config.Security.BCryptCost, lg)
	authHandler := auth.NewHandler(authService, sessions)

	staffService := staff.NewService(staffSqlite.NewStaffRepository(gormDB), lg)
	staffHandler := staff.NewHandler(staffService, sessions)

	reportReader := pdfSqlite.NewReportReader(readDB)
	pdfGenerator := pdf.NewGenerator(reportReader, config.Storage.RostersDir, lg)
	excelExporter := export.NewExcelExporter(reportReader, lg)

	var mailer roster.Mailer
	if config.SMTP.Enabled() {
		mailer = mail.NewMailer(config.SMTP, lg)
	}

	rosterService := roster.NewService(
		rosterSqlite.NewRosterRepository(gormDB),
		companySqlite.NewCompanyRepository(gormDB),
		pdfGenerator,
		mailer,
		config.Storage.RostersDir,
		lg,
	)
	rosterHandler := roster.NewHandler(rosterService, staffService, excelExporter, sessions)

	dashboardService := dashboard.NewService(dashboardSqlite.NewDashboardRepository(readDB), lg)
	dashboardHandler := dashboard.NewHandler(dashboardService, sessions)

	return &Dependencies{
		Config:           config,
		DB:               gormDB,
		ReadDB:           readDB,
		Router:           chi.NewRouter(),
		Logger:           lg,
		Sessions:         sessions,
		AuthHandler:      authHandler,
		StaffHandler:     staffHandler,
		RosterHandler:    rosterHandler,
		DashboardHandler: dashboardHandler,
	}, nil
}

func sqliteDSN(path string) string {
	// Cascade deletes rely on foreign key enforcement being switched on.
	return path + "?_foreign_keys=on"
}

// initDB opens the embedded SQLite database file.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, error) {
	gormDB, err := gorm.Open(sqlite.Open(sqliteDSN(cfg.Path)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, nil
}
