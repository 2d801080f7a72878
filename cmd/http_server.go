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
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tuannda/membership-payments/internal"
	"github.com/tuannda/membership-payments/internal/core/events"
	"github.com/tuannda/membership-payments/internal/membership"
	membershippg "github.com/tuannda/membership-payments/internal/membership/postgres"
	"github.com/tuannda/membership-payments/internal/notification"
	"github.com/tuannda/membership-payments/internal/ordercode"
	"github.com/tuannda/membership-payments/internal/transport"
	"github.com/tuannda/membership-payments/internal/transport/rest"
	"github.com/tuannda/membership-payments/internal/webhook"
	webhookpg "github.com/tuannda/membership-payments/internal/webhook/postgres"
	"github.com/tuannda/membership-payments/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that receives gateway webhooks`,
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

	// Signal handling for graceful shutdown
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

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	eventBus := events.NewEventBus(lg)
	notifier := notification.NewNotifier(lg)
	notifier.RegisterEventHandlers(eventBus)

	var codeIndex webhook.CodeIndex
	if config.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     config.Redis.Addr,
			Password: config.Redis.Password,
			DB:       config.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// the matcher falls back to the database scan without the index
			lg.Warn("redis unavailable, order code index disabled", "error", err)
		} else {
			codeIndex = ordercode.NewIndex(redisClient, lg)
		}
	}

	orderRepo := webhookpg.NewOrderRepository(gormDB)
	eventLedger := webhookpg.NewEventLedger(gormDB)
	txnRepo := webhookpg.NewTransactionRepository(gormDB)
	membershipRepo := membershippg.NewMembershipRepository(gormDB)
	userRepo := membershippg.NewUserRepository(gormDB)

	planCatalog := membership.NewCatalog(config.Plans, lg)
	fulfillment := membership.NewService(membershipRepo, userRepo, orderRepo, planCatalog, lg)

	settings := webhook.GuardSettings{
		SettlementAccount: config.Webhook.SettlementAccount,
		AmountTolerance:   config.Webhook.AmountTolerance,
	}
	webhookService := webhook.NewService(
		orderRepo, eventLedger, txnRepo, codeIndex, fulfillment, eventBus, settings, lg)

	guard, err := webhook.NewGuard(config.Webhook, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook guard: %w", err)
	}

	baseHandler := transport.NewBaseHandler(lg)
	webhookHandler := webhook.NewHandler(baseHandler, webhookService, lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, guard, webhookHandler, lg)

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

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
