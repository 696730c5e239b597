package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lromero-dev/altiplano-backend/api/routes"
	"github.com/lromero-dev/altiplano-backend/internal/ledger"
	"github.com/lromero-dev/altiplano-backend/internal/orders"
	"github.com/lromero-dev/altiplano-backend/internal/payments"
	"github.com/lromero-dev/altiplano-backend/internal/pricing"
	"github.com/lromero-dev/altiplano-backend/internal/stock"
	"github.com/lromero-dev/altiplano-backend/pkg/config"
	"github.com/lromero-dev/altiplano-backend/pkg/db"
	"github.com/lromero-dev/altiplano-backend/pkg/logger"
	"github.com/lromero-dev/altiplano-backend/pkg/mailer"
	"github.com/lromero-dev/altiplano-backend/pkg/migrate"
	"github.com/lromero-dev/altiplano-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := newDBClient(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	conn := dbClient.DB()

	ledgerSvc, err := ledger.NewService(ledger.NewRepository(conn))
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	stockSvc, err := stock.NewService(stock.NewRepository(conn), cfg.Reservation.TTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}

	pricingSvc, err := pricing.NewService(pricing.NewRepository(conn), stockSvc, cfg.CartToken)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	ordersSvc, err := orders.NewService(
		orders.NewRepository(conn),
		dbClient,
		stockSvc,
		ledgerSvc,
		pricingSvc,
		mailer.NewLogMailer(cfg.Mail.FromAddress, logg),
		logg,
		cfg.Reservation,
		cfg.Shipping,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsSvc, err := payments.NewService(ordersSvc, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, pricingSvc, ordersSvc, paymentsSvc),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

// newDBClient opens Postgres by default; the sqlite flag exists for local
// smoke runs without a database server.
func newDBClient(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*db.Client, error) {
	if cfg.Flags.UseSQLite {
		conn, err := gorm.Open(sqlite.Open(cfg.DB.DSN), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return db.NewWithConn(conn)
	}
	return db.New(ctx, cfg.DB, logg)
}
