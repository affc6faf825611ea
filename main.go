package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andrenbrandao/rinha-ledger/pkg/config"
	"github.com/andrenbrandao/rinha-ledger/pkg/database"
	"github.com/andrenbrandao/rinha-ledger/pkg/domain"
	"github.com/andrenbrandao/rinha-ledger/pkg/handlers"
	"github.com/andrenbrandao/rinha-ledger/pkg/logging"
	"github.com/andrenbrandao/rinha-ledger/pkg/services"
	"github.com/andrenbrandao/rinha-ledger/pkg/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log, os.Stdout)
	if err != nil {
		return err
	}
	logger.WithField("config", cfg.Redacted()).Info("Starting up server...")

	shutdownTelemetry, err := telemetry.Setup(cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("unable to configure telemetry: %w", err)
	}
	defer shutdownTelemetry()

	customers, err := domain.NewCustomerSet(cfg.CustomerIDs)
	if err != nil {
		return fmt.Errorf("invalid customer ids: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.Database.Migrate {
		if err := database.Migrate(cfg.Database.URL); err != nil {
			return err
		}
	}
	if cfg.Database.Seed {
		if err := database.Seed(ctx, pool); err != nil {
			return err
		}
	}
	if err := database.VerifyCustomers(ctx, pool, customers.IDs()); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           newHandler(pool, customers, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("Listening to requests on port %d", cfg.Port)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

func newHandler(db services.DB, customers *domain.CustomerSet, logger *logging.Logger) http.Handler {
	transactions := services.NewTransactionService(db, customers, logger)
	statements := services.NewStatementService(db, customers, logger)
	routes := handlers.New(customers, transactions, statements, logger).Routes()

	return otelhttp.NewHandler(logger.LoggingMiddleware(routes), "rinha-ledger")
}
