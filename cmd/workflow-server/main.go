// cmd/workflow-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aid-workflow/internal/common/config"
	"aid-workflow/internal/common/database"
	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/common/observability"
	"aid-workflow/internal/directory"
	"aid-workflow/internal/ledger"
	"aid-workflow/internal/store"
	"aid-workflow/internal/workflow/advisory"
	"aid-workflow/internal/workflow/approval"
	"aid-workflow/internal/workflow/disbursement"
	"aid-workflow/internal/workflow/intake"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrapLog := logger.New("info", "console")
		bootstrapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting workflow server",
		zap.String("name", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "postgres connection")
	if err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "redis connection")
	if err != nil {
		zapLog.Fatal("redis unreachable", zap.Error(err))
	}

	appStore := store.NewApplicationStore(pg.DB, log)
	people := directory.NewCachedDirectory(
		directory.NewPostgresDirectory(pg.DB),
		rdb.Client,
		time.Duration(cfg.Database.Redis.CacheTTL)*time.Second,
		log,
	)
	payments := ledger.New(cfg.Ledger.Currency)

	srv := &server{
		intake:       intake.NewService(appStore, log),
		approval:     approval.NewService(appStore, log),
		disbursement: disbursement.NewGate(pg.DB, appStore, people, payments, log, obs),
		advisory:     advisory.NewService(appStore, advisory.NewClient(cfg.Advisory, log), log),
		store:        appStore,
		logger:       log,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /applications", srv.handleSubmit)
	mux.HandleFunc("GET /applications", srv.handleList)
	mux.HandleFunc("GET /applications/{id}", srv.handleGet)
	mux.HandleFunc("POST /applications/{id}/evaluate", srv.handleEvaluate)
	mux.HandleFunc("POST /applications/{id}/chair-decision", srv.handleChairDecision)
	mux.HandleFunc("POST /applications/{id}/disburse", srv.handleDisburse)
	mux.HandleFunc("POST /applications/{id}/annotate", srv.handleAnnotate)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pg.Ping(healthCtx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: mux,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
}
