package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hqnguyen/remitd/internal/config"
	"github.com/hqnguyen/remitd/internal/database"
	"github.com/hqnguyen/remitd/internal/events"
	remitdHttp "github.com/hqnguyen/remitd/internal/http"
	notificationHandler "github.com/hqnguyen/remitd/internal/http/notification"
	paymentHandler "github.com/hqnguyen/remitd/internal/http/payment"
	statementHandler "github.com/hqnguyen/remitd/internal/http/statement"
	txHandler "github.com/hqnguyen/remitd/internal/http/transaction"
	webhookHandler "github.com/hqnguyen/remitd/internal/http/webhook"
	"github.com/hqnguyen/remitd/internal/journal"
	journalStore "github.com/hqnguyen/remitd/internal/journal/store"
	"github.com/hqnguyen/remitd/internal/metrics"
	"github.com/hqnguyen/remitd/internal/notification"
	notificationStore "github.com/hqnguyen/remitd/internal/notification/store"
	"github.com/hqnguyen/remitd/internal/payment"
	paymentStore "github.com/hqnguyen/remitd/internal/payment/store"
	"github.com/hqnguyen/remitd/internal/push"
	pushStore "github.com/hqnguyen/remitd/internal/push/store"
	"github.com/hqnguyen/remitd/internal/reconcile"
	reconcileStore "github.com/hqnguyen/remitd/internal/reconcile/store"
	"github.com/hqnguyen/remitd/internal/statement"
	statementStore "github.com/hqnguyen/remitd/internal/statement/store"
	"github.com/hqnguyen/remitd/internal/transaction"
	txStore "github.com/hqnguyen/remitd/internal/transaction/store"
)

const workerBatchSize = 100

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB.Migrations); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	sourceLoc, err := time.LoadLocation(cfg.Parser.SourceTimezone)
	if err != nil {
		slog.Error("failed to load source timezone", "timezone", cfg.Parser.SourceTimezone, "error", err)
		os.Exit(1)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers(), cfg.Kafka.TransactionTopic, cfg.Kafka.ReconcileTopic)
		defer kafkaPublisher.Close()

		publisher = kafkaPublisher
	}

	pipeline := metrics.NewPipeline()

	resolver := journal.NewResolver(journalStore.New(db))

	transactionService := transaction.NewService(txStore.New(db))

	notificationService := notification.NewService(
		notificationStore.New(db),
		resolver,
		transactionService,
		publisher,
		pipeline,
		cfg.Parser.MaxAttempts,
		sourceLoc,
	)

	statementService := statement.NewService(statementStore.New(db), transactionService, resolver, resolver)

	paymentService, err := payment.NewService(paymentStore.New(db))
	if err != nil {
		slog.Error("failed to build payment service", "error", err)
		os.Exit(1)
	}

	reconcileService := reconcile.NewService(reconcileStore.New(db), publisher, pipeline, reconcile.Options{
		MatchReference: cfg.Reconcile.MatchReference,
		MatchPUID:      cfg.Reconcile.MatchPUID,
	})

	pushClient := push.NewClient(push.ClientConfig{
		URL:         cfg.Push.URL,
		APIKey:      cfg.Push.APIKey,
		CompanyCode: cfg.Push.CompanyCode,
		Timeout:     cfg.Push.Timeout,
		MaxRetries:  cfg.Push.MaxRetries,
		RetryDelay:  cfg.Push.RetryDelay,
	})
	pushService := push.NewService(pushStore.New(db), pushClient, pipeline)

	router := remitdHttp.New(
		notificationHandler.NewHandler(notificationService),
		txHandler.NewHandler(transactionService),
		statementHandler.NewHandler(statementService, reconcileService),
		paymentHandler.NewHandler(paymentService),
		webhookHandler.NewHandler(pushService, pipeline),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	runWorker(ctx, &wg, "parser", cfg.Parser.Interval, func(ctx context.Context) (int, error) {
		return notificationService.ProcessPending(ctx, workerBatchSize)
	})
	runWorker(ctx, &wg, "statement-sync", cfg.Parser.Interval, statementService.SyncAll)
	runWorker(ctx, &wg, "reconcile", cfg.Reconcile.Interval, reconcileService.Run)
	runWorker(ctx, &wg, "push", cfg.Push.Interval, func(ctx context.Context) (int, error) {
		return pushService.PushDrafts(ctx, workerBatchSize)
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "addr", server.Addr)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	wg.Wait()
}

// runWorker runs fn on a fixed interval until ctx is canceled. A failing run
// is logged and the next tick tries again.
func runWorker(ctx context.Context, wg *sync.WaitGroup, name string, interval time.Duration, fn func(context.Context) (int, error)) {
	wg.Add(1)

	go func() {
		defer wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := fn(ctx)
				if err != nil {
					slog.Error("worker run failed", "worker", name, "error", err)
					continue
				}

				if n > 0 {
					slog.Info("worker run finished", "worker", name, "processed", n)
				}
			}
		}
	}()
}
