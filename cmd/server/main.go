// Command server runs the zakat year ledger HTTP service.
//
// main wires dependencies and keeps the server lifecycle small; all
// business logic lives in the internal service packages. With
// DATABASE_URL set the ledger persists to postgres (migrations run at
// startup); without it the server runs on in-memory stores.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpapi "mizan/internal/http"
	"mizan/internal/ledger/cache"
	ledgerhandler "mizan/internal/ledger/handler"
	ledgermetrics "mizan/internal/ledger/metrics"
	"mizan/internal/ledger/service"
	entrystore "mizan/internal/ledger/store/entry"
	paidstore "mizan/internal/ledger/store/paid"
	yearstore "mizan/internal/ledger/store/year"
	"mizan/internal/platform/config"
	"mizan/internal/platform/httpserver"
	"mizan/internal/platform/logger"
	"mizan/internal/platform/metrics"
	"mizan/internal/platform/postgres"
	platformredis "mizan/internal/platform/redis"
	"mizan/migrations"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		years    service.YearStore
		entries  service.EntryStore
		payments service.PaidEntryStore
		opts     []service.Option
		deps     httpapi.Deps
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL, migrations.FS)
		if err != nil {
			log.Error("database setup failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		years = yearstore.NewPostgres(db)
		entries = entrystore.NewPostgres(db)
		payments = paidstore.NewPostgres(db)
		opts = append(opts, service.WithStoreTx(newLedgerPostgresTx(db)))
		deps.DB = db
		log.Info("using postgres stores")
	} else {
		years = yearstore.NewInMemory()
		entries = entrystore.NewInMemory()
		payments = paidstore.NewInMemory()
		log.Info("using in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis setup failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		opts = append(opts, service.WithCache(cache.NewRedis(
			redisClient.Client,
			cache.WithLogger(log),
			cache.WithTTL(cfg.CacheTTL),
		)))
		deps.Redis = redisClient
		log.Info("summary cache enabled", "ttl", cfg.CacheTTL.String())
	}

	opts = append(opts,
		service.WithLogger(log),
		service.WithMetrics(ledgermetrics.New()),
	)
	svc := service.New(years, entries, payments, opts...)

	deps.Ledger = ledgerhandler.New(svc, log)
	deps.Logger = log
	deps.Metrics = metrics.NewHTTP()

	srv := httpserver.New(cfg.Addr, httpapi.NewRouter(deps))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
