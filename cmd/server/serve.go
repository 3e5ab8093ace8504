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

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	electionhandler "unionhub/internal/election/handler"
	memberhandler "unionhub/internal/member/handler"
	"unionhub/internal/platform/httpserver"
	"unionhub/internal/platform/kafka"
	"unionhub/internal/platform/metrics"
	"unionhub/internal/platform/postgres"
	resolutionhandler "unionhub/internal/resolution/handler"
	httptransport "unionhub/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

var migrateOnStart bool

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the database schema before serving")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the governance API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	if migrateOnStart && a.db != nil {
		if err := postgres.Migrate(ctx, a.db); err != nil {
			return err
		}
	}

	deps := httptransport.Deps{
		Logger:     log,
		Observer:   metrics.New(),
		Actors:     a.tokens,
		Ticker:     a.elections,
		AdminToken: cfg.Server.AdminToken,
		AutoTick:   cfg.Server.AutoTick,
		Handlers: []httptransport.Registrar{
			electionhandler.New(a.elections, log),
			resolutionhandler.New(a.resolutions, log),
			memberhandler.New(a.members, log),
		},
	}
	if a.db != nil {
		deps.Ready = a.db
	}
	srv := httpserver.New(cfg.Server.Addr, httptransport.NewRouter(deps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.InfoContext(gctx, "starting unionhub", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		log.Info("server stopped")
		return nil
	})

	if err := startRelay(gctx, g, a); err != nil {
		return err
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startRelay publishes the audit outbox to Kafka when brokers are configured.
// The outbox only exists in Postgres.
func startRelay(ctx context.Context, g *errgroup.Group, a *app) error {
	kc := a.cfg.Kafka
	if len(kc.Brokers) == 0 {
		return nil
	}
	if a.db == nil {
		a.logger.WarnContext(ctx, "KAFKA_BROKERS ignored without DATABASE_URL")
		return nil
	}
	client, err := kafka.NewClient(kc.Brokers, kc.AuditTopic)
	if err != nil {
		return err
	}
	if err := kafka.EnsureTopic(ctx, client, kc.AuditTopic, 1, 1); err != nil {
		client.Close()
		return err
	}
	relay := kafka.NewRelay(a.db, client, a.logger, kc.PollInterval, kc.BatchSize)
	g.Go(func() error {
		defer client.Close()
		return relay.Run(ctx)
	})
	return nil
}
