package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"unionhub/internal/access"
	electionmetrics "unionhub/internal/election/metrics"
	electionservice "unionhub/internal/election/service"
	electionstore "unionhub/internal/election/store"
	"unionhub/internal/election/store/throttle"
	memberservice "unionhub/internal/member/service"
	memberstore "unionhub/internal/member/store"
	"unionhub/internal/platform/config"
	"unionhub/internal/platform/logger"
	"unionhub/internal/platform/postgres"
	"unionhub/internal/platform/redis"
	resolutionmetrics "unionhub/internal/resolution/metrics"
	resolutionservice "unionhub/internal/resolution/service"
	resolutionstore "unionhub/internal/resolution/store"
	"unionhub/pkg/email"
	"unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/audit/publishers/compliance"
	auditmemory "unionhub/pkg/platform/audit/store/memory"
	auditpostgres "unionhub/pkg/platform/audit/store/postgres"
	"unionhub/pkg/platform/circuit"
	"unionhub/pkg/platform/tx"
	"unionhub/pkg/storage"
)

// app holds the wired services of one process.
type app struct {
	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	tokens      *access.TokenService
	elections   *electionservice.Service
	members     *memberservice.Service
	resolutions *resolutionservice.Service
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg.LogLevel), nil
}

// buildApp connects the configured backends and wires every service. Without
// DATABASE_URL all state lives in memory and one lock runner serializes the
// multi-store transactions.
func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}

	var (
		runner      tx.Runner
		elections   electionservice.Store
		members     memberservice.Store
		resolutions resolutionservice.Store
		auditStore  audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.db = db
		runner = tx.NewSQLRunner(db)
		elections = electionstore.NewPostgres(db)
		members = memberstore.NewPostgres(db)
		resolutions = resolutionstore.NewPostgres(db)
		auditStore = auditpostgres.New(db)
	} else {
		log.WarnContext(ctx, "DATABASE_URL not set; using in-memory stores")
		runner = tx.NewLockRunner()
		elections = electionstore.NewInMemory()
		members = memberstore.NewInMemory()
		resolutions = resolutionstore.NewInMemory()
		auditStore = auditmemory.NewInMemoryStore()
	}

	limiter, err := a.otpThrottle(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	var sender email.Sender = email.NewLogSender(log)
	if cfg.Mail.Addr != "" {
		sender = email.NewSMTPSender(cfg.Mail.Addr, cfg.Mail.From, cfg.Mail.Username, cfg.Mail.Password)
	}

	publisher := compliance.New(auditStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics()),
	)
	authz := access.NewHierarchyPolicy()

	// Seat checks only read the roster, so they get a view without the
	// resolution gate; the gate itself needs the resolution service.
	directory := memberservice.New(members, memberservice.WithLogger(log))

	a.resolutions = resolutionservice.New(resolutions,
		resolutionservice.WithLogger(log),
		resolutionservice.WithAuditPublisher(publisher),
		resolutionservice.WithTx(runner),
		resolutionservice.WithAuthorizer(authz),
		resolutionservice.WithMetrics(resolutionmetrics.New()),
		resolutionservice.WithDirectory(directory),
	)
	a.members = memberservice.New(members,
		memberservice.WithLogger(log),
		memberservice.WithAuditPublisher(publisher),
		memberservice.WithTx(runner),
		memberservice.WithAuthorizer(authz),
		memberservice.WithResolutionGate(resolutionservice.NewGuard(a.resolutions)),
	)
	a.elections = electionservice.New(elections, a.members,
		electionservice.WithLogger(log),
		electionservice.WithAuditPublisher(publisher),
		electionservice.WithTx(runner),
		electionservice.WithAuthorizer(authz),
		electionservice.WithMetrics(electionmetrics.New()),
		electionservice.WithWorkflow(cfg.Workflow),
		electionservice.WithOTPDeliverer(email.NewOTPMailer(sender)),
		electionservice.WithPhotoStorage(storage.NewPhotoStore(cfg.Server.PhotoDir)),
		electionservice.WithThrottle(limiter),
		electionservice.WithLeadershipInstaller(a.members),
	)
	a.tokens = access.NewTokenService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	return a, nil
}

// otpThrottle prefers Redis and falls back to process memory while the
// breaker is open, or entirely when REDIS_URL is unset.
func (a *app) otpThrottle(ctx context.Context) (electionservice.Throttle, error) {
	local := throttle.NewInMemory()
	client, err := redis.New(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return local, nil
	}
	a.redis = client
	breaker := circuit.New("otp-throttle", circuit.WithFailureThreshold(a.cfg.Workflow.ThrottleThreshold))
	return throttle.NewBreaking(throttle.NewRedis(client), local, breaker, a.logger), nil
}

func (a *app) close() {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.logger.Warn("closing backends", "error", err)
	}
}
