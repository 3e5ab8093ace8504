package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/election/metrics"
	"unionhub/internal/election/models"
	"unionhub/internal/election/store"
	"unionhub/internal/platform/config"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/platform/tx"
	"unionhub/pkg/requestcontext"
)

type Store interface {
	CreateElection(ctx context.Context, e *models.Election) error
	FindElection(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	ListElections(ctx context.Context, filter store.ElectionFilter) ([]*models.Election, error)
	ExecuteElection(ctx context.Context, electionID id.ElectionID, validate func(*models.Election) error, mutate func(*models.Election)) (*models.Election, error)
	DeleteElection(ctx context.Context, electionID id.ElectionID) error
	Activity(ctx context.Context, electionID id.ElectionID) (store.Activity, error)

	CreateCandidate(ctx context.Context, c *models.Candidate) error
	FindCandidate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID, status models.CandidateStatus) ([]*models.Candidate, error)
	ExecuteCandidate(ctx context.Context, candidateID id.CandidateID, validate func(*models.Candidate) error, mutate func(*models.Candidate) error) (*models.Candidate, error)

	AddDelegates(ctx context.Context, delegates []*models.Delegate) (int, error)
	ListDelegates(ctx context.Context, electionID id.ElectionID) ([]*models.Delegate, error)
	CountDelegates(ctx context.Context, electionID id.ElectionID) (int, error)
	IsDelegate(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (bool, error)

	CreateOTP(ctx context.Context, o *models.OTP) error
	AttemptLatestOTP(ctx context.Context, electionID id.ElectionID, memberID id.MemberID, attempt func(*models.OTP)) (*models.OTP, error)
	LatestVerifiedOTP(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (*models.OTP, error)

	CreateVote(ctx context.Context, v *models.Vote) error
	FindVote(ctx context.Context, voteID id.VoteID) (*models.Vote, error)
	FindVoteByMember(ctx context.Context, electionID id.ElectionID, memberID id.MemberID) (*models.Vote, error)
	ListPendingVotes(ctx context.Context, electionID id.ElectionID, page store.PendingPage) ([]*models.Vote, error)
	ReviewVote(ctx context.Context, voteID id.VoteID, validate func(*models.Vote) error, mutate func(*models.Vote) error) (*models.Vote, error)
	CountVerifiedVoters(ctx context.Context, electionID id.ElectionID) (int, error)
	CountVerifiedVotes(ctx context.Context, electionID id.ElectionID) (map[id.CandidateID]int, error)

	ReplaceResults(ctx context.Context, electionID id.ElectionID, results []*models.Result) error
	ListResults(ctx context.Context, electionID id.ElectionID) ([]*models.Result, error)
	CertifyResults(ctx context.Context, electionID id.ElectionID, certifier id.MemberID, now time.Time) (int, error)
}

// OTPDeliverer sends a one-time code to the member's address.
type OTPDeliverer interface {
	DeliverOTP(ctx context.Context, address, code string, expiresAt time.Time) error
}

// PhotoStorage persists the capture taken at cast time and returns its path.
// Delete removes a capture whose ballot was never recorded.
type PhotoStorage interface {
	Put(ctx context.Context, data []byte, ext string) (string, error)
	Delete(ctx context.Context, path string) error
}

// Throttle bounds OTP requests per election and member.
type Throttle interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// LeadershipInstaller turns a certified win into a current position.
type LeadershipInstaller interface {
	InstallLeadership(ctx context.Context, award eligibility.Award) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the election workflow from creation to certification.
type Service struct {
	store          Store
	directory      eligibility.Directory
	deliverer      OTPDeliverer
	photos         PhotoStorage
	throttle       Throttle
	installer      LeadershipInstaller
	authz          access.Authorizer
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	workflow       config.Workflow
	bcryptCost     int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithTx(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func WithAuthorizer(authz access.Authorizer) Option {
	return func(s *Service) {
		s.authz = authz
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithWorkflow overrides the OTP and cast-window limits.
func WithWorkflow(wf config.Workflow) Option {
	return func(s *Service) {
		s.workflow = wf
	}
}

func WithOTPDeliverer(d OTPDeliverer) Option {
	return func(s *Service) {
		s.deliverer = d
	}
}

func WithPhotoStorage(p PhotoStorage) Option {
	return func(s *Service) {
		s.photos = p
	}
}

func WithThrottle(t Throttle) Option {
	return func(s *Service) {
		s.throttle = t
	}
}

func WithLeadershipInstaller(installer LeadershipInstaller) Option {
	return func(s *Service) {
		s.installer = installer
	}
}

// WithBcryptCost sets the cost used to hash OTP codes. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(store Store, directory eligibility.Directory, opts ...Option) *Service {
	s := &Service{
		store:      store,
		directory:  directory,
		workflow:   config.DefaultWorkflow(),
		bcryptCost: models.DefaultOTPCost,
		tracer:     otel.Tracer("unionhub/election"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewLockRunner()
	}
	if s.authz == nil {
		s.authz = access.NewHierarchyPolicy()
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *Service) election(ctx context.Context, electionID id.ElectionID) (*models.Election, error) {
	e, err := s.store.FindElection(ctx, electionID)
	if err != nil {
		return nil, wrapStoreErr(err, "election")
	}
	return e, nil
}

// wrapStoreErr translates store sentinels and model invariants into domain
// errors. what names the record for not-found messages.
func wrapStoreErr(err error, what string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeDuplicate, what+" already exists")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		de, _ := dErrors.As(err)
		return dErrors.New(dErrors.CodeStateConflict, de.Message)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, what+" store failure")
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
}

// emit logs and persists an audit event; a persistence failure fails the caller.
func (s *Service) emit(ctx context.Context, event audit.Event, attributes ...any) error {
	s.logAudit(ctx, audit.AuditEvent(event.Action), attributes...)
	if s.auditPublisher == nil {
		return nil
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}
