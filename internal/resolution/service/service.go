package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/resolution/metrics"
	"unionhub/internal/resolution/models"
	"unionhub/internal/resolution/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/platform/tx"
	"unionhub/pkg/requestcontext"
)

type Store interface {
	CreateCommittee(ctx context.Context, c *models.Committee) error
	FindCommittee(ctx context.Context, committeeID id.CommitteeID) (*models.Committee, error)
	ListCommittees(ctx context.Context, filter store.CommitteeFilter) ([]*models.Committee, error)
	ActiveMembers(ctx context.Context, committeeID id.CommitteeID) ([]*models.CommitteeMember, error)
	SeatMember(ctx context.Context, seat *models.CommitteeMember, check store.SeatCheck) error
	UnseatMember(ctx context.Context, committeeID id.CommitteeID, memberID id.MemberID, check store.SeatCheck) error

	CreateResolution(ctx context.Context, r *models.Resolution) error
	FindResolution(ctx context.Context, resolutionID id.ResolutionID) (*models.Resolution, error)
	ListResolutions(ctx context.Context, committeeID id.CommitteeID) ([]*models.Resolution, error)
	ExecuteResolution(ctx context.Context, resolutionID id.ResolutionID, validate func(*models.Resolution) error, mutate func(*models.Resolution) error) (*models.Resolution, error)
	DeleteResolution(ctx context.Context, resolutionID id.ResolutionID) error
	CastVote(ctx context.Context, v *models.Vote, validate func(*models.Resolution) error) (*models.Resolution, error)
	ListVotes(ctx context.Context, resolutionID id.ResolutionID) ([]*models.Vote, error)
}

// AppealChecker reports whether an appeal currently freezes a resolution.
type AppealChecker interface {
	HasActiveAppeal(ctx context.Context, resolutionID id.ResolutionID) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs committees and the resolution lifecycle, and answers the
// resolution-required precondition for disciplinary actions.
type Service struct {
	store          Store
	appeals        AppealChecker
	directory      eligibility.Directory
	authz          access.Authorizer
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
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

// WithAppealChecker overrides the appeal lookup. By default the store is
// asked when it implements AppealChecker.
func WithAppealChecker(checker AppealChecker) Option {
	return func(s *Service) {
		s.appeals = checker
	}
}

// WithDirectory makes seating check that the member exists and is active.
func WithDirectory(directory eligibility.Directory) Option {
	return func(s *Service) {
		s.directory = directory
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		tracer: otel.Tracer("unionhub/resolution"),
	}
	if checker, ok := store.(AppealChecker); ok {
		s.appeals = checker
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

func (s *Service) committee(ctx context.Context, committeeID id.CommitteeID) (*models.Committee, error) {
	c, err := s.store.FindCommittee(ctx, committeeID)
	if err != nil {
		return nil, wrapStoreErr(err, "committee")
	}
	return c, nil
}

func (s *Service) resolution(ctx context.Context, resolutionID id.ResolutionID) (*models.Resolution, error) {
	r, err := s.store.FindResolution(ctx, resolutionID)
	if err != nil {
		return nil, wrapStoreErr(err, "resolution")
	}
	return r, nil
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

func toValidation(err error) error {
	if de, ok := dErrors.As(err); ok && de.Code == dErrors.CodeInvariantViolation {
		return dErrors.New(dErrors.CodeValidation, de.Message)
	}
	return err
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

func requireMember(actor access.ActingContext) error {
	if actor.IsAnonymous() || actor.IsSystem() {
		return dErrors.New(dErrors.CodeUnauthorized, "a member identity is required")
	}
	return nil
}

func isAlreadyUsed(err error) bool { return errors.Is(err, sentinel.ErrAlreadyUsed) }

func isInvalidState(err error) bool { return errors.Is(err, sentinel.ErrInvalidState) }
