package service

import (
	"context"
	"errors"
	"log/slog"

	"unionhub/internal/access"
	"unionhub/internal/eligibility"
	"unionhub/internal/member/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/platform/tx"
	"unionhub/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, member *models.Member) error
	FindByID(ctx context.Context, memberID id.MemberID) (*models.Member, error)
	ListActive(ctx context.Context, filter eligibility.Filter) ([]*models.Member, error)
	Execute(ctx context.Context, memberID id.MemberID, validate func(*models.Member) error, mutate func(*models.Member)) (*models.Member, error)
	AddPosition(ctx context.Context, memberID id.MemberID, p models.Position) (bool, error)
}

// ResolutionGate is the resolution-required precondition consumed by
// disciplinary actions.
type ResolutionGate interface {
	ValidateForExecution(ctx context.Context, resolutionID id.ResolutionID, expectedType, expectedCategory string, subject id.MemberID) error
	Execute(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, notes string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns member standing and current leadership positions. It also
// serves as the eligibility.Directory for the election context.
type Service struct {
	store          Store
	gate           ResolutionGate
	authz          access.Authorizer
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

// WithResolutionGate enables disciplinary actions.
func WithResolutionGate(gate ResolutionGate) Option {
	return func(s *Service) {
		s.gate = gate
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
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

// Register creates an active member. Member intake itself lives outside this
// service; Register exists for imports and fixtures.
func (s *Service) Register(ctx context.Context, profile models.Profile) (*models.Member, error) {
	m, err := models.NewMember(id.NewMemberID(), profile, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}
	if err := s.store.Create(ctx, m); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeDuplicate, "member already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create member")
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, memberID id.MemberID) (*models.Member, error) {
	m, err := s.store.FindByID(ctx, memberID)
	if err != nil {
		return nil, wrapMemberErr(err)
	}
	return m, nil
}

// Snapshot implements eligibility.Directory.
func (s *Service) Snapshot(ctx context.Context, memberID id.MemberID) (eligibility.Snapshot, error) {
	m, err := s.Get(ctx, memberID)
	if err != nil {
		return eligibility.Snapshot{}, err
	}
	return m.Snapshot(), nil
}

// ListActive implements eligibility.Directory.
func (s *Service) ListActive(ctx context.Context, filter eligibility.Filter) ([]eligibility.Snapshot, error) {
	members, err := s.store.ListActive(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list members")
	}
	out := make([]eligibility.Snapshot, 0, len(members))
	for _, m := range members {
		out = append(out, m.Snapshot())
	}
	return out, nil
}

func wrapMemberErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "member not found")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		de, _ := dErrors.As(err)
		return dErrors.New(dErrors.CodeStateConflict, de.Message)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "member store failure")
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
	return s.auditPublisher.Emit(ctx, event)
}
