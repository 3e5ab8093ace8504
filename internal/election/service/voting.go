package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"unionhub/internal/access"
	"unionhub/internal/election/models"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	audit "unionhub/pkg/platform/audit"
	"unionhub/pkg/platform/sentinel"
	"unionhub/pkg/requestcontext"
)

var otpCodePattern = regexp.MustCompile(`^[0-9]{6}$`)

// OTPIssued is returned to the member after a code has been sent. The code
// itself is only ever delivered out of band.
type OTPIssued struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// CastRequest carries a ballot and the capture evidence taken with it.
type CastRequest struct {
	CandidateID id.CandidateID
	Photo       []byte
	PhotoExt    string
	IPAddress   string
	Device      string
}

// RequestOTP issues a fresh code to a delegate who has not voted yet.
func (s *Service) RequestOTP(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (issued OTPIssued, err error) {
	ctx, span := s.startSpan(ctx, "election.request_otp", attribute.String("election_id", electionID.String()))
	defer func() { endSpan(span, err) }()

	if err := s.requireVoter(ctx, actor, electionID); err != nil {
		s.metrics.IncOTPRequest("refused")
		return OTPIssued{}, err
	}
	if s.throttle != nil {
		key := electionID.String() + ":" + actor.MemberID.String()
		ok, err := s.throttle.Allow(ctx, key, s.workflow.OTPRequestLimit, s.workflow.OTPRequestWindow)
		if err != nil {
			return OTPIssued{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check otp request rate")
		}
		if !ok {
			s.metrics.IncOTPRequest("throttled")
			return OTPIssued{}, dErrors.New(dErrors.CodeRateLimited, "too many code requests, try again later")
		}
	}
	if s.deliverer == nil {
		return OTPIssued{}, dErrors.New(dErrors.CodeInternal, "otp delivery not configured")
	}
	snapshot, err := s.directory.Snapshot(ctx, actor.MemberID)
	if err != nil {
		return OTPIssued{}, err
	}
	if snapshot.Email == "" {
		return OTPIssued{}, dErrors.New(dErrors.CodeValidation, "member has no email address on file")
	}

	code, err := models.GenerateCode()
	if err != nil {
		return OTPIssued{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate code")
	}
	now := requestcontext.Now(ctx)
	otp, err := models.NewOTP(id.NewOTPID(), electionID, actor.MemberID, code, s.workflow.OTPTTL, s.bcryptCost, now)
	if err != nil {
		return OTPIssued{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue code")
	}
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateOTP(txCtx, otp); err != nil {
			return wrapStoreErr(err, "otp")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: actor.MemberID,
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventOTPRequested),
			ActorID:  actor.ActorLabel(),
		}, "election_id", electionID, "member_id", actor.MemberID, "expires_at", otp.ExpiresAt)
	})
	if err != nil {
		return OTPIssued{}, err
	}
	if err := s.deliverer.DeliverOTP(ctx, snapshot.Email, code, otp.ExpiresAt); err != nil {
		s.metrics.IncOTPRequest("delivery_failed")
		return OTPIssued{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to deliver code")
	}
	s.metrics.IncOTPRequest("issued")
	return OTPIssued{ExpiresAt: otp.ExpiresAt}, nil
}

// VerifyOTP checks code against the member's latest unverified OTP. Every
// attempt is recorded, including failed ones.
func (s *Service) VerifyOTP(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, code string) (err error) {
	ctx, span := s.startSpan(ctx, "election.verify_otp", attribute.String("election_id", electionID.String()))
	defer func() { endSpan(span, err) }()

	if actor.IsAnonymous() {
		return dErrors.New(dErrors.CodeUnauthorized, "a member identity is required")
	}
	if !otpCodePattern.MatchString(code) {
		return dErrors.New(dErrors.CodeValidation, "code must be six digits")
	}
	now := requestcontext.Now(ctx)
	var outcome error
	_, err = s.store.AttemptLatestOTP(ctx, electionID, actor.MemberID, func(o *models.OTP) {
		outcome = o.Attempt(code, now, s.workflow.OTPMaxAttempts)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no pending code, request a new one")
		}
		return wrapStoreErr(err, "otp")
	}
	if outcome != nil {
		s.metrics.IncOTPVerification(string(dErrors.CodeOf(outcome)))
		if err := s.emit(ctx, audit.Event{
			MemberID: actor.MemberID,
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventOTPFailed),
			Reason:   string(dErrors.CodeOf(outcome)),
			ActorID:  actor.ActorLabel(),
		}, "election_id", electionID, "member_id", actor.MemberID, "reason", dErrors.CodeOf(outcome)); err != nil {
			return err
		}
		return outcome
	}
	s.metrics.IncOTPVerification("verified")
	return s.emit(ctx, audit.Event{
		MemberID: actor.MemberID,
		Subject:  "election:" + electionID.String(),
		Action:   string(audit.EventOTPVerified),
		ActorID:  actor.ActorLabel(),
	}, "election_id", electionID, "member_id", actor.MemberID)
}

// CastVote records a ballot for a verified delegate. The ballot enters the
// verification queue and does not count until approved.
func (s *Service) CastVote(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, req CastRequest) (vote *models.Vote, err error) {
	ctx, span := s.startSpan(ctx, "election.cast_vote", attribute.String("election_id", electionID.String()))
	defer func() { endSpan(span, err) }()

	if len(req.Photo) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "a photo capture is required")
	}
	if req.CandidateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "candidate_id is required")
	}
	if err := s.requireVoter(ctx, actor, electionID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	otp, err := s.store.LatestVerifiedOTP(ctx, electionID, actor.MemberID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeExpired, "verify a code before casting a vote")
		}
		return nil, wrapStoreErr(err, "otp")
	}
	if !otp.AuthorizesCastAt(now, s.workflow.CastWindow) {
		return nil, dErrors.New(dErrors.CodeExpired, "code verification has lapsed, request a new code")
	}

	candidate, err := s.store.FindCandidate(ctx, req.CandidateID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return nil, wrapStoreErr(err, "candidate")
	}
	if candidate == nil || candidate.ElectionID != electionID || candidate.Status != models.CandidateApproved {
		return nil, dErrors.New(dErrors.CodeValidation, "candidate is not an approved candidate of this election")
	}

	if s.photos == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "photo storage not configured")
	}
	path, err := s.photos.Put(ctx, req.Photo, req.PhotoExt)
	if err != nil {
		if _, ok := dErrors.As(err); ok {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store photo")
	}
	vote, err = models.NewVote(id.NewVoteID(), models.Ballot{
		ElectionID:  electionID,
		MemberID:    actor.MemberID,
		CandidateID: candidate.ID,
		PhotoPath:   path,
		IPAddress:   req.IPAddress,
		Device:      req.Device,
	}, now)
	if err != nil {
		s.discardPhoto(ctx, path)
		return nil, toValidation(err)
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.store.CreateVote(txCtx, vote); err != nil {
			if errors.Is(err, sentinel.ErrAlreadyUsed) {
				return dErrors.New(dErrors.CodeDuplicate, "member has already voted in this election")
			}
			return wrapStoreErr(err, "vote")
		}
		return s.emit(txCtx, audit.Event{
			MemberID: actor.MemberID,
			Subject:  "election:" + electionID.String(),
			Action:   string(audit.EventVoteCast),
			ActorID:  actor.ActorLabel(),
		}, "election_id", electionID, "vote_id", vote.ID, "ip", req.IPAddress, "device", req.Device)
	})
	if err != nil {
		s.discardPhoto(ctx, path)
		return nil, err
	}
	s.metrics.IncVoteCast()
	return vote, nil
}

// discardPhoto removes the capture of a ballot that lost the uniqueness race
// or was rolled back. A failed removal only leaves an unreferenced file.
func (s *Service) discardPhoto(ctx context.Context, path string) {
	if err := s.photos.Delete(context.WithoutCancel(ctx), path); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to remove photo of unrecorded ballot", "path", path, "error", err)
	}
}

// VoteStatus returns the acting member's ballot, or NotFound when they have
// not voted.
func (s *Service) VoteStatus(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (*models.Vote, error) {
	if actor.IsAnonymous() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "a member identity is required")
	}
	v, err := s.store.FindVoteByMember(ctx, electionID, actor.MemberID)
	if err != nil {
		return nil, wrapStoreErr(err, "vote")
	}
	return v, nil
}

// requireVoter checks the preconditions shared by code requests and casts:
// voting is open now, the actor is a delegate and has no ballot yet.
func (s *Service) requireVoter(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) error {
	if actor.IsAnonymous() || actor.IsSystem() {
		return dErrors.New(dErrors.CodeUnauthorized, "a member identity is required")
	}
	e, err := s.election(ctx, electionID)
	if err != nil {
		return err
	}
	if !e.AcceptsVotes(requestcontext.Now(ctx)) {
		return dErrors.New(dErrors.CodeStateConflict, "voting is not open")
	}
	delegate, err := s.store.IsDelegate(ctx, electionID, actor.MemberID)
	if err != nil {
		return wrapStoreErr(err, "delegate")
	}
	if !delegate {
		return dErrors.New(dErrors.CodeNotEligible, "not a registered delegate for this election")
	}
	_, err = s.store.FindVoteByMember(ctx, electionID, actor.MemberID)
	switch {
	case err == nil:
		return dErrors.New(dErrors.CodeDuplicate, "member has already voted in this election")
	case !errors.Is(err, sentinel.ErrNotFound):
		return wrapStoreErr(err, "vote")
	}
	return nil
}
