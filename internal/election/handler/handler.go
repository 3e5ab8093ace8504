package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"unionhub/internal/access"
	"unionhub/internal/election/models"
	"unionhub/internal/election/service"
	"unionhub/internal/election/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	"unionhub/pkg/platform/device"
	"unionhub/pkg/platform/httputil"
	"unionhub/pkg/requestcontext"
)

// maxBallotBytes bounds a cast request, photo included.
const maxBallotBytes = 8 << 20

// Service is the election workflow surface used by the handler.
type Service interface {
	Create(ctx context.Context, actor access.ActingContext, d models.Draft) (*models.Election, error)
	Get(ctx context.Context, electionID id.ElectionID) (*models.Election, error)
	List(ctx context.Context, filter store.ElectionFilter) ([]*models.Election, error)
	Update(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, d models.Draft) (*models.Election, error)
	Delete(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) error
	Transition(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, action string) (*models.Election, error)

	BuildRoster(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (service.RosterResult, error)
	ListDelegates(ctx context.Context, electionID id.ElectionID) ([]*models.Delegate, error)

	SubmitCandidacy(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, n service.Nomination) (*models.Candidate, error)
	ListCandidates(ctx context.Context, electionID id.ElectionID, status models.CandidateStatus) ([]*models.Candidate, error)
	ApproveCandidate(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID) (*models.Candidate, error)
	RejectCandidate(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID, reason string) (*models.Candidate, error)
	WithdrawCandidate(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID) (*models.Candidate, error)

	RequestOTP(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (service.OTPIssued, error)
	VerifyOTP(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, code string) error
	CastVote(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, req service.CastRequest) (*models.Vote, error)
	VoteStatus(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) (*models.Vote, error)

	PendingVotes(ctx context.Context, actor access.ActingContext, electionID id.ElectionID, page store.PendingPage) ([]*models.Vote, error)
	ApproveVote(ctx context.Context, actor access.ActingContext, voteID id.VoteID) (*models.Vote, error)
	RejectVote(ctx context.Context, actor access.ActingContext, voteID id.VoteID, reason string) (*models.Vote, error)

	CalculateResults(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) ([]*models.Result, error)
	CertifyResults(ctx context.Context, actor access.ActingContext, electionID id.ElectionID) ([]*models.Result, error)
	Results(ctx context.Context, electionID id.ElectionID) ([]*models.Result, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts election endpoints. The router must already resolve the actor.
func (h *Handler) Register(r chi.Router) {
	r.Route("/elections", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Put("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
			r.Post("/transitions/{action}", h.HandleTransition)
			r.Post("/roster", h.HandleBuildRoster)
			r.Get("/delegates", h.HandleListDelegates)
			r.Post("/candidates", h.HandleSubmitCandidacy)
			r.Get("/candidates", h.HandleListCandidates)
			r.Post("/otp", h.HandleRequestOTP)
			r.Post("/otp/verify", h.HandleVerifyOTP)
			r.Post("/votes", h.HandleCastVote)
			r.Get("/votes/me", h.HandleVoteStatus)
			r.Get("/votes/pending", h.HandlePendingVotes)
			r.Post("/results/calculate", h.HandleCalculateResults)
			r.Post("/results/certify", h.HandleCertifyResults)
			r.Get("/results", h.HandleResults)
		})
	})
	r.Post("/candidates/{id}/approve", h.HandleApproveCandidate)
	r.Post("/candidates/{id}/reject", h.HandleRejectCandidate)
	r.Post("/candidates/{id}/withdraw", h.HandleWithdrawCandidate)
	r.Post("/votes/{id}/approve", h.HandleApproveVote)
	r.Post("/votes/{id}/reject", h.HandleRejectVote)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (access.ActingContext, bool) {
	actor, ok := access.ActorFrom(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
	return actor, ok
}

func (h *Handler) electionID(w http.ResponseWriter, r *http.Request) (id.ElectionID, bool) {
	electionID, err := id.ParseElectionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ElectionID{}, false
	}
	return electionID, true
}

// fail logs at warn level, or error for internal failures, and writes the
// error envelope.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	args := append([]any{"request_id", requestcontext.RequestID(r.Context()), "error", err}, attrs...)
	h.logger.Log(r.Context(), level, msg, args...)
	httputil.WriteError(w, err)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ElectionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.Create(ctx, actor, req.Draft())
	if err != nil {
		h.fail(w, r, "election create failed", err)
		return
	}
	h.logger.InfoContext(ctx, "election created",
		"request_id", requestcontext.RequestID(ctx),
		"election_id", e.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	q := r.URL.Query()
	var filter store.ElectionFilter
	if raw := q.Get("level"); raw != "" {
		level, err := id.ParseLevel(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.Level = level
	}
	if raw := q.Get("entity_id"); raw != "" {
		entityID, err := id.ParseEntityID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.EntityID = entityID
	}
	for _, raw := range q["status"] {
		st := models.Status(raw)
		if !st.IsValid() {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "unknown status "+raw))
			return
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	elections, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "election list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(elections))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ElectionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	e, err := h.service.Update(ctx, actor, electionID, req.Draft())
	if err != nil {
		h.fail(w, r, "election update failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), actor, electionID); err != nil {
		h.fail(w, r, "election delete failed", err, "election_id", electionID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	action := chi.URLParam(r, "action")
	e, err := h.service.Transition(ctx, actor, electionID, action)
	if err != nil {
		h.fail(w, r, "election transition failed", err, "election_id", electionID, "action", action)
		return
	}
	h.logger.InfoContext(ctx, "election transitioned",
		"request_id", requestcontext.RequestID(ctx),
		"election_id", electionID,
		"status", e.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) HandleBuildRoster(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	result, err := h.service.BuildRoster(r.Context(), actor, electionID)
	if err != nil {
		h.fail(w, r, "roster build failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleListDelegates(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	delegates, err := h.service.ListDelegates(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(delegates))
}

func (h *Handler) HandleSubmitCandidacy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CandidacyRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.SubmitCandidacy(ctx, actor, electionID, service.Nomination{
		PositionTitle: req.PositionTitle,
		Statement:     req.Statement,
	})
	if err != nil {
		h.fail(w, r, "candidacy submission failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleListCandidates(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	candidates, err := h.service.ListCandidates(r.Context(), electionID, models.CandidateStatus(r.URL.Query().Get("status")))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(candidates))
}

func (h *Handler) candidateAction(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, access.ActingContext, id.CandidateID) (*models.Candidate, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := apply(r.Context(), actor, candidateID)
	if err != nil {
		h.fail(w, r, "candidacy "+action+" failed", err, "candidate_id", candidateID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleApproveCandidate(w http.ResponseWriter, r *http.Request) {
	h.candidateAction(w, r, "approve", h.service.ApproveCandidate)
}

func (h *Handler) HandleWithdrawCandidate(w http.ResponseWriter, r *http.Request) {
	h.candidateAction(w, r, "withdraw", h.service.WithdrawCandidate)
}

func (h *Handler) HandleRejectCandidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := access.ActorFrom(ctx); !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReasonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.candidateAction(w, r, "reject", func(ctx context.Context, actor access.ActingContext, candidateID id.CandidateID) (*models.Candidate, error) {
		return h.service.RejectCandidate(ctx, actor, candidateID, req.Reason)
	})
}

func (h *Handler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	issued, err := h.service.RequestOTP(r.Context(), actor, electionID)
	if err != nil {
		h.fail(w, r, "otp request failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, issued)
}

func (h *Handler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VerifyOTPRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	if err := h.service.VerifyOTP(ctx, actor, electionID, req.Code); err != nil {
		h.fail(w, r, "otp verification failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

// HandleCastVote accepts either a multipart form with a "photo" file part or
// a JSON body with a base64 photo.
func (h *Handler) HandleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBallotBytes)
	req, err := decodeBallot(r)
	if err != nil {
		h.fail(w, r, "invalid ballot", err, "election_id", electionID)
		return
	}
	req.IPAddress = requestcontext.ClientIP(ctx)
	req.Device = device.ParseUserAgent(requestcontext.UserAgent(ctx))

	v, err := h.service.CastVote(ctx, actor, electionID, req)
	if err != nil {
		h.fail(w, r, "vote cast failed", err, "election_id", electionID)
		return
	}
	h.logger.InfoContext(ctx, "vote cast",
		"request_id", requestcontext.RequestID(ctx),
		"election_id", electionID,
		"vote_id", v.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, toVoteReceipt(v))
}

func decodeBallot(r *http.Request) (service.CastRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeMultipartBallot(r)
	}
	var body CastVoteRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		return service.CastRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	if err := body.Validate(); err != nil {
		return service.CastRequest{}, err
	}
	return service.CastRequest{CandidateID: body.parsedCandidateID, Photo: body.photo, PhotoExt: ".jpg"}, nil
}

func decodeMultipartBallot(r *http.Request) (service.CastRequest, error) {
	if err := r.ParseMultipartForm(maxBallotBytes); err != nil {
		return service.CastRequest{}, dErrors.New(dErrors.CodeBadRequest, "invalid multipart body")
	}
	candidateID, err := id.ParseCandidateID(strings.TrimSpace(r.FormValue("candidate_id")))
	if err != nil {
		return service.CastRequest{}, err
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		return service.CastRequest{}, dErrors.New(dErrors.CodeValidation, "a photo capture is required")
	}
	defer file.Close()
	photo, err := io.ReadAll(file)
	if err != nil {
		return service.CastRequest{}, dErrors.New(dErrors.CodeBadRequest, "failed to read photo")
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	return service.CastRequest{CandidateID: candidateID, Photo: photo, PhotoExt: ext}, nil
}

func (h *Handler) HandleVoteStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	v, err := h.service.VoteStatus(r.Context(), actor, electionID)
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		httputil.WriteJSON(w, http.StatusOK, VoteStatusResponse{HasVoted: false})
		return
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, VoteStatusResponse{
		HasVoted: true,
		Status:   string(v.Status),
		CastAt:   &v.CastAt,
	})
}

func (h *Handler) HandlePendingVotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	page, err := parsePendingPage(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	votes, err := h.service.PendingVotes(r.Context(), actor, electionID, page)
	if err != nil {
		h.fail(w, r, "pending votes failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPendingResponse(votes))
}

func parsePendingPage(r *http.Request) (store.PendingPage, error) {
	q := r.URL.Query()
	var page store.PendingPage
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, dErrors.New(dErrors.CodeValidation, "limit must be a positive integer")
		}
		page.Limit = n
	}
	rawAt, rawID := q.Get("after_cast_at"), q.Get("after_id")
	if (rawAt == "") != (rawID == "") {
		return page, dErrors.New(dErrors.CodeValidation, "after_cast_at and after_id must be given together")
	}
	if rawAt != "" {
		at, err := time.Parse(time.RFC3339Nano, rawAt)
		if err != nil {
			return page, dErrors.New(dErrors.CodeValidation, "after_cast_at must be RFC 3339")
		}
		voteID, err := id.ParseVoteID(rawID)
		if err != nil {
			return page, err
		}
		page.AfterCastAt, page.AfterID = at, voteID
	}
	return page, nil
}

func (h *Handler) HandleApproveVote(w http.ResponseWriter, r *http.Request) {
	h.voteAction(w, r, "approve", h.service.ApproveVote)
}

func (h *Handler) HandleRejectVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := access.ActorFrom(ctx); !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReasonRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	h.voteAction(w, r, "reject", func(ctx context.Context, actor access.ActingContext, voteID id.VoteID) (*models.Vote, error) {
		return h.service.RejectVote(ctx, actor, voteID, req.Reason)
	})
}

func (h *Handler) voteAction(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, access.ActingContext, id.VoteID) (*models.Vote, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	voteID, err := id.ParseVoteID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := apply(r.Context(), actor, voteID)
	if err != nil {
		h.fail(w, r, "vote "+action+" failed", err, "vote_id", voteID)
		return
	}
	h.logger.InfoContext(r.Context(), "vote reviewed",
		"request_id", requestcontext.RequestID(r.Context()),
		"vote_id", voteID,
		"status", v.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, toVoteReceipt(v))
}

func (h *Handler) HandleCalculateResults(w http.ResponseWriter, r *http.Request) {
	h.resultsAction(w, r, "calculate", h.service.CalculateResults)
}

func (h *Handler) HandleCertifyResults(w http.ResponseWriter, r *http.Request) {
	h.resultsAction(w, r, "certify", h.service.CertifyResults)
}

func (h *Handler) resultsAction(w http.ResponseWriter, r *http.Request, action string, apply func(context.Context, access.ActingContext, id.ElectionID) ([]*models.Result, error)) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	results, err := apply(r.Context(), actor, electionID)
	if err != nil {
		h.fail(w, r, "results "+action+" failed", err, "election_id", electionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(results))
}

func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	electionID, ok := h.electionID(w, r)
	if !ok {
		return
	}
	results, err := h.service.Results(r.Context(), electionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(results))
}
