package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"unionhub/internal/access"
	"unionhub/internal/resolution/models"
	"unionhub/internal/resolution/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	"unionhub/pkg/platform/httputil"
	"unionhub/pkg/requestcontext"
)

// Service is the committee and resolution surface used by the handler.
type Service interface {
	CreateCommittee(ctx context.Context, actor access.ActingContext, d models.CommitteeDraft) (*models.Committee, error)
	GetCommittee(ctx context.Context, committeeID id.CommitteeID) (*models.Committee, error)
	ListCommittees(ctx context.Context, filter store.CommitteeFilter) ([]*models.Committee, error)
	AddCommitteeMember(ctx context.Context, actor access.ActingContext, committeeID id.CommitteeID, memberID id.MemberID, role models.Role) (*models.CommitteeMember, error)
	RemoveCommitteeMember(ctx context.Context, actor access.ActingContext, committeeID id.CommitteeID, memberID id.MemberID) error

	CreateResolution(ctx context.Context, actor access.ActingContext, committeeID id.CommitteeID, d models.Draft) (*models.Resolution, error)
	GetResolution(ctx context.Context, resolutionID id.ResolutionID) (*models.Resolution, error)
	ListResolutions(ctx context.Context, committeeID id.CommitteeID) ([]*models.Resolution, error)
	UpdateResolution(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, d models.Draft) (*models.Resolution, error)
	DeleteResolution(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) error
	OpenVoting(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (*models.Resolution, error)
	CastVote(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, choice models.Choice) (*models.Resolution, error)
	ListVotes(ctx context.Context, resolutionID id.ResolutionID) ([]*models.Vote, error)
	CloseVoting(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (*models.Resolution, error)
	Cancel(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (*models.Resolution, error)
	Execute(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID, notes string) (*models.Resolution, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts committee and resolution endpoints. The router must already
// resolve the actor.
func (h *Handler) Register(r chi.Router) {
	r.Route("/committees", func(r chi.Router) {
		r.Post("/", h.HandleCreateCommittee)
		r.Get("/", h.HandleListCommittees)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetCommittee)
			r.Post("/members", h.HandleAddMember)
			r.Delete("/members/{memberID}", h.HandleRemoveMember)
			r.Post("/resolutions", h.HandleCreateResolution)
			r.Get("/resolutions", h.HandleListResolutions)
		})
	})
	r.Route("/resolutions/{id}", func(r chi.Router) {
		r.Get("/", h.HandleGetResolution)
		r.Put("/", h.HandleUpdateResolution)
		r.Delete("/", h.HandleDeleteResolution)
		r.Post("/open-voting", h.HandleOpenVoting)
		r.Post("/close-voting", h.HandleCloseVoting)
		r.Post("/cancel", h.HandleCancel)
		r.Post("/execute", h.HandleExecute)
		r.Post("/votes", h.HandleCastVote)
		r.Get("/votes", h.HandleListVotes)
	})
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (access.ActingContext, bool) {
	actor, ok := access.ActorFrom(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
	}
	return actor, ok
}

func (h *Handler) committeeID(w http.ResponseWriter, r *http.Request) (id.CommitteeID, bool) {
	committeeID, err := id.ParseCommitteeID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.CommitteeID{}, false
	}
	return committeeID, true
}

func (h *Handler) resolutionID(w http.ResponseWriter, r *http.Request) (id.ResolutionID, bool) {
	resolutionID, err := id.ParseResolutionID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.ResolutionID{}, false
	}
	return resolutionID, true
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	level := slog.LevelWarn
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		level = slog.LevelError
	}
	args := append([]any{"request_id", requestcontext.RequestID(r.Context()), "error", err}, attrs...)
	h.logger.Log(r.Context(), level, msg, args...)
	httputil.WriteError(w, err)
}

func (h *Handler) HandleCreateCommittee(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CommitteeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.service.CreateCommittee(ctx, actor, req.Draft())
	if err != nil {
		h.fail(w, r, "committee create failed", err)
		return
	}
	h.logger.InfoContext(ctx, "committee created",
		"request_id", requestcontext.RequestID(ctx),
		"committee_id", c.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleListCommittees(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	q := r.URL.Query()
	var filter store.CommitteeFilter
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
	committees, err := h.service.ListCommittees(r.Context(), filter)
	if err != nil {
		h.fail(w, r, "committee list failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(committees))
}

func (h *Handler) HandleGetCommittee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	committeeID, ok := h.committeeID(w, r)
	if !ok {
		return
	}
	c, err := h.service.GetCommittee(r.Context(), committeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	committeeID, ok := h.committeeID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[SeatRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	seat, err := h.service.AddCommitteeMember(ctx, actor, committeeID, req.memberID, models.Role(req.Role))
	if err != nil {
		h.fail(w, r, "committee seat failed", err, "committee_id", committeeID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, seat)
}

func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	committeeID, ok := h.committeeID(w, r)
	if !ok {
		return
	}
	memberID, err := id.ParseMemberID(chi.URLParam(r, "memberID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.RemoveCommitteeMember(r.Context(), actor, committeeID, memberID); err != nil {
		h.fail(w, r, "committee unseat failed", err, "committee_id", committeeID, "member_id", memberID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleCreateResolution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	committeeID, ok := h.committeeID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ResolutionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.CreateResolution(ctx, actor, committeeID, req.Draft())
	if err != nil {
		h.fail(w, r, "resolution create failed", err, "committee_id", committeeID)
		return
	}
	h.logger.InfoContext(ctx, "resolution proposed",
		"request_id", requestcontext.RequestID(ctx),
		"resolution_id", res.ID,
		"committee_id", committeeID,
	)
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) HandleListResolutions(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	committeeID, ok := h.committeeID(w, r)
	if !ok {
		return
	}
	out, err := h.service.ListResolutions(r.Context(), committeeID)
	if err != nil {
		h.fail(w, r, "resolution list failed", err, "committee_id", committeeID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(out))
}

func (h *Handler) HandleGetResolution(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	res, err := h.service.GetResolution(r.Context(), resolutionID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

func (h *Handler) HandleUpdateResolution(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ResolutionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.UpdateResolution(ctx, actor, resolutionID, req.Draft())
	if err != nil {
		h.fail(w, r, "resolution update failed", err, "resolution_id", resolutionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

func (h *Handler) HandleDeleteResolution(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteResolution(r.Context(), actor, resolutionID); err != nil {
		h.fail(w, r, "resolution delete failed", err, "resolution_id", resolutionID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type lifecycleFunc func(ctx context.Context, actor access.ActingContext, resolutionID id.ResolutionID) (*models.Resolution, error)

func (h *Handler) HandleOpenVoting(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "voting opened", h.service.OpenVoting)
}

func (h *Handler) HandleCloseVoting(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "voting closed", h.service.CloseVoting)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "cancelled", h.service.Cancel)
}

// lifecycle runs a body-less status change.
func (h *Handler) lifecycle(w http.ResponseWriter, r *http.Request, outcome string, step lifecycleFunc) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	res, err := step(ctx, actor, resolutionID)
	if err != nil {
		h.fail(w, r, "resolution status change failed", err, "resolution_id", resolutionID, "outcome", outcome)
		return
	}
	h.logger.InfoContext(ctx, "resolution "+outcome,
		"request_id", requestcontext.RequestID(ctx),
		"resolution_id", resolutionID,
		"status", res.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

func (h *Handler) HandleExecute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	req := &ExecuteRequest{}
	if r.ContentLength != 0 {
		if req, ok = httputil.DecodeAndPrepare[ExecuteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx)); !ok {
			return
		}
	}
	res, err := h.service.Execute(ctx, actor, resolutionID, req.Notes)
	if err != nil {
		h.fail(w, r, "resolution execute failed", err, "resolution_id", resolutionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResolutionResponse(res))
}

func (h *Handler) HandleCastVote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[VoteRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	res, err := h.service.CastVote(ctx, actor, resolutionID, req.choice)
	if err != nil {
		h.fail(w, r, "resolution vote failed", err, "resolution_id", resolutionID)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResolutionResponse(res))
}

func (h *Handler) HandleListVotes(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	resolutionID, ok := h.resolutionID(w, r)
	if !ok {
		return
	}
	votes, err := h.service.ListVotes(r.Context(), resolutionID)
	if err != nil {
		h.fail(w, r, "resolution vote list failed", err, "resolution_id", resolutionID)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse(votes))
}
