package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"unionhub/internal/access"
	"unionhub/internal/member/models"
	"unionhub/internal/member/service"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	"unionhub/pkg/platform/httputil"
	"unionhub/pkg/requestcontext"
)

// Service is the member lifecycle surface used by the handler.
type Service interface {
	Get(ctx context.Context, memberID id.MemberID) (*models.Member, error)
	Suspend(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req service.DisciplinaryRequest) (*models.Member, error)
	Terminate(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req service.DisciplinaryRequest) (*models.Member, error)
	Reinstate(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req service.DisciplinaryRequest) (*models.Member, error)
}

type disciplinaryFunc func(ctx context.Context, actor access.ActingContext, memberID id.MemberID, req service.DisciplinaryRequest) (*models.Member, error)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts member endpoints. The router must already resolve the actor.
func (h *Handler) Register(r chi.Router) {
	r.Get("/members/{id}", h.HandleGet)
	r.Post("/members/{id}/suspend", h.disciplinary("suspend", h.service.Suspend))
	r.Post("/members/{id}/terminate", h.disciplinary("terminate", h.service.Terminate))
	r.Post("/members/{id}/reinstate", h.disciplinary("reinstate", h.service.Reinstate))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, ok := access.ActorFrom(ctx); !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	memberID, err := id.ParseMemberID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.Get(ctx, memberID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toMemberResponse(m))
}

func (h *Handler) disciplinary(action string, apply disciplinaryFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := requestcontext.RequestID(ctx)

		actor, ok := access.ActorFrom(ctx)
		if !ok {
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
			return
		}
		memberID, err := id.ParseMemberID(chi.URLParam(r, "id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		req, ok := httputil.DecodeAndPrepare[DisciplinaryRequest](w, r, h.logger, ctx, requestID)
		if !ok {
			return
		}

		m, err := apply(ctx, actor, memberID, service.DisciplinaryRequest{
			ResolutionID: req.ParsedResolutionID(),
			Notes:        req.Notes,
		})
		if err != nil {
			level := slog.LevelWarn
			if dErrors.HasCode(err, dErrors.CodeInternal) {
				level = slog.LevelError
			}
			h.logger.Log(ctx, level, "member "+action+" failed",
				"request_id", requestID,
				"member_id", memberID,
				"resolution_id", req.ResolutionID,
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}

		h.logger.InfoContext(ctx, "member "+action+" applied",
			"request_id", requestID,
			"member_id", memberID,
			"status", m.Status,
		)
		httputil.WriteJSON(w, http.StatusOK, toMemberResponse(m))
	}
}
