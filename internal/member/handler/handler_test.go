package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionhub/internal/access"
	"unionhub/internal/member/models"
	"unionhub/internal/member/service"
	"unionhub/internal/member/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

type fakeGate struct {
	validateErr error
	executed    []id.ResolutionID
}

func (g *fakeGate) ValidateForExecution(context.Context, id.ResolutionID, string, string, id.MemberID) error {
	return g.validateErr
}

func (g *fakeGate) Execute(_ context.Context, _ access.ActingContext, resolutionID id.ResolutionID, _ string) error {
	g.executed = append(g.executed, resolutionID)
	return nil
}

type fixture struct {
	router http.Handler
	gate   *fakeGate
	member *models.Member
}

func newFixture(t *testing.T, actor *access.ActingContext) *fixture {
	t.Helper()
	gate := &fakeGate{}
	svc := service.New(store.NewInMemory(), service.WithResolutionGate(gate))
	m, err := svc.Register(context.Background(), models.Profile{
		Name:       "Asha",
		Email:      "asha@example.org",
		TehsilID:   id.NewTehsilID(),
		DistrictID: id.NewDistrictID(),
	})
	require.NoError(t, err)

	r := chi.NewRouter()
	if actor != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(access.WithActor(req.Context(), *actor)))
			})
		})
	}
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return &fixture{router: r, gate: gate, member: m}
}

func (f *fixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestSuspendEndpoint(t *testing.T) {
	admin := &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleSuperAdmin, Level: id.LevelState}

	t.Run("suspends with a passed resolution", func(t *testing.T) {
		f := newFixture(t, admin)
		resolutionID := id.NewResolutionID()
		rec := f.post(t, "/members/"+f.member.ID.String()+"/suspend", map[string]string{
			"resolution_id": resolutionID.String(),
			"notes":         "absent from duty",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp MemberResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "suspended", resp.Status)
		assert.Equal(t, []id.ResolutionID{resolutionID}, f.gate.executed)
	})

	t.Run("missing resolution id is a validation error", func(t *testing.T) {
		f := newFixture(t, admin)
		rec := f.post(t, "/members/"+f.member.ID.String()+"/suspend", map[string]string{"notes": "x"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.gate.executed)
	})

	t.Run("guard failure surfaces as conflict", func(t *testing.T) {
		f := newFixture(t, admin)
		f.gate.validateErr = dErrors.New(dErrors.CodeStateConflict, "resolution has already been executed")
		rec := f.post(t, "/members/"+f.member.ID.String()+"/suspend", map[string]string{
			"resolution_id": id.NewResolutionID().String(),
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already been executed")
	})

	t.Run("requires an actor", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.post(t, "/members/"+f.member.ID.String()+"/suspend", map[string]string{
			"resolution_id": id.NewResolutionID().String(),
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("plain members are forbidden", func(t *testing.T) {
		f := newFixture(t, &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleMember, Level: id.LevelTehsil})
		rec := f.post(t, "/members/"+f.member.ID.String()+"/suspend", map[string]string{
			"resolution_id": id.NewResolutionID().String(),
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReinstateFromActiveIsConflict(t *testing.T) {
	f := newFixture(t, &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleSuperAdmin, Level: id.LevelState})
	rec := f.post(t, "/members/"+f.member.ID.String()+"/reinstate", map[string]string{
		"resolution_id": id.NewResolutionID().String(),
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
