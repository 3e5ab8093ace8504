package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionhub/internal/access"
	"unionhub/internal/election/models"
	"unionhub/internal/election/service"
	"unionhub/internal/election/store"
	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
	"unionhub/pkg/requestcontext"
)

const chromeAndroid = "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"

// stubService records the calls the handler makes. Methods a test does not
// override panic through the nil embedded interface.
type stubService struct {
	Service

	created    *models.Draft
	transition error
	cast       *service.CastRequest
	castErr    error
	voteStatus error
	page       *store.PendingPage
}

func (s *stubService) Create(_ context.Context, actor access.ActingContext, d models.Draft) (*models.Election, error) {
	s.created = &d
	return models.NewElection(id.NewElectionID(), d, actor.MemberID, time.Date(2026, 4, 30, 9, 0, 0, 0, time.UTC))
}

func (s *stubService) Transition(context.Context, access.ActingContext, id.ElectionID, string) (*models.Election, error) {
	return nil, s.transition
}

func (s *stubService) CastVote(_ context.Context, actor access.ActingContext, electionID id.ElectionID, req service.CastRequest) (*models.Vote, error) {
	s.cast = &req
	if s.castErr != nil {
		return nil, s.castErr
	}
	return models.NewVote(id.NewVoteID(), models.Ballot{
		ElectionID:  electionID,
		MemberID:    actor.MemberID,
		CandidateID: req.CandidateID,
		PhotoPath:   "2026/05/12/ballot.jpg",
		IPAddress:   req.IPAddress,
		Device:      req.Device,
	}, time.Date(2026, 5, 12, 14, 0, 0, 0, time.UTC))
}

func (s *stubService) VoteStatus(context.Context, access.ActingContext, id.ElectionID) (*models.Vote, error) {
	return nil, s.voteStatus
}

func (s *stubService) PendingVotes(_ context.Context, _ access.ActingContext, _ id.ElectionID, page store.PendingPage) ([]*models.Vote, error) {
	s.page = &page
	return nil, nil
}

type fixture struct {
	router http.Handler
	svc    *stubService
}

func newFixture(t *testing.T, actor *access.ActingContext) *fixture {
	t.Helper()
	svc := &stubService{}
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithClientMetadata(req.Context(), "203.0.113.9", req.UserAgent())
			if actor != nil {
				ctx = access.WithActor(ctx, *actor)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return &fixture{router: r, svc: svc}
}

func (f *fixture) do(t *testing.T, method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", chromeAndroid)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return f.do(t, http.MethodPost, path, "application/json", bytes.NewReader(payload))
}

func electionBody(tehsil id.TehsilID, district id.DistrictID) map[string]any {
	return map[string]any{
		"title":            "Tehsil executive 2026",
		"level":            "tehsil",
		"entity_id":        tehsil.String(),
		"district_id":      district.String(),
		"nomination_start": "2026-05-01T00:00:00Z",
		"nomination_end":   "2026-05-10T00:00:00Z",
		"voting_start":     "2026-05-12T00:00:00Z",
		"voting_end":       "2026-05-13T00:00:00Z",
		"voting_eligibility_criteria": map[string]any{
			"min_union_years": 3,
		},
	}
}

func TestCreateElectionEndpoint(t *testing.T) {
	admin := &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleStateAdmin, Level: id.LevelState}

	t.Run("creates a draft election", func(t *testing.T) {
		f := newFixture(t, admin)
		tehsil, district := id.NewTehsilID(), id.NewDistrictID()
		rec := f.postJSON(t, "/elections", electionBody(tehsil, district))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		require.NotNil(t, f.svc.created)
		assert.Equal(t, models.TypeGeneral, f.svc.created.Type)
		assert.Equal(t, id.EntityID(tehsil), f.svc.created.EntityID)
		require.NotNil(t, f.svc.created.VotingCriteria)
		assert.Equal(t, 3, *f.svc.created.VotingCriteria.MinUnionYears)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "draft", body["status"])
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		f := newFixture(t, admin)
		body := electionBody(id.NewTehsilID(), id.NewDistrictID())
		body["scheduled"] = true
		rec := f.postJSON(t, "/elections", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires windows", func(t *testing.T) {
		f := newFixture(t, admin)
		body := electionBody(id.NewTehsilID(), id.NewDistrictID())
		delete(body, "voting_end")
		rec := f.postJSON(t, "/elections", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, f.svc.created)
	})

	t.Run("requires an actor", func(t *testing.T) {
		f := newFixture(t, nil)
		rec := f.postJSON(t, "/elections", electionBody(id.NewTehsilID(), id.NewDistrictID()))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTransitionEndpointMapsConflicts(t *testing.T) {
	admin := &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleStateAdmin, Level: id.LevelState}
	f := newFixture(t, admin)
	f.svc.transition = dErrors.New(dErrors.CodeStateConflict, "voting requires at least one approved candidate")

	rec := f.postJSON(t, "/elections/"+id.NewElectionID().String()+"/transitions/open-voting", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "approved candidate")
}

func TestCastVoteEndpoint(t *testing.T) {
	voter := &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleMember, Level: id.LevelTehsil}
	candidateID := id.NewCandidateID()
	path := "/elections/" + id.NewElectionID().String() + "/votes"
	photo := []byte{0xff, 0xd8, 0xff, 0xe0, 'j', 'p', 'e', 'g'}

	t.Run("multipart upload", func(t *testing.T) {
		f := newFixture(t, voter)
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("candidate_id", candidateID.String()))
		part, err := mw.CreateFormFile("photo", "capture.PNG")
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		rec := f.do(t, http.MethodPost, path, mw.FormDataContentType(), &buf)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		require.NotNil(t, f.svc.cast)
		assert.Equal(t, candidateID, f.svc.cast.CandidateID)
		assert.Equal(t, photo, f.svc.cast.Photo)
		assert.Equal(t, ".png", f.svc.cast.PhotoExt)
		assert.Equal(t, "203.0.113.9", f.svc.cast.IPAddress)
		assert.Contains(t, f.svc.cast.Device, "Chrome")
		assert.NotContains(t, rec.Body.String(), candidateID.String())
	})

	t.Run("json with base64 photo", func(t *testing.T) {
		f := newFixture(t, voter)
		rec := f.postJSON(t, path, map[string]string{
			"candidate_id": candidateID.String(),
			"photo":        "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(photo),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, photo, f.svc.cast.Photo)
		assert.Equal(t, ".jpg", f.svc.cast.PhotoExt)
	})

	t.Run("missing photo", func(t *testing.T) {
		f := newFixture(t, voter)
		rec := f.postJSON(t, path, map[string]string{"candidate_id": candidateID.String()})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, f.svc.cast)
	})

	t.Run("lapsed verification", func(t *testing.T) {
		f := newFixture(t, voter)
		f.svc.castErr = dErrors.New(dErrors.CodeExpired, "code verification has lapsed, request a new code")
		rec := f.postJSON(t, path, map[string]string{
			"candidate_id": candidateID.String(),
			"photo":        base64.StdEncoding.EncodeToString(photo),
		})
		assert.Equal(t, http.StatusGone, rec.Code)
	})
}

func TestVoteStatusEndpoint(t *testing.T) {
	voter := &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleMember, Level: id.LevelTehsil}
	f := newFixture(t, voter)
	f.svc.voteStatus = dErrors.New(dErrors.CodeNotFound, "vote not found")

	rec := f.do(t, http.MethodGet, "/elections/"+id.NewElectionID().String()+"/votes/me", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"has_voted":false}`, rec.Body.String())
}

func TestPendingVotesPaging(t *testing.T) {
	ec := &access.ActingContext{MemberID: id.NewMemberID(), Role: access.RoleMember, Level: id.LevelState, ActivePortfolio: access.PortfolioElectionCommission}
	base := "/elections/" + id.NewElectionID().String() + "/votes/pending"

	t.Run("parses the cursor", func(t *testing.T) {
		f := newFixture(t, ec)
		voteID := id.NewVoteID()
		rec := f.do(t, http.MethodGet, base+"?limit=20&after_cast_at=2026-05-12T14:00:00Z&after_id="+voteID.String(), "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotNil(t, f.svc.page)
		assert.Equal(t, 20, f.svc.page.Limit)
		assert.Equal(t, voteID, f.svc.page.AfterID)
		assert.True(t, f.svc.page.AfterCastAt.Equal(time.Date(2026, 5, 12, 14, 0, 0, 0, time.UTC)))
	})

	t.Run("cursor halves must come together", func(t *testing.T) {
		f := newFixture(t, ec)
		rec := f.do(t, http.MethodGet, base+"?after_id="+id.NewVoteID().String(), "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, f.svc.page)
	})
}
