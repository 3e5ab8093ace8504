package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unionhub/internal/access"
	"unionhub/pkg/platform/httputil"
	"unionhub/pkg/testutil"
)

type countingTicker struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (t *countingTicker) Tick(context.Context) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++
	return 2, t.err
}

func (t *countingTicker) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

type observation struct {
	method string
	route  string
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method: method, route: route, status: status})
}

// whoami echoes the resolved actor so tests can see what the token carried.
type whoami struct{}

func (whoami) Register(r chi.Router) {
	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
		actor, _ := access.ActorFrom(r.Context())
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"member_id": actor.MemberID.String(),
			"role":      string(actor.Role),
		})
	})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("handler exploded")
	})
}

const adminToken = "operator-secret"

var tokens = access.NewTokenService("router-test-key", "unionhub", "unionhub-api")

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(ticker *countingTicker, observer *recordingObserver, mutate ...func(*Deps)) http.Handler {
	d := Deps{
		Logger:     quietLogger(),
		Observer:   observer,
		Actors:     tokens,
		Ticker:     ticker,
		AdminToken: adminToken,
		Handlers:   []Registrar{whoami{}},
	}
	for _, m := range mutate {
		m(&d)
	}
	return NewRouter(d)
}

func TestRouterAuthentication(t *testing.T) {
	router := newRouter(&countingTicker{}, &recordingObserver{})

	testutil.Given(t, "no bearer token", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/api/v1/whoami", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.Given(t, "a token signed with another key", func(t *testing.T) {
		forged, err := access.NewTokenService("other-key", "unionhub", "unionhub-api").Issue(testutil.StateAdmin(), time.Hour)
		require.NoError(t, err)
		rr := testutil.DoRequest(router, testutil.BearerRequest(t, http.MethodGet, "/api/v1/whoami", forged, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	testutil.Given(t, "a valid token", func(t *testing.T) {
		actor := testutil.StateAdmin()
		token, err := tokens.Issue(actor, time.Hour)
		require.NoError(t, err)

		testutil.When(t, "the handler reads the actor", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.BearerRequest(t, http.MethodGet, "/api/v1/whoami", token, nil))
			require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

			testutil.Then(t, "it sees the token's member and role", func(t *testing.T) {
				body := testutil.UnmarshalResponse[map[string]string](t, rr)
				assert.Equal(t, actor.MemberID.String(), (*body)["member_id"])
				assert.Equal(t, string(access.RoleStateAdmin), (*body)["role"])
			})
		})
	})
}

func TestRouterHealthEndpoints(t *testing.T) {
	t.Run("healthz needs no token", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(&countingTicker{}, &recordingObserver{}),
			testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("readyz reports an unreachable database", func(t *testing.T) {
		router := newRouter(&countingTicker{}, &recordingObserver{}, func(d *Deps) {
			d.Ready = pingFunc(func(context.Context) error { return errors.New("connection refused") })
		})
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})

	t.Run("metrics are exposed", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(&countingTicker{}, &recordingObserver{}),
			testutil.NewJSONRequest(t, http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown routes use the error envelope", func(t *testing.T) {
		rr := testutil.DoRequest(newRouter(&countingTicker{}, &recordingObserver{}),
			testutil.NewJSONRequest(t, http.MethodGet, "/nowhere", nil))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}

func TestAdminTick(t *testing.T) {
	ticker := &countingTicker{}
	router := newRouter(ticker, &recordingObserver{})

	t.Run("rejects a wrong operator token", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/tick", nil)
		req.Header.Set("X-Admin-Token", "guess")
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
		assert.Zero(t, ticker.count())
	})

	t.Run("runs one tick", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/tick", nil)
		req.Header.Set("X-Admin-Token", adminToken)
		rr := testutil.DoRequest(router, req)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		assert.JSONEq(t, `{"advanced":2}`, rr.Body.String())
		assert.Equal(t, 1, ticker.count())
	})

	t.Run("disabled without a configured token", func(t *testing.T) {
		closed := newRouter(ticker, &recordingObserver{}, func(d *Deps) { d.AdminToken = "" })
		req := testutil.NewJSONRequest(t, http.MethodPost, "/admin/tick", nil)
		req.Header.Set("X-Admin-Token", "")
		rr := testutil.DoRequest(closed, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAutoTickIsThrottled(t *testing.T) {
	ticker := &countingTicker{err: errors.New("store down")}
	router := newRouter(ticker, &recordingObserver{}, func(d *Deps) {
		d.AutoTick = true
		d.AutoTickInterval = time.Hour
	})
	token, err := tokens.Issue(testutil.StateAdmin(), time.Hour)
	require.NoError(t, err)

	for range 3 {
		rr := testutil.DoRequest(router, testutil.BearerRequest(t, http.MethodGet, "/api/v1/whoami", token, nil))
		assert.Equal(t, http.StatusOK, rr.Code, "a failed tick must not fail the request")
	}
	assert.Equal(t, 1, ticker.count())
}

func TestRequestMiddleware(t *testing.T) {
	observer := &recordingObserver{}
	router := newRouter(&countingTicker{}, observer)
	token, err := tokens.Issue(testutil.StateAdmin(), time.Hour)
	require.NoError(t, err)

	t.Run("echoes an inbound request id", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-42")
		rr := testutil.DoRequest(router, req)
		assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
	})

	t.Run("mints a request id when none is sent", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodGet, "/healthz", nil))
		assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
	})

	t.Run("recovers from a handler panic", func(t *testing.T) {
		rr := testutil.DoRequest(router, testutil.BearerRequest(t, http.MethodGet, "/api/v1/boom", token, nil))
		testutil.AssertStatusAndError(t, rr, http.StatusInternalServerError, "internal_error")
	})

	t.Run("observes the route pattern", func(t *testing.T) {
		testutil.DoRequest(router, testutil.BearerRequest(t, http.MethodGet, "/api/v1/whoami", token, nil))
		observer.mu.Lock()
		defer observer.mu.Unlock()
		require.NotEmpty(t, observer.seen)
		last := observer.seen[len(observer.seen)-1]
		assert.Equal(t, observation{method: http.MethodGet, route: "/api/v1/whoami", status: http.StatusOK}, last)
	})
}
