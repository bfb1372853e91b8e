package web

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/backend"
	"github.com/twinhealth/healthdash/internal/dashboard"
	"github.com/twinhealth/healthdash/internal/session"
	"github.com/twinhealth/healthdash/pkg/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memStore is an in-memory token store shared by the client and session
type memStore struct {
	mu     sync.Mutex
	tokens *model.Tokens
}

func (m *memStore) Save(tokens model.Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = &tokens
	return nil
}

func (m *memStore) Load() (*model.Tokens, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return nil, false, nil
	}
	copied := *m.tokens
	return &copied, true, nil
}

func (m *memStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = nil
	return nil
}

// testEnv wires a full router against a fake remote backend
type testEnv struct {
	router   *gin.Engine
	session  *session.Service
	store    *memStore
	requests atomic.Int32
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	env := &testEnv{store: &memStore{}}

	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requests.Add(1)
		if handler != nil {
			handler.ServeHTTP(w, r)
		}
	})
	srv := httptest.NewServer(counted)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	client, err := backend.New(srv.URL, 5*time.Second, env.store, logger)
	require.NoError(t, err)

	env.session = session.New(env.store, logger)
	dash := dashboard.NewService(client, logger)
	env.router = NewServer(client, env.session, dash, logger).Router()

	return env
}

func testTokensPair() model.Tokens {
	return model.Tokens{Access: "tok", Refresh: "ref"}
}

func (e *testEnv) login() {
	e.session.Establish(&model.User{ID: 7, Username: "ada", FirstName: "Ada", LastName: "Lovelace"})
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	e.router.ServeHTTP(w, req)
	return w
}

func TestGuards_AnonymousRedirectedToLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{
		"/dashboard",
		"/dashboard/scans",
		"/dashboard/scans/upload",
		"/dashboard/settings",
		"/dashboard/twin",
	} {
		w := env.get(path)
		assert.Equal(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "path %s", path)
	}

	// No probe fires for a request that never reaches a handler.
	assert.Equal(t, int32(0), env.requests.Load())
}

func TestGuards_AuthenticatedKeptOffAuthPages(t *testing.T) {
	env := newTestEnv(t, nil)
	env.login()

	for _, path := range []string{"/", "/login", "/register"} {
		w := env.get(path)
		assert.Equal(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"), "path %s", path)
	}
}

func TestGuards_AnonymousSeesLoginPage(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.get("/login")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sign in")
}

func TestNoRoute_RedirectsHome(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.get("/no/such/page")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestDashboard_RendersWithAllProbesFailing(t *testing.T) {
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	env.login()

	w := env.get("/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Illustrative data")
}
