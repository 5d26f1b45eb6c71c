package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"parcelbee-client/internal/config"
	"parcelbee-client/internal/session"
)

// requireEventually polls condition until it holds or timeout passes.
func requireEventually(t *testing.T, timeout, tick time.Duration, condition func() bool, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			require.FailNow(t, "condition not met before timeout", msgAndArgs...)
		}
		<-ticker.C
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

type fakeBackend struct {
	srv       *httptest.Server
	listCalls atomic.Int64
	status    atomic.Int64
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{}
	fb.status.Store(http.StatusOK)

	r := chi.NewRouter()
	r.Get("/api/delivery/list/", func(w http.ResponseWriter, _ *http.Request) {
		fb.listCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		code := int(fb.status.Load())
		w.WriteHeader(code)
		if code != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"Invalid token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"count":2,"deliveries":[
			{"id":1,"status":"pending","pickup_address":"A","drop_address":"B","weight":1,"created_at":"2026-01-01T10:00:00Z"},
			{"id":2,"status":"delivered","pickup_address":"C","drop_address":"D","weight":2,"created_at":"2026-01-01T09:00:00Z"}
		]}`))
	})
	fb.srv = httptest.NewServer(r)
	t.Cleanup(fb.srv.Close)
	return fb
}

func testConfig(t *testing.T, apiURL string) *config.Config {
	t.Helper()

	return &config.Config{
		APIBaseURL:    apiURL,
		StatePath:     filepath.Join(t.TempDir(), "state.db"),
		PollInterval:  20 * time.Millisecond,
		RedirectDelay: 0,
		Log:           config.DefaultLog(),
		ORS:           config.ORS{BaseURL: "http://127.0.0.1:1"},
		RateLimit:     config.DefaultRateLimit(),
	}
}

func buildContainer(t *testing.T, ctx context.Context, cfg *config.Config, out *syncBuffer) *dig.Container {
	t.Helper()

	c, err := NewContainerBuilder(cfg).WithOutput(out, &syncBuffer{}).Build(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(c) })
	return c
}

func signedToken(t *testing.T, role string) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 3,
		"email":   "u@example.com",
		"role":    role,
	}).SignedString([]byte("server-secret"))
	require.NoError(t, err)
	return tok
}

func login(t *testing.T, c *dig.Container, role string) {
	t.Helper()

	require.NoError(t, c.Invoke(func(s *session.Store) error {
		return s.SetToken(signedToken(t, role), true)
	}))
}

func serveLocal(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "127.0.0.1:40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
