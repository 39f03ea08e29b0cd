package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/eximroyals/storefront/internal/apiclient"
	"github.com/eximroyals/storefront/internal/config"
	"github.com/eximroyals/storefront/internal/session"
	"github.com/eximroyals/storefront/internal/view"
	"github.com/eximroyals/storefront/pkg/health"
	"github.com/eximroyals/storefront/pkg/httpclient"
)

// ============================================================================
// Fake catalog API
// ============================================================================

const (
	testToken     = "api-token-123"
	testMediaBase = "http://media.test"
)

var (
	testCategories = []map[string]any{
		{"id": 1, "title": "Spices", "description": "Whole and ground", "imageUrl": "spices.png"},
		{"id": 2, "title": "Grains", "description": "Rice and millets", "imageUrl": ""},
	}
	testProducts = []map[string]any{
		{"id": 10, "title": "Turmeric", "description": "Salem finger", "category": map[string]any{"id": 1, "title": "Spices"}},
		{"id": 11, "title": "Basmati Rice", "description": "1121 sella", "category": map[string]any{"id": 2, "title": "Grains"}},
	}
)

// fakeAPI answers the catalog endpoints from fixed data. Handlers can be
// replaced per test; every request is recorded.
type fakeAPI struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []*recordedRequest
}

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Form   url.Values
	Files  []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: map[string]http.HandlerFunc{
		"GET /categories": jsonHandler(http.StatusOK, testCategories),
		"GET /products":   jsonHandler(http.StatusOK, testProducts),
		"GET /enquiries": jsonHandler(http.StatusOK, []map[string]any{
			{"id": 7, "firstName": "Ana", "lastName": "Silva", "email": "ana@example.com", "message": "Need 2 tons", "createdAt": "2026-10-01T09:30:00Z"},
		}),
		"POST /enquiries": jsonHandler(http.StatusCreated, map[string]any{"id": 8}),
	}}
}

func (f *fakeAPI) set(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = h
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(1 << 20); err == nil {
			rec.Form = r.MultipartForm.Value
			for name := range r.MultipartForm.File {
				rec.Files = append(rec.Files, name)
			}
		}
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	h(w, r)
}

// last returns the most recent request for method and path.
func (f *fakeAPI) last(method, path string) *recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Method == method && f.requests[i].Path == path {
			return f.requests[i]
		}
	}
	return nil
}

func jsonHandler(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
}

func statusHandler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
	}
}

// ============================================================================
// Test helpers
// ============================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testEnv struct {
	api    *fakeAPI
	router http.Handler
	store  *session.MemoryStore
	codec  *session.CookieCodec
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := newFakeAPI()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	logger := testLogger()
	client := apiclient.New(httpclient.New(httpclient.DefaultConfig()), srv.URL, logger)

	views, err := view.New(testMediaBase)
	require.NoError(t, err)

	store := session.NewMemoryStore()
	codec := session.NewCookieCodec(session.CookieConfig{Secret: "handler-test-secret-0123", TTL: time.Hour})
	manager := session.NewManager(store, codec, client, time.Hour, logger)

	cfg := &config.Config{
		RequestTimeout:      5 * time.Second,
		FormRatePerMinute:   600,
		FormRateBurst:       100,
		MetricsAllowedCIDRs: []string{"127.0.0.0/8"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := NewRouter(ctx, cfg,
		NewGuestHandler(client, views, logger),
		NewAdminHandler(client, manager, views, testMediaBase, logger),
		manager, views, health.NewHandler(), logger,
	)
	return &testEnv{api: api, router: router, store: store, codec: codec}
}

// signIn stores a session and returns its cookie.
func (e *testEnv) signIn(t *testing.T) *http.Cookie {
	t.Helper()
	now := time.Now()
	s := &session.Session{
		ID:        "sess-1",
		Email:     "admin@eximroyals.com",
		APIToken:  testToken,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	require.NoError(t, e.store.Save(context.Background(), s))
	cookie, err := e.codec.Encode(s.ID)
	require.NoError(t, err)
	return cookie
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *testEnv) postForm(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies...)
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
