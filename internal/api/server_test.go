package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/booklyapp/bookly-server/internal/domain"
	"github.com/booklyapp/bookly-server/internal/service"
	"github.com/booklyapp/bookly-server/internal/store"
	"github.com/booklyapp/bookly-server/internal/validation"
)

// testServer wraps the API server for testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newServerWithStore builds a server over st with the given options.
func newServerWithStore(t *testing.T, st store.BookStore, opts Options) *testServer {
	t.Helper()

	logger := testLogger()
	services := &Services{
		Recommendation: service.NewRecommendationService(st, logger, 5*time.Second),
		Book:           service.NewBookService(st, validation.New(), logger, 5*time.Second),
		Status:         service.NewStatusService(st, logger, 5*time.Second),
	}

	s := NewServer(st, services, opts, logger)
	t.Cleanup(s.Close)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// setupTestServer creates a server over an in-memory store mounted at /api.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := store.NewInMemory(nil, store.NewNoopEmitter())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck // Test cleanup

	return newServerWithStore(t, st, Options{BasePath: "/api"})
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

func (ts *testServer) populate(t *testing.T) {
	t.Helper()
	resp := ts.api.Post("/api/books/populate")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func bookTitles(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestRoot(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"message":"Hello World"}`, resp.Body.String())
}

func TestPopulateBooks(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/books/populate")
	require.Equal(t, http.StatusOK, resp.Code)

	body := decode[PopulateResponse](t, resp.Body.Bytes())
	assert.Equal(t, "Successfully populated 18 sample books", body.Message)
	assert.Equal(t, 18, body.InsertedCount)

	// Populating twice leaves exactly one catalog behind.
	ts.populate(t)
	resp = ts.api.Get("/api/books")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decode[[]domain.Book](t, resp.Body.Bytes()), 18)
}

func TestListBooks_Empty(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/books")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())
}

func TestRecommend_SampleScenarios(t *testing.T) {
	ts := setupTestServer(t)
	ts.populate(t)

	tests := []struct {
		name       string
		mood       string
		genre      string
		wantTitles []string
		wantTotal  int
	}{
		{
			name:       "fantasy adventurous",
			mood:       "adventurous",
			genre:      "Fantasy",
			wantTitles: []string{"The Hobbit", "The Lord of the Rings", "Harry Potter and the Sorcerer's Stone"},
			wantTotal:  3,
		},
		{
			name:       "fantasy nonexistent",
			mood:       "nonexistent",
			genre:      "Fantasy",
			wantTitles: []string{},
			wantTotal:  0,
		},
		{
			name:       "thriller dark",
			mood:       "dark",
			genre:      "Thriller",
			wantTitles: []string{"Gone Girl", "The Girl with the Dragon Tattoo"},
			wantTotal:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/recommend", map[string]any{"mood": tt.mood, "genre": tt.genre})
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			body := decode[RecommendResponse](t, resp.Body.Bytes())
			assert.Equal(t, tt.wantTitles, bookTitles(body.Books))
			assert.Equal(t, tt.wantTotal, body.TotalMatches)
			for _, b := range body.Books {
				assert.True(t, strings.EqualFold(tt.genre, b.Genre))
			}
		})
	}
}

func TestRecommend_EmptyResultIsArray(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/recommend", map[string]any{"mood": "dark", "genre": "Thriller"})

	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"books":[],"total_matches":0}`, resp.Body.String())
}

func TestRecommend_SpecialCharacters(t *testing.T) {
	ts := setupTestServer(t)
	ts.populate(t)

	for _, in := range []string{"", "%", "_", ".*", "'; DROP TABLE books; --", "<script>", "日本語", "{\"$ne\":null}"} {
		resp := ts.api.Post("/api/recommend", map[string]any{"mood": in, "genre": in})
		require.Equal(t, http.StatusOK, resp.Code, "input %q: %s", in, resp.Body.String())

		body := decode[RecommendResponse](t, resp.Body.Bytes())
		assert.NotNil(t, body.Books)
		assert.Zero(t, body.TotalMatches, "input %q", in)
	}
}

func TestRecommend_ExtraFieldsIgnored(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/recommend", map[string]any{"mood": "dark", "genre": "Thriller", "limit": 3})

	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
}

func TestRecommend_ValidationErrors(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing genre", map[string]any{"mood": "dark"}},
		{"missing mood", map[string]any{"genre": "Thriller"}},
		{"mistyped mood", map[string]any{"mood": 3, "genre": "Thriller"}},
		{"null genre", map[string]any{"mood": "dark", "genre": nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/recommend", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())

			body := decode[APIError](t, resp.Body.Bytes())
			assert.Equal(t, "VALIDATION", body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestRecommend_MalformedBodies(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		args []any
	}{
		{"no body", nil},
		{"empty body", []any{"Content-Type: application/json", strings.NewReader("")}},
		{"not json", []any{"Content-Type: application/json", strings.NewReader("not json")}},
		{"truncated json", []any{"Content-Type: application/json", strings.NewReader(`{"mood":"a","genre":"b"`)}},
		{"array body", []any{"Content-Type: application/json", strings.NewReader(`[]`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/recommend", tt.args...)
			require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
			assert.Equal(t, "VALIDATION", decode[APIError](t, resp.Body.Bytes()).Code)
		})
	}
}

func TestCreateAndGetBook(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/books", map[string]any{
		"title":           "Piranesi",
		"author":          "Susanna Clarke",
		"genre":           "Fantasy",
		"mood_tags":       "mysterious, Contemplative",
		"description":     "A house of endless halls.",
		"cover_image_url": "https://example.com/piranesi.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	created := decode[domain.Book](t, resp.Body.Bytes())
	require.NotEmpty(t, created.ID)

	resp = ts.api.Get("/api/books/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, created, decode[domain.Book](t, resp.Body.Bytes()))

	resp = ts.api.Post("/api/recommend", map[string]any{"mood": "contemplative", "genre": "fantasy"})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, []string{"Piranesi"}, bookTitles(decode[RecommendResponse](t, resp.Body.Bytes()).Books))
}

func TestCreateBook_Invalid(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/books", map[string]any{
		"title":           "Piranesi",
		"author":          "Susanna Clarke",
		"genre":           "Fantasy",
		"mood_tags":       "mysterious",
		"description":     "",
		"cover_image_url": "not a url",
	})

	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	body := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, map[string]any{"cover_image_url": "must be a valid URL"}, body.Details)
}

func TestGetBook_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/books/does-not-exist")

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[APIError](t, resp.Body.Bytes()).Code)
}

func TestStatusChecks(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/status")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	resp = ts.api.Post("/api/status", map[string]any{"client_name": "ios-app"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	check := decode[domain.StatusCheck](t, resp.Body.Bytes())
	assert.True(t, strings.HasPrefix(check.ID, "status-"))
	assert.Equal(t, "ios-app", check.ClientName)

	resp = ts.api.Get("/api/status")
	require.Equal(t, http.StatusOK, resp.Code)
	checks := decode[[]domain.StatusCheck](t, resp.Body.Bytes())
	require.Len(t, checks, 1)
	assert.Equal(t, check.ID, checks[0].ID)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)
	ts.populate(t)

	resp := ts.api.Get("/api/health")

	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "18 books", body.Components["store"].Message)
	assert.Equal(t, "disabled", body.Components["rate_limit"].Message)
}

func TestHealthCheck_ClosedStore(t *testing.T) {
	st, err := store.NewInMemory(nil, nil)
	require.NoError(t, err)
	ts := newServerWithStore(t, st, Options{BasePath: "/api"})
	require.NoError(t, st.Close())

	resp := ts.api.Get("/api/health")

	require.Equal(t, http.StatusOK, resp.Code)
	body := decode[HealthResponse](t, resp.Body.Bytes())
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "unhealthy", body.Components["store"].Status)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	ts.api.Get("/api/")

	resp := ts.api.Get("/api/metrics")

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "bookly_http_requests_total")
}

func TestUnknownRoute(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/nowhere")

	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[APIError](t, resp.Body.Bytes()).Code)
}

func TestBasePath(t *testing.T) {
	st, err := store.NewInMemory(nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck // Test cleanup

	ts := newServerWithStore(t, st, Options{})

	assert.Equal(t, http.StatusOK, ts.api.Get("/").Code)
	assert.Equal(t, http.StatusOK, ts.api.Post("/recommend", map[string]any{"mood": "", "genre": ""}).Code)
	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/books").Code)
}

func TestRateLimit(t *testing.T) {
	st, err := store.NewInMemory(nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck // Test cleanup

	ts := newServerWithStore(t, st, Options{BasePath: "/api", RateLimitRPS: 0.001, RateLimitBurst: 1})

	require.Equal(t, http.StatusOK, ts.api.Get("/api/").Code)

	resp := ts.api.Get("/api/")
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
	body := decode[APIError](t, resp.Body.Bytes())
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Equal(t, "Too many requests. Please try again later.", body.Message)

	// Other clients have their own budget.
	assert.Equal(t, http.StatusOK, ts.api.Get("/api/", "X-Forwarded-For: 198.51.100.7").Code)
}

func TestCORSPreflight(t *testing.T) {
	st, err := store.NewInMemory(nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck // Test cleanup

	ts := newServerWithStore(t, st, Options{BasePath: "/api", CORSOrigins: []string{"http://app.example"}})

	resp := ts.api.Do(http.MethodOptions, "/api/recommend",
		"Origin: http://app.example",
		"Access-Control-Request-Method: POST",
	)

	assert.Equal(t, "http://app.example", resp.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header().Get("Access-Control-Allow-Credentials"))
}

var errSecret = errors.New("badger: value log corrupted at /var/lib/bookly/000001.vlog")

// brokenStore fails every read with an error that must not leak.
type brokenStore struct {
	store.BookStore
}

func (brokenStore) BooksByGenre(context.Context, string) ([]store.Document, error) {
	return nil, errSecret
}

func (brokenStore) AllBooks(context.Context) ([]store.Document, error) {
	return nil, errSecret
}

func (brokenStore) ReplaceBooks(context.Context, []*domain.Book) (int, error) {
	return 0, errSecret
}

func TestInternalErrorsDoNotLeak(t *testing.T) {
	ts := newServerWithStore(t, brokenStore{}, Options{BasePath: "/api"})

	tests := []struct {
		name string
		do   func() *http.Response
	}{
		{"recommend", func() *http.Response {
			return ts.api.Post("/api/recommend", map[string]any{"mood": "dark", "genre": "Thriller"}).Result()
		}},
		{"list books", func() *http.Response { return ts.api.Get("/api/books").Result() }},
		{"populate", func() *http.Response { return ts.api.Post("/api/books/populate").Result() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := tt.do()
			defer resp.Body.Close()
			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			body := decode[APIError](t, raw)
			assert.Equal(t, "INTERNAL", body.Code)
			assert.Equal(t, "internal server error", body.Message)
			assert.NotContains(t, string(raw), "vlog")
		})
	}
}
