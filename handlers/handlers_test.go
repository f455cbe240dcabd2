package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kajiwara22/sf6chapter/handlers"
	"github.com/kajiwara22/sf6chapter/internal/duck"
	"github.com/kajiwara22/sf6chapter/internal/search"
)

// newTestApp wires the routes against a session that never gets a
// dataset, which is exactly the persistent failed-bootstrap state.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	session := duck.NewSession(log)
	svc := search.NewService(session, log)

	h := handlers.NewApplicationHandler(log, svc, nil)
	h.Environment = "test"

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/health", h.Health)
	api.Get("/data/index/matches.parquet", h.GetMatchesParquetURL)
	api.Get("/data/videos/:filename", h.GetVideoJSON)
	api.Get("/data/matches/:filename", h.GetMatchJSON)
	api.Get("/search", h.SearchMatches)
	api.Get("/stats", h.GetStats)
	api.Get("/characters", h.ListCharacters)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestHealthReportsErrorWhileUnloaded(t *testing.T) {
	app := newTestApp(t)

	resp, body := doRequest(t, app, "/api/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestSearchUnavailableBeforeLoad(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/search", "/api/stats", "/api/characters"} {
		resp, body := doRequest(t, app, path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Equal(t, "error", body["status"], path)
	}
}

func TestSearchRejectsInvalidParameters(t *testing.T) {
	app := newTestApp(t)

	cases := []string{
		"/api/search?sortBy=bogus",
		"/api/search?dateFrom=01/14/2026",
		"/api/search?dateTo=2026-1-4",
		"/api/search?limit=99999",
	}
	for _, path := range cases {
		resp, body := doRequest(t, app, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "error", body["status"], path)
	}
}

func TestSearchNormalizesEmptyStrings(t *testing.T) {
	app := newTestApp(t)

	// Empty and whitespace-only values must not trip validation; the
	// request then proceeds to the readiness gate.
	resp, _ := doRequest(t, app, "/api/search?character=&dateFrom=%20&sortBy=")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestPresignEndpointWithoutStorage(t *testing.T) {
	app := newTestApp(t)

	resp, body := doRequest(t, app, "/api/data/index/matches.parquet")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
}

func TestRawJSONRejectsNonJSONFilename(t *testing.T) {
	app := newTestApp(t)

	// The extension check runs before the storage check, so these 400
	// even without a configured client.
	for _, path := range []string{"/api/data/videos/clip.txt", "/api/data/matches/run.parquet"} {
		resp, body := doRequest(t, app, path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "Only JSON files are allowed", body["message"], path)
	}
}

func TestRawJSONWithoutStorage(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/data/videos/clip.json", "/api/data/matches/run.json"} {
		resp, body := doRequest(t, app, path)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Equal(t, "error", body["status"], path)
	}
}
