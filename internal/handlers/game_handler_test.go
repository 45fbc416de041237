package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"astrocadet/internal/catalog"
	"astrocadet/internal/game"
	"astrocadet/internal/models"
	"astrocadet/internal/repository"
	"astrocadet/internal/security"
	"astrocadet/internal/service"
	"astrocadet/internal/session"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type testServer struct {
	t       *testing.T
	srv     *httptest.Server
	client  *http.Client
	sched   *game.ManualScheduler
	scores  *service.ScoreService
	manager *session.Manager
}

type serverOptions struct {
	catalogErr   error
	rateLimit    int
	sessionLimit int
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]models.Module{
		{
			ID:    1,
			Title: "Space Agencies",
			SortLevel: models.SortLevel{
				Boxes: []string{"ISRO", "NASA"},
				Words: []models.SortWord{{Text: "Chandrayaan", Box: "ISRO"}, {Text: "Apollo", Box: "NASA"}},
			},
			BurstLevel: models.BurstLevel{
				Topic:   "ISRO Missions",
				Correct: []string{"Chandrayaan", "Mangalyaan"},
				Wrong:   []string{"Apollo", "Voyager"},
			},
		},
		{
			ID:    2,
			Title: "Orbit Basics",
			SortLevel: models.SortLevel{
				Boxes: []string{"Planet", "Moon"},
				Words: []models.SortWord{{Text: "Mars", Box: "Planet"}, {Text: "Titan", Box: "Moon"}},
			},
			BurstLevel: models.BurstLevel{
				Topic:   "Planets",
				Correct: []string{"Mars"},
				Wrong:   []string{"Europa"},
			},
		},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return cat
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	staticDir := t.TempDir()
	for name, content := range map[string]string{"index.html": "<h1>Astro Cadet</h1>", "style.css": "body { color: white; }"} {
		if err := os.WriteFile(filepath.Join(staticDir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if opts.rateLimit == 0 {
		opts.rateLimit = 1000
	}
	if opts.sessionLimit == 0 {
		opts.sessionLimit = 1000
	}

	ts := &testServer{
		t:      t,
		sched:  game.NewManualScheduler(epoch),
		scores: service.NewScoreService(repository.NewMemoryKVRepository()),
	}

	var cat *catalog.Catalog
	if opts.catalogErr == nil {
		cat = testCatalog(t)
	}
	manager := session.NewManager(func(id string) *session.Session {
		return session.New(id, session.Options{
			Catalog:    cat,
			CatalogErr: opts.catalogErr,
			Scores:     ts.scores,
			Scheduler:  ts.sched,
		})
	}, time.Hour)
	t.Cleanup(manager.CloseAll)

	assets, err := NewAssetsHandler(staticDir, "astro-cadet-test")
	if err != nil {
		t.Fatalf("NewAssetsHandler() error = %v", err)
	}
	ts.manager = manager
	mw := NewMiddleware(manager, security.NewTokenSigner("test-secret", time.Hour),
		security.NewRateLimiter(opts.rateLimit, time.Minute), security.NewRateLimiter(opts.sessionLimit, time.Minute))

	ts.srv = httptest.NewServer(NewRouter(mw, NewGameHandler(ts.scores), assets))
	t.Cleanup(ts.srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error = %v", err)
	}
	ts.client = &http.Client{Jar: jar}
	return ts
}

func (ts *testServer) do(method, path string, body string) (int, []byte) {
	ts.t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, reader)
	if err != nil {
		ts.t.Fatalf("NewRequest() error = %v", err)
	}
	resp, err := ts.client.Do(req)
	if err != nil {
		ts.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

// post sends input and decodes the returned state
func (ts *testServer) post(path, body string) ActionResponse {
	ts.t.Helper()
	status, data := ts.do(http.MethodPost, path, body)
	if status != http.StatusOK {
		ts.t.Fatalf("POST %s: status %d body %s", path, status, data)
	}
	var resp ActionResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		ts.t.Fatalf("decode %s: %v", path, err)
	}
	return resp
}

func (ts *testServer) state() session.Snapshot {
	ts.t.Helper()
	status, data := ts.do(http.MethodGet, "/api/state", "")
	if status != http.StatusOK {
		ts.t.Fatalf("GET /api/state: status %d", status)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		ts.t.Fatalf("decode state: %v", err)
	}
	return snap
}

func TestStateKeepsSessionAcrossRequests(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	first := ts.state()
	second := ts.state()

	if first.SessionID == "" || first.SessionID != second.SessionID {
		t.Errorf("session ids %q and %q should match", first.SessionID, second.SessionID)
	}
	if first.Screen != models.ScreenMainMenu {
		t.Errorf("screen = %s", first.Screen)
	}
}

func TestInvalidCookieStartsNewSession(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	req, _ := http.NewRequest(http.MethodGet, ts.srv.URL+"/api/state", nil)
	req.AddCookie(&http.Cookie{Name: security.SessionCookieName, Value: "forged"})
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	resp.Body.Close()

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == security.SessionCookieName && c.Value != "forged" && c.Value != "" {
			found = true
		}
	}
	if !found {
		t.Error("expected a fresh session cookie")
	}
}

func TestNormalSortOverHTTP(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	ts.post("/api/normal", "")
	resp := ts.post("/api/mode/normal-sort", "")
	if resp.State.Title != "Select Astro-Sort Topic" || len(resp.State.Modules) != 2 {
		t.Fatalf("module menu = %+v", resp.State)
	}

	resp = ts.post("/api/modules/2", "")
	if resp.State.Sort == nil || resp.State.Sort.Word != "Titan" {
		t.Fatalf("sort state = %+v", resp.State.Sort)
	}

	resp = ts.post("/api/sort/place", `{"target":"Moon"}`)
	result, _ := resp.Result.(map[string]interface{})
	if result["correct"] != true || result["score"] != float64(100) {
		t.Errorf("place result = %v", resp.Result)
	}

	resp = ts.post("/api/sort/place", `{"target":"Planet"}`)
	if resp.State.Screen != models.ScreenMainMenu || resp.State.Notice != "Level Complete!\nYour Final Score: 200" {
		t.Errorf("state after sort = %+v", resp.State)
	}

	status, data := ts.do(http.MethodGet, "/api/scores", "")
	if status != http.StatusOK || strings.TrimSpace(string(data)) != `[{"module":"Orbit Basics (Sort)","score":200}]` {
		t.Errorf("GET /api/scores = %d %s", status, data)
	}

	resp = ts.post("/api/scores", "")
	if resp.State.Screen != models.ScreenHighScores || len(resp.State.HighScores) != 1 {
		t.Errorf("high score screen = %+v", resp.State)
	}
}

func TestBurstClickOverHTTP(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	ts.post("/api/normal", "")
	ts.post("/api/mode/normal-burst", "")
	resp := ts.post("/api/modules/1", "")
	if resp.State.Burst == nil || resp.State.Burst.Topic != "ISRO Missions" || resp.State.Burst.Lives != 3 {
		t.Fatalf("burst state = %+v", resp.State.Burst)
	}

	ts.sched.Advance(game.BurstSpawnInterval)
	bubbles := ts.state().Burst.Bubbles
	if len(bubbles) != 1 {
		t.Fatalf("bubbles = %d, want 1", len(bubbles))
	}

	path := "/api/burst/bubbles/" + strconv.Itoa(bubbles[0].ID) + "/click"
	resp = ts.post(path, "")
	result, _ := resp.Result.(map[string]interface{})
	if result["word"] != bubbles[0].Word {
		t.Errorf("click result = %v", resp.Result)
	}

	if status, _ := ts.do(http.MethodPost, path, ""); status != http.StatusBadRequest {
		t.Errorf("second click status = %d, want 400", status)
	}

	resp = ts.post("/api/back", "")
	if resp.State.Screen != models.ScreenMainMenu || ts.sched.Pending() != 0 {
		t.Errorf("back left screen %s with %d timers", resp.State.Screen, ts.sched.Pending())
	}
}

func TestGameErrorsOverHTTP(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	check := func(method, path, body string, want int) {
		t.Helper()
		status, data := ts.do(method, path, body)
		if status != want {
			t.Errorf("%s %s = %d, want %d (%s)", method, path, status, want, data)
		}
		var er errorResponse
		if err := json.Unmarshal(data, &er); err != nil || er.Error == "" {
			t.Errorf("%s %s: body %s is not a JSON error", method, path, data)
		}
	}

	check(http.MethodPost, "/api/mode/bogus", "", http.StatusBadRequest)
	check(http.MethodPost, "/api/modules/1", "", http.StatusConflict)
	check(http.MethodPost, "/api/sort/place", `{"target":"ISRO"}`, http.StatusConflict)

	ts.post("/api/mode/graduate", "")
	check(http.MethodPost, "/api/modules/99", "", http.StatusNotFound)
	check(http.MethodPost, "/api/modules/abc", "", http.StatusBadRequest)

	ts.post("/api/modules/1", "")
	check(http.MethodPost, "/api/sort/place", `not json`, http.StatusBadRequest)
	check(http.MethodPost, "/api/sort/place", `{"target":"ESA"}`, http.StatusBadRequest)
	check(http.MethodPost, "/api/burst/bubbles/1/click", "", http.StatusConflict)
}

func TestCatalogUnavailableOverHTTP(t *testing.T) {
	ts := newTestServer(t, serverOptions{catalogErr: errors.New("HTTP error! status: 404")})

	if snap := ts.state(); snap.CatalogError != session.CatalogErrorMessage {
		t.Errorf("catalog_error = %q", snap.CatalogError)
	}
	if status, _ := ts.do(http.MethodPost, "/api/mode/graduate", ""); status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", status)
	}
}

func TestInputIsRateLimited(t *testing.T) {
	ts := newTestServer(t, serverOptions{rateLimit: 2})

	ts.post("/api/back", "")
	ts.post("/api/back", "")
	if status, _ := ts.do(http.MethodPost, "/api/back", ""); status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", status)
	}
	// Reads are not throttled
	ts.state()
}

func TestSessionCreationIsRateLimited(t *testing.T) {
	ts := newTestServer(t, serverOptions{sessionLimit: 2})

	// The jar keeps its cookie, so this client only ever creates one session
	ts.state()
	ts.state()

	fresh := func() int {
		resp, err := http.Get(ts.srv.URL + "/api/state")
		if err != nil {
			t.Fatalf("GET /api/state: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}
	if status := fresh(); status != http.StatusOK {
		t.Fatalf("second new session status = %d, want 200", status)
	}
	if status := fresh(); status != http.StatusTooManyRequests {
		t.Errorf("third new session status = %d, want 429", status)
	}
	if n := ts.manager.Len(); n != 2 {
		t.Errorf("sessions stored = %d, want 2", n)
	}

	// An existing session is unaffected
	ts.state()
}

func TestAssetsAndHealth(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	status, data := ts.do(http.MethodGet, "/health", "")
	if status != http.StatusOK || string(data) != "OK" {
		t.Errorf("GET /health = %d %q", status, data)
	}

	status, data = ts.do(http.MethodGet, "/sw.js", "")
	if status != http.StatusOK {
		t.Fatalf("GET /sw.js = %d", status)
	}
	for _, want := range []string{`const CACHE_NAME = "astro-cadet-test";`, `"index.html",`, `"style.css",`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("sw.js missing %s:\n%s", want, data)
		}
	}
	if bytes.Contains(data, []byte(`"/",`)) {
		t.Errorf("sw.js caches the directory root:\n%s", data)
	}

	status, data = ts.do(http.MethodGet, "/style.css", "")
	if status != http.StatusOK || !bytes.Contains(data, []byte("color: white")) {
		t.Errorf("GET /style.css = %d %q", status, data)
	}
}

func TestListAssetsMissingDir(t *testing.T) {
	assets, err := listAssets(filepath.Join(t.TempDir(), "missing"))
	if err != nil || len(assets) != 0 {
		t.Errorf("listAssets() = %v, %v", assets, err)
	}
}

