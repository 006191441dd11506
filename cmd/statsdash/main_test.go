package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiRequest struct {
	report string
	limit  string
	filter string
	auth   string
}

// fakeStats serves the three pages reports for example.com.
type fakeStats struct {
	mu       sync.Mutex
	requests []apiRequest
	status   int
}

func (f *fakeStats) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/stats/{domain}/{report}", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, apiRequest{
			report: chi.URLParam(req, "report"),
			limit:  req.URL.Query().Get("limit"),
			filter: req.URL.Query().Get("filters"),
			auth:   req.Header.Get("Authorization"),
		})
		status := f.status
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if status != 0 {
			w.WriteHeader(status)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "site not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []map[string]any{
			{"name": "/" + chi.URLParam(req, "report") + "-row", "visitors": 42},
		}})
	})
	return r
}

func (f *fakeStats) last(t *testing.T) apiRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

type harness struct {
	api    *fakeStats
	url    string
	dir    string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	t.Setenv("STATSDASH_SITE", "")
	t.Setenv("STATSDASH_API_KEY", "")

	h := &harness{api: &fakeStats{}, dir: dir}
	srv := httptest.NewServer(h.api.handler())
	t.Cleanup(srv.Close)
	h.url = srv.URL
	return h
}

// exec runs statsdash with the common flags followed by args.
func (h *harness) exec(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	base := []string{
		"statsdash",
		"--base-url", h.url,
		"--site", "example.com",
		"--store", filepath.Join(h.dir, "state.db"),
		"--log-file", filepath.Join(h.dir, "logs", "statsdash.log"),
		"--config", h.configPath(),
	}
	env := ioEnv{
		stdout: &h.stdout,
		stderr: &h.stderr,
		isTTY:  func() bool { return false },
		width:  func() int { return 100 },
	}
	return run(context.Background(), append(base, args...), env)
}

func (h *harness) configPath() string {
	return filepath.Join("testdata", "statsdash.yaml")
}

func TestRun_Report_PrintsTopPagesByDefault(t *testing.T) {
	h := newHarness(t)

	code := h.exec("--api-key", "k3y", "report")

	require.Equal(t, 0, code, h.stderr.String())
	out := h.stdout.String()
	assert.Contains(t, out, "Páginas em Alta")
	assert.Contains(t, out, "[Em Alta]")
	assert.Contains(t, out, "/pages-row")
	req := h.api.last(t)
	assert.Equal(t, "pages", req.report)
	assert.Equal(t, "30", req.limit)
	assert.Equal(t, "Bearer k3y", req.auth)
}

func TestRun_Dash_PrintsSnapshot_When_NotATerminal(t *testing.T) {
	h := newHarness(t)

	code := h.exec("dash")

	require.Equal(t, 0, code, h.stderr.String())
	assert.Contains(t, h.stdout.String(), "/pages-row")
}

func TestRun_Tab_PersistsSelectionAcrossRuns(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.exec("tab", "exit-pages"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), "exit-pages")

	require.Equal(t, 0, h.exec("report"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), "[Páginas de Saída]")
	assert.Contains(t, h.stdout.String(), "/exit-pages-row")
	assert.Equal(t, "9", h.api.last(t).limit)

	require.Equal(t, 0, h.exec("tab"))
	assert.Contains(t, h.stdout.String(), "exit-pages\tPáginas de Saída")
}

func TestRun_Report_SelectsTab_When_TabFlagGiven(t *testing.T) {
	h := newHarness(t)

	code := h.exec("report", "--tab", "entry-pages")

	require.Equal(t, 0, code, h.stderr.String())
	assert.Equal(t, "entry-pages", h.api.last(t).report)
	assert.Contains(t, h.stdout.String(), "Unique Entrances")
}

func TestRun_Report_AddsGoalFilterAndCR(t *testing.T) {
	h := newHarness(t)

	code := h.exec("--goal", "Signup", "--filter", "source=Google", "report")

	require.Equal(t, 0, code, h.stderr.String())
	assert.JSONEq(t, `{"goal":"Signup","source":"Google"}`, h.api.last(t).filter)
	assert.Contains(t, h.stdout.String(), "CR")
	assert.Contains(t, h.stdout.String(), "Conversions")
}

func TestRun_ExitsWithUsageError(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown tab", []string{"tab", "referrers"}},
		{"unknown report tab", []string{"report", "--tab", "sources"}},
		{"malformed filter", []string{"--filter", "nokey", "report"}},
		{"unknown flag", []string{"--nope", "report"}},
		{"bad locale", []string{"--currency", "XXXX", "report"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			assert.Equal(t, exitUsage, h.exec(tt.args...))
		})
	}
}

func TestRun_ExitsWithFailure_When_APIFails(t *testing.T) {
	h := newHarness(t)
	h.api.status = http.StatusNotFound

	code := h.exec("report")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, h.stdout.String(), "site not found")
	assert.Contains(t, h.stderr.String(), "status 404")
}

func TestRun_Version(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.exec("version", "--verbose"))

	assert.Contains(t, h.stdout.String(), "statsdash dev")
	assert.Contains(t, h.stdout.String(), "site=example.com (cli)")
}

func TestParseFilters(t *testing.T) {
	t.Parallel()

	f, err := parseFilters("Signup", []string{"page=/blog", " country = BR "})
	require.NoError(t, err)
	assert.Equal(t, "Signup", f["goal"])
	assert.Equal(t, "/blog", f["page"])
	assert.Equal(t, "BR", f["country"])

	_, err = parseFilters("", []string{"=x"})
	assert.Error(t, err)
}
