package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/statsdash/pkg/query"
)

type recorded struct {
	domain string
	values url.Values
	header http.Header
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	r := chi.NewRouter()
	r.Get("/api/stats/{domain}/pages", func(w http.ResponseWriter, req *http.Request) {
		rec.domain = chi.URLParam(req, "domain")
		rec.values = req.URL.Query()
		rec.header = req.Header.Clone()
		handler(w, req)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_Get_SendsQueryAndLimit(t *testing.T) {
	t.Parallel()

	srv, rec := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"name": "/", "visitors": 120},
			{"name": "/blog", "visitors": 30, "conversion_rate": 2.5},
		})
	})

	client := NewClient(srv.URL, WithAPIKey("secret"))
	q := query.Query{Period: query.Period7d, Filters: query.Filters{query.FilterGoal: "Signup"}}
	items, err := client.Get(context.Background(), APIPath(Site{Domain: "example.com"}, "/pages"), q, Params{Limit: 30})

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "/", items[0].Name)
	assert.Equal(t, 120.0, items[0].Value("visitors"))
	v, ok := items[1].Float("conversion_rate")
	assert.True(t, ok)
	assert.Equal(t, 2.5, v)

	assert.Equal(t, "example.com", rec.domain)
	assert.Equal(t, "7d", rec.values.Get("period"))
	assert.Equal(t, "30", rec.values.Get("limit"))
	assert.Equal(t, `{"goal":"Signup"}`, rec.values.Get("filters"))
	assert.Equal(t, "Bearer secret", rec.header.Get("Authorization"))
	assert.Equal(t, "application/json", rec.header.Get("Accept"))
}

func TestClient_Get_AcceptsResultsEnvelope(t *testing.T) {
	t.Parallel()

	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"results": []map[string]any{{"name": "/pricing", "visitors": 7}},
		})
	})

	items, err := NewClient(srv.URL).Get(context.Background(), "/api/stats/a.io/pages", query.Query{}, Params{})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "/pricing", items[0].Name)
}

func TestClient_Get_ReturnsEmptyList_When_EnvelopeHasNoResults(t *testing.T) {
	t.Parallel()

	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})

	items, err := NewClient(srv.URL).Get(context.Background(), "/api/stats/a.io/pages", query.Query{}, Params{})

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClient_Get_ReturnsAPIError_When_StatusNotOK(t *testing.T) {
	t.Parallel()

	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid period"})
	})

	_, err := NewClient(srv.URL).Get(context.Background(), "/api/stats/a.io/pages", query.Query{}, Params{})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid period", apiErr.Message)
	assert.True(t, IsStatus(err, http.StatusBadRequest))
}

func TestClient_Get_KeepsPlainBody_When_ErrorIsNotJSON(t *testing.T) {
	t.Parallel()

	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := NewClient(srv.URL).Get(context.Background(), "/api/stats/a.io/pages", query.Query{}, Params{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestClient_Get_SendsSharedLinkAuth(t *testing.T) {
	t.Parallel()

	srv, rec := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	})

	_, err := NewClient(srv.URL, WithSharedLinkAuth("tok")).Get(context.Background(), "/api/stats/a.io/pages", query.Query{}, Params{})

	require.NoError(t, err)
	assert.Equal(t, "tok", rec.header.Get("X-Shared-Link-Auth"))
	assert.Empty(t, rec.header.Get("Authorization"))
}

func TestClient_Get_ReturnsContextError_When_Canceled(t *testing.T) {
	t.Parallel()

	srv, _ := newFakeAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, []any{})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(srv.URL).Get(ctx, "/api/stats/a.io/pages", query.Query{}, Params{})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestListItem_RejectsRowWithoutName(t *testing.T) {
	t.Parallel()

	var item ListItem
	err := json.Unmarshal([]byte(`{"visitors": 3}`), &item)

	assert.Error(t, err)
}

func TestListItem_MarshalJSON_IsFlat(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal(ListItem{Name: "/a", Values: map[string]any{"visitors": 2}})

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"/a","visitors":2}`, string(out))
}
