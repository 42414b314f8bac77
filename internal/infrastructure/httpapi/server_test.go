package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"NewsImporter/internal/domain"
)

type fakeController struct {
	result  *domain.ImportResult
	last    *domain.ImportResult
	running bool
}

func (f *fakeController) TriggerManual(ctx context.Context) *domain.ImportResult {
	return f.result
}

func (f *fakeController) Status() (*domain.ImportResult, bool) {
	return f.last, f.running
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeController{}, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "ok", body["status"])
}

func TestStatusBeforeAnyRun(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeController{}, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/import/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Nil(t, body.LastResult)
	require.False(t, body.IsRunning)
}

func TestStatusReportsLastResult(t *testing.T) {
	t.Parallel()

	last := &domain.ImportResult{NewArticles: 3, TotalFetched: 12, Timestamp: time.Now()}
	ts := httptest.NewServer(NewServer(&fakeController{last: last, running: true}, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/import/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body statusResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.LastResult)
	require.Equal(t, 3, body.LastResult.NewArticles)
	require.Equal(t, 12, body.LastResult.TotalFetched)
	require.True(t, body.IsRunning)
}

func TestTriggerReturnsResult(t *testing.T) {
	t.Parallel()

	ctrl := &fakeController{result: &domain.ImportResult{NewArticles: 2, Sources: []string{"Koha.net"}}}
	ts := httptest.NewServer(NewServer(ctrl, nil).Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/import/trigger", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body domain.ImportResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, 2, body.NewArticles)
	require.Equal(t, []string{"Koha.net"}, body.Sources)
}

func TestTriggerConflictWhileRunning(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeController{result: nil}, nil).Router())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/import/trigger", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "import already in progress", body.Error)
}

func TestTriggerIsPostOnly(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(NewServer(&fakeController{}, nil).Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/import/trigger")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
