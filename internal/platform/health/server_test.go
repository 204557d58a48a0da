package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubProbe struct {
	connected bool
	pending   int
}

func (p stubProbe) Connected() bool    { return p.connected }
func (p stubProbe) PendingOrders() int { return p.pending }

func TestRouter_RootIsAlive(t *testing.T) {
	router := NewRouter("test", stubProbe{})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, AliveText, rec.Body.String())
}

func TestRouter_Healthz(t *testing.T) {
	router := NewRouter("test", stubProbe{connected: true, pending: 3})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var status Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, Status{Status: "ok", Gateway: "connected", PendingOrders: 3}, status)
}

func TestRouter_UnknownRouteIsProblem(t *testing.T) {
	router := NewRouter("test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "/problems/not-found", problem.Type)
	require.Equal(t, "/orders", problem.Instance)
}

func TestRouter_WrongMethodIsProblem(t *testing.T) {
	router := NewRouter("test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
}

func TestServer_RunStopsWithContext(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewRouter("test", nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
