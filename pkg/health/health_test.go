package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type probeResponse struct {
	Healthy bool              `json:"healthy"`
	Checks  map[string]string `json:"checks"`
}

func passingCheck() CheckFunc {
	return func(_ context.Context) error {
		return nil
	}
}

func failingCheck(msg string) CheckFunc {
	return func(_ context.Context) error {
		return errors.New(msg)
	}
}

func decodeProbe(t *testing.T, w *httptest.ResponseRecorder) probeResponse {
	t.Helper()

	var body probeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	h := New()
	h.AddLivenessCheck("goroutines", time.Second, passingCheck())
	h.AddLivenessCheck("loop", time.Second, passingCheck())

	// Checks start healthy before the background loop runs.
	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decodeProbe(t, w)
	assert.True(t, body.Healthy)
	assert.Equal(t, "ok", body.Checks["goroutines"])
	assert.Equal(t, "ok", body.Checks["loop"])
}

func TestLiveEndpoint_FailingCheck(t *testing.T) {
	h := New()
	h.AddLivenessCheck("db", time.Second, failingCheck("connection refused"))

	h.liveness[0].run(context.Background())

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeProbe(t, w)
	assert.False(t, body.Healthy)
	assert.Equal(t, "connection refused", body.Checks["db"])
}

func TestReadyEndpoint_NotReadyUntilSet(t *testing.T) {
	h := New()
	h.AddReadinessCheck("warmup", time.Second, passingCheck())

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	h.SetReady(true)

	w = httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeProbe(t, w).Healthy)
}

func TestReadyEndpoint_FailingCheckOverridesReady(t *testing.T) {
	h := New()
	h.AddReadinessCheck("cache", time.Second, failingCheck("cold"))
	h.SetReady(true)

	h.readiness[0].run(context.Background())

	w := httptest.NewRecorder()
	h.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "cold", decodeProbe(t, w).Checks["cache"])
}

func TestStartRunsChecks(t *testing.T) {
	h := New()

	ran := make(chan struct{}, 1)
	h.AddLivenessCheck("probe", time.Second, func(_ context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	h.Start(context.Background(), 10*time.Millisecond)
	defer h.Stop()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("check never ran")
	}
}

func TestCheckTimeout(t *testing.T) {
	h := New()
	h.AddLivenessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	h.liveness[0].run(context.Background())

	w := httptest.NewRecorder()
	h.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
