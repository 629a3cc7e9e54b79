package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing() CheckFunc {
	return func(_ context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	c := New()
	c.AddLiveness("goroutines", time.Second, passing())

	w := httptest.NewRecorder()
	c.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
}

func TestLiveEndpoint_FailureAfterThreshold(t *testing.T) {
	c := New()
	c.AddLiveness("broken", time.Second, failing("it broke"))

	// One failed run is below the threshold; the probe stays healthy.
	c.liveness[0].run(context.Background())
	w := httptest.NewRecorder()
	c.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	for range failureThreshold - 1 {
		c.liveness[0].run(context.Background())
	}

	w = httptest.NewRecorder()
	c.LiveEndpoint(w, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "it broke", body.Checks["broken"])
}

func TestReadyEndpoint_ManualGate(t *testing.T) {
	c := New()

	w := httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	c.SetReady(true)
	w = httptest.NewRecorder()
	c.ReadyEndpoint(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, c.IsReady())

	c.SetReady(false)
	assert.False(t, c.IsReady())
}

func TestRecoveryAfterSingleSuccess(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	c := New()
	c.AddReadiness("backend", time.Second, func(_ context.Context) error {
		if fail.Load() {
			return errors.New("down")
		}
		return nil
	})
	c.SetReady(true)

	p := c.readiness[0]
	for range failureThreshold {
		p.run(context.Background())
	}
	assert.False(t, c.IsReady())

	fail.Store(false)
	p.run(context.Background())
	assert.True(t, c.IsReady())
}

func TestStart_RunsProbesPeriodically(t *testing.T) {
	var runs atomic.Int32

	c := New()
	c.AddLiveness("counter", time.Second, func(_ context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Start(ctx, 5*time.Millisecond)
	defer c.Stop()

	require.Eventually(t, func() bool {
		return runs.Load() >= 3
	}, time.Second, time.Millisecond)
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))
	assert.Error(t, GoroutineCountCheck(0)(context.Background()))
}
