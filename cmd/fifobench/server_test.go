package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-fifo/pkg/datastructs/queue"
	"github.com/huynhanx03/go-fifo/pkg/settings"
)

func newTestRouter(t *testing.T) (*gin.Engine, frameQueue, *reportStore) {
	t.Helper()

	q, _, err := buildQueue(testConfig("count", "reject").Queue, zap.NewNop())
	require.NoError(t, err)
	reports := &reportStore{report: Report{RunID: "test-run"}}

	r, err := newRouter(gin.TestMode, q, reports, zap.NewNop())
	require.NoError(t, err)
	return r, q, reports
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestServer_Stats(t *testing.T) {
	r, q, _ := newTestRouter(t)
	q.Push(newFrame(0, 0, 0, time.Second, nil))
	q.Push(newFrame(0, 1, 0, time.Second, nil))

	w := get(r, "/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int         `json:"code"`
		Msg  string      `json:"msg"`
		Data queue.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeSuccess, body.Code)
	assert.Equal(t, "OK", body.Msg)
	assert.Equal(t, 2, body.Data.Len)
	assert.Equal(t, uint64(2), body.Data.Pushed)
	assert.Equal(t, float64(8), body.Data.Capacity)
}

func TestServer_Report(t *testing.T) {
	r, _, reports := newTestRouter(t)
	reports.setVerify(VerifyReport{Produced: 5, Consumed: 5, Released: 5})
	reports.setPerf([]PerfResult{{Size: 10, Writes: 1, Reads: 2}})

	w := get(r, "/report")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data Report `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "test-run", body.Data.RunID)
	require.NotNil(t, body.Data.Verify)
	assert.Equal(t, 5, body.Data.Verify.Produced)
	assert.Equal(t, []PerfResult{{Size: 10, Writes: 1, Reads: 2}}, body.Data.Perf)
}

func TestServer_Metrics(t *testing.T) {
	r, q, _ := newTestRouter(t)
	q.Push(newFrame(0, 0, 0, time.Second, nil))

	w := get(r, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fifo_queue_depth{queue="fifo"} 1`)
	assert.Contains(t, w.Body.String(), `fifo_items_pushed_total{queue="fifo"} 1`)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestWrap_Error(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/fail", Wrap(func(context.Context) (int, error) {
		return 0, errors.New("boom")
	}))

	w := get(r, "/fail")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeInternalServer, body.Code)
	assert.Equal(t, "boom", body.Msg)
}

func TestServe_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, settings.Metrics{Bind: "127.0.0.1:0"}, http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}
