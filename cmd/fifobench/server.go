package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-fifo/pkg/metrics"
	"github.com/huynhanx03/go-fifo/pkg/settings"
)

// Response codes
const (
	CodeSuccess        = 0
	CodeInternalServer = 500
)

// Response is the JSON envelope of every non-metrics endpoint.
type Response struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data,omitempty"`
}

// HandlerFunc produces the body of a read-only endpoint.
type HandlerFunc[R any] func(context.Context) (R, error)

// Wrap converts a HandlerFunc to a gin handler.
func Wrap[R any](h HandlerFunc[R]) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := h(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, Response{Code: CodeInternalServer, Msg: err.Error()})
			return
		}
		c.JSON(http.StatusOK, Response{Code: CodeSuccess, Msg: "OK", Data: res})
	}
}

// Report holds the latest results of each phase.
type Report struct {
	RunID  string        `json:"run_id"`
	Verify *VerifyReport `json:"verify,omitempty"`
	Perf   []PerfResult  `json:"perf,omitempty"`
}

// reportStore is written by the harness and read by the HTTP handlers.
type reportStore struct {
	mu     sync.RWMutex
	report Report
}

func (s *reportStore) setVerify(r VerifyReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Verify = &r
}

func (s *reportStore) setPerf(r []PerfResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Perf = r
}

func (s *reportStore) get() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}

// newRouter builds the gin engine serving /stats, /report and /metrics for q.
func newRouter(mode string, q metrics.StatsSource, reports *reportStore, logger *zap.Logger) (*gin.Engine, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics.NewCollector(q)); err != nil {
		return nil, err
	}
	registry.MustRegister(collectors.NewGoCollector())

	gin.SetMode(mode)
	r := gin.New()
	r.Use(gin.Recovery(), accessLog(logger))

	r.GET("/stats", Wrap(func(context.Context) (any, error) {
		return q.Stats(), nil
	}))
	r.GET("/report", Wrap(func(context.Context) (Report, error) {
		return reports.get(), nil
	}))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	return r, nil
}

// accessLog logs every request at Debug.
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// serve runs the metrics server until ctx is done.
func serve(ctx context.Context, cfg settings.Metrics, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              cfg.Bind,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", zap.String("bind", cfg.Bind))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
