// Package server hosts the local trend dashboard: a loopback-only gin
// server rendering the trend charts over the stored results. No auth, no
// sessions; the dashboard is a single-user local view.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cogbench/internal/charts"
	"cogbench/internal/models"
	"cogbench/internal/store"
)

// Server serves the dashboard over the results store.
type Server struct {
	store *store.Store
	log   *zap.Logger
	addr  string
}

func New(st *store.Store, log *zap.Logger, addr string) *Server {
	return &Server{store: st, log: log, addr: addr}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.log))

	router.GET("/", s.showTrends)
	router.GET("/api/history/:type", s.historyJSON)
	router.GET("/api/sleep", s.sleepJSON)

	srv := &http.Server{Addr: s.addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Dashboard listening", zap.String("addr", "http://"+s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// showTrends renders one page with every test's timeline plus sleep
// correlation scatters where the data overlaps.
func (s *Server) showTrends(c *gin.Context) {
	sleep, err := s.store.AllSleep()
	if err != nil {
		s.log.Error("Failed to load sleep entries", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to load sleep data")
		return
	}

	var series []charts.TrendSeries
	for _, t := range models.AllTestTypes() {
		points, err := s.store.DailyAverages(t, time.Time{}, time.Time{})
		if err != nil {
			s.log.Error("Failed to load trend data", zap.String("test", string(t)), zap.Error(err))
			c.String(http.StatusInternalServerError, "Failed to load trend data")
			return
		}
		series = append(series, charts.TrendSeries{
			Test:   t,
			Unit:   t.Unit(),
			Points: points,
			Sleep:  charts.CorrelatePoints(points, sleep),
		})
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := charts.RenderTrendPage(c.Writer, series); err != nil {
		s.log.Error("Failed to render trend page", zap.Error(err))
	}
}

func (s *Server) historyJSON(c *gin.Context) {
	t := models.TestType(c.Param("type"))
	if !t.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown test type"})
		return
	}
	results, err := s.store.History(t, time.Time{}, time.Time{})
	if err != nil {
		s.log.Error("Failed to query history", zap.String("test", string(t)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) sleepJSON(c *gin.Context) {
	entries, err := s.store.AllSleep()
	if err != nil {
		s.log.Error("Failed to query sleep entries", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// requestLogger logs requests with zap, errors loud and successes quiet.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("Server error", fields...)
		case status >= 400:
			log.Warn("Client error", fields...)
		default:
			log.Debug("Request processed", fields...)
		}
	}
}
