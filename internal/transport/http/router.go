package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/internal/usecase"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/httpx"
)

const (
	defaultReportsLimit = 20
	maxReportsLimit     = 100
)

// Handler — HTTP-ручки статуса харнесса: живой прогресс и отчёты прогонов.
type Handler struct {
	reports ports.RunReportReader
	status  ports.RunStatusProvider
	log     ports.Logger
	timeout time.Duration
}

// NewHandler — timeout ограничивает обращения к хранилищу отчётов, 0 — без ограничения.
func NewHandler(reports ports.RunReportReader, status ports.RunStatusProvider, log ports.Logger, timeout time.Duration) *Handler {
	return &Handler{reports: reports, status: status, log: log, timeout: timeout}
}

// NewRouter — ginMode: "debug" | "release" | "test"; пустая строка оставляет текущий режим.
func NewRouter(h *Handler, ginMode string) *gin.Engine {
	if ginMode != "" {
		gin.SetMode(ginMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("mq-consumer-bench"))
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log, "/metrics", "/ping"))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/status", h.getStatus)
	r.GET("/reports", h.listReports)
	r.GET("/reports/:run_id", h.getReport)

	return r
}

func (h *Handler) getStatus(c *gin.Context) {
	if h.status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run in progress"})
		return
	}
	workers, ok := h.status.Status()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no run in progress"})
		return
	}

	running := 0
	for _, w := range workers {
		if w.State == domain.WorkerRunning || w.State == domain.WorkerPending {
			running++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"running": running,
		"workers": workers,
	})
}

func (h *Handler) listReports(c *gin.Context) {
	limit, offset, err := httpx.ParseLimitOffset(c, defaultReportsLimit, maxReportsLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	reports, err := h.reports.Reports(ctx, limit, offset)
	if err != nil {
		h.writeReportsError(c, "Reports", err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *Handler) getReport(c *gin.Context) {
	runID := c.Param("run_id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty run id"})
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	report, err := h.reports.Report(ctx, runID)
	if err != nil {
		h.writeReportsError(c, "Report", err)
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handler) writeReportsError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, usecase.ErrReportsDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run reports are disabled"})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.Warnf(c.Request.Context(), "%s timed out: %v", op, err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timeout"})
	default:
		h.log.Errorf(c.Request.Context(), "%s failed err=%v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
