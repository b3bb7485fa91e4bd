package httpx

import (
	"net/http"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/ports"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// RequestLogger — лог запроса после обработки; уровень по статусу ответа.
// Пути из skip (по шаблону маршрута) не логируются.
func RequestLogger(log ports.Logger, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if _, ok := skipped[path]; ok {
			return
		}
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		status := c.Writer.Status()

		logf := log.Infof
		switch {
		case status >= http.StatusInternalServerError:
			logf = log.Errorf
		case status >= http.StatusBadRequest:
			logf = log.Warnf
		}
		logf(ctx, "request id=%s method=%s path=%s status=%d ip=%s duration=%s size=%d",
			rid, c.Request.Method, path, status, c.ClientIP(), time.Since(start), c.Writer.Size())
	}
}
