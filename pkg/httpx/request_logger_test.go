package httpx_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Gunvolt24/mq_consumer_bench/pkg/httpx"
	"github.com/gin-gonic/gin"
)

// recLogger — запоминает уровень и текст записей.
type recLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, level+" "+fmt.Sprintf(format, args...))
}

func (l *recLogger) Infof(_ context.Context, f string, a ...any)  { l.add("info", f, a...) }
func (l *recLogger) Warnf(_ context.Context, f string, a ...any)  { l.add("warn", f, a...) }
func (l *recLogger) Errorf(_ context.Context, f string, a ...any) { l.add("error", f, a...) }

func TestRequestLogger_LevelsAndSkip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := &recLogger{}

	r := gin.New()
	r.Use(httpx.RequestLogger(log, "/ping"))
	r.GET("/ping", func(c *gin.Context) { c.Status(200) })
	r.GET("/ok", func(c *gin.Context) { c.Status(200) })
	r.GET("/bad", func(c *gin.Context) { c.Status(400) })
	r.GET("/boom", func(c *gin.Context) { c.Status(500) })

	for _, p := range []string{"/ping", "/ok", "/bad", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, http.NoBody))
	}

	if len(log.entries) != 3 {
		t.Fatalf("want 3 entries (ping skipped), got %d: %v", len(log.entries), log.entries)
	}
	for i, level := range []string{"info", "warn", "error"} {
		if got := log.entries[i]; got[:len(level)] != level {
			t.Fatalf("entry %d: want level %s, got %q", i, level, got)
		}
	}
}
