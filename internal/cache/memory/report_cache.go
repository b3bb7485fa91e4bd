package memory

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
	"github.com/Gunvolt24/mq_consumer_bench/pkg/metrics"
)

type entry struct {
	runID     string
	report    *domain.RunReport
	expiresAt time.Time
}

// ReportCache — LRU с TTL для отчётов о прогонах. ttl <= 0 — без срока жизни.
type ReportCache struct {
	capacity int
	ttl      time.Duration

	mu    sync.Mutex
	ll    *list.List
	index map[string]*list.Element
}

func NewReportCache(capacity int, ttl time.Duration) *ReportCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &ReportCache{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Get — копия отчёта; обращение продлевает TTL и поднимает запись в голову списка.
func (c *ReportCache) Get(_ context.Context, runID string) (*domain.RunReport, bool) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.index[runID]
	if !ok {
		metrics.ReportCacheOps.WithLabelValues("miss").Inc()
		return nil, false
	}
	ent := elem.Value.(*entry)
	if c.expired(ent, now) {
		metrics.ReportCacheOps.WithLabelValues("expired").Inc()
		c.remove(elem)
		return nil, false
	}

	c.ll.MoveToFront(elem)
	ent.expiresAt = c.expiry(now)
	metrics.ReportCacheOps.WithLabelValues("hit").Inc()
	return cloneReport(ent.report), true
}

func (c *ReportCache) Set(_ context.Context, report *domain.RunReport) error {
	if report == nil || report.RunID == "" {
		return nil
	}
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[report.RunID]; ok {
		ent := elem.Value.(*entry)
		ent.report = cloneReport(report)
		ent.expiresAt = c.expiry(now)
		c.ll.MoveToFront(elem)
		return nil
	}

	c.pruneExpired(now)
	c.index[report.RunID] = c.ll.PushFront(&entry{
		runID:     report.RunID,
		report:    cloneReport(report),
		expiresAt: c.expiry(now),
	})
	if c.ll.Len() > c.capacity {
		c.remove(c.ll.Back())
		metrics.ReportCacheOps.WithLabelValues("evicted").Inc()
	}
	metrics.ReportCacheSize.Set(float64(len(c.index)))
	return nil
}

// Len — число записей (включая ещё не вычищенные просроченные).
func (c *ReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *ReportCache) remove(elem *list.Element) {
	delete(c.index, elem.Value.(*entry).runID)
	c.ll.Remove(elem)
	metrics.ReportCacheSize.Set(float64(len(c.index)))
}

func (c *ReportCache) expired(ent *entry, now time.Time) bool {
	return c.ttl > 0 && now.After(ent.expiresAt)
}

func (c *ReportCache) expiry(now time.Time) time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(c.ttl)
}

// pruneExpired — хвост списка самый старый, чистим до первой живой записи.
func (c *ReportCache) pruneExpired(now time.Time) {
	for back := c.ll.Back(); back != nil && c.expired(back.Value.(*entry), now); back = c.ll.Back() {
		c.remove(back)
		metrics.ReportCacheOps.WithLabelValues("expired").Inc()
	}
}

func cloneReport(r *domain.RunReport) *domain.RunReport {
	cp := *r
	if r.Results != nil {
		cp.Results = append([]domain.WorkerReport(nil), r.Results...)
	}
	return &cp
}
