package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/mq_consumer_bench/internal/domain"
)

func newReport(id string) *domain.RunReport {
	return &domain.RunReport{
		RunID:   id,
		Results: []domain.WorkerReport{{WorkerID: "consumer-1", Received: 10}},
	}
}

func TestSetGet_HitMiss(t *testing.T) {
	c := NewReportCache(2, 5*time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "run-1"); ok {
		t.Fatalf("expected miss before Set")
	}

	_ = c.Set(ctx, newReport("run-1"))
	got, ok := c.Get(ctx, "run-1")
	if !ok || got.RunID != "run-1" {
		t.Fatalf("expected hit for run-1")
	}
}

func TestSet_IgnoresEmptyRunID(t *testing.T) {
	c := NewReportCache(2, 0)
	_ = c.Set(context.Background(), &domain.RunReport{})
	_ = c.Set(context.Background(), nil)
	if c.Len() != 0 {
		t.Fatalf("reports without run id must not be cached, len=%d", c.Len())
	}
}

func TestTTL_Expiry(t *testing.T) {
	c := NewReportCache(2, 100*time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, newReport("ttl"))
	if _, ok := c.Get(ctx, "ttl"); !ok {
		t.Fatalf("expected hit right after Set")
	}
	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get(ctx, "ttl"); ok {
		t.Fatalf("expected miss after TTL expires")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewReportCache(2, 0)
	ctx := context.Background()

	_ = c.Set(ctx, newReport("A"))
	_ = c.Set(ctx, newReport("B"))
	// A становится свежей, C вытесняет B
	if _, ok := c.Get(ctx, "A"); !ok {
		t.Fatalf("expected hit for A")
	}
	_ = c.Set(ctx, newReport("C"))

	if _, ok := c.Get(ctx, "B"); ok {
		t.Fatalf("expected B to be evicted")
	}
	if _, ok := c.Get(ctx, "A"); !ok || c.Len() != 2 {
		t.Fatalf("expected A & C to stay in cache")
	}
}

func TestCloneImmutability(t *testing.T) {
	c := NewReportCache(1, 0)
	ctx := context.Background()
	_ = c.Set(ctx, newReport("Z"))

	r1, _ := c.Get(ctx, "Z")
	r1.Results[0].Received = 999

	r2, _ := c.Get(ctx, "Z")
	if r2.Results[0].Received == 999 {
		t.Fatalf("cache should return clones, not pointers to internal value")
	}
}
