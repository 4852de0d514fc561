package argonchain

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, client
}

func TestRedisStreamSinkAppendsEvents(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()
	defer rdb.Close()

	sink := NewRedisStreamSink(rdb, "", 0)
	if sink.Stream() != "argonchain:audit" {
		t.Fatalf("unexpected default stream %q", sink.Stream())
	}

	ctx := context.Background()
	sink.Emit(ctx, AuditEvent{
		Timestamp:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EventType:  AuditRunFailed,
		RunID:      "run-1",
		Iterations: 4,
		Completed:  2,
		Error:      "iteration 2: boom",
		Metadata:   map[string]string{"salts": "2"},
	})

	entries, err := rdb.XRange(ctx, sink.Stream(), "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	v := entries[0].Values
	if v["event_type"] != AuditRunFailed || v["run_id"] != "run-1" {
		t.Fatalf("unexpected values: %v", v)
	}
	if v["completed"] != "2" || v["success"] != "false" || v["error"] != "iteration 2: boom" {
		t.Fatalf("unexpected values: %v", v)
	}
	if v["metadata"] != `{"salts":"2"}` {
		t.Fatalf("unexpected metadata: %v", v["metadata"])
	}
	if sink.Failed() != 0 {
		t.Fatalf("expected no failures, got %d", sink.Failed())
	}
}

func TestRedisStreamSinkTrimsStream(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()
	defer rdb.Close()

	sink := NewRedisStreamSink(rdb, "audit:test", 3)
	for i := 0; i < 10; i++ {
		sink.Emit(context.Background(), AuditEvent{EventType: AuditRunStarted, RunID: "r"})
	}

	if sink.Failed() != 0 {
		t.Fatalf("expected every trimmed write to succeed, %d failed", sink.Failed())
	}

	n, err := rdb.XLen(context.Background(), "audit:test").Result()
	if err != nil {
		t.Fatalf("XLen failed: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected stream trimmed to 3, got %d", n)
	}
}

func TestRedisStreamSinkCountsFailures(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer rdb.Close()
	mr.Close()

	sink := NewRedisStreamSink(rdb, "audit:down", 0)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	sink.Emit(ctx, AuditEvent{EventType: AuditRunStarted})

	if sink.Failed() != 1 {
		t.Fatalf("expected 1 failure, got %d", sink.Failed())
	}
}

func TestGeneratorAuditsToRedis(t *testing.T) {
	mr, rdb := newTestRedis(t)
	defer mr.Close()
	defer rdb.Close()

	sink := NewRedisStreamSink(rdb, "argonchain:audit", 100)
	cfg := testConfig()
	cfg.Audit = AuditConfig{Enabled: true, BufferSize: 4}

	g, err := New().WithConfig(cfg).WithAuditSink(sink).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := g.Run(context.Background(), 2, "seed"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	g.Close()

	entries, err := rdb.XRange(context.Background(), "argonchain:audit", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Values["event_type"] != AuditRunCompleted {
		t.Fatalf("unexpected last event: %v", entries[1].Values)
	}
}
