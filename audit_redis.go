package argonchain

import (
	"context"
	"encoding/json"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStreamSink appends audit events to a capped Redis stream, one entry
// per event. Delivery failures are counted, never retried.
type RedisStreamSink struct {
	client redis.UniversalClient
	stream string
	maxLen int64
	failed atomic.Uint64
}

// NewRedisStreamSink writes to stream, trimming it to roughly maxLen entries
// with MAXLEN ~ (maxLen <= 0 disables trimming). An empty stream name defaults to
// "argonchain:audit".
func NewRedisStreamSink(client redis.UniversalClient, stream string, maxLen int64) *RedisStreamSink {
	if stream == "" {
		stream = "argonchain:audit"
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: maxLen,
	}
}

func (s *RedisStreamSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.client == nil {
		return
	}

	values := map[string]interface{}{
		"event_type": event.EventType,
		"run_id":     event.RunID,
		"timestamp":  event.Timestamp.UTC().Format(time.RFC3339Nano),
		"iterations": strconv.Itoa(event.Iterations),
		"completed":  strconv.Itoa(event.Completed),
		"success":    strconv.FormatBool(event.Success),
	}
	if event.Error != "" {
		values["error"] = event.Error
	}
	if len(event.Metadata) > 0 {
		meta, err := json.Marshal(event.Metadata)
		if err == nil {
			values["metadata"] = string(meta)
		}
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: values,
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		s.failed.Add(1)
	}
}

// Failed returns how many events could not be written.
func (s *RedisStreamSink) Failed() uint64 {
	if s == nil {
		return 0
	}
	return s.failed.Load()
}

// Stream returns the stream key.
func (s *RedisStreamSink) Stream() string {
	return s.stream
}
