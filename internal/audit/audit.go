// internal/audit/audit.go
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Action enumerates the events recorded in the audit stream.
type Action string

const (
	ActionCreate      Action = "CREATE"
	ActionUpdate      Action = "UPDATE"
	ActionDelete      Action = "DELETE"
	ActionView        Action = "VIEW"
	ActionLogin       Action = "LOGIN"
	ActionLogout      Action = "LOGOUT"
	ActionPurchase    Action = "PURCHASE"
	ActionMatchPlayed Action = "MATCH_PLAYED"
	ActionSystemEvent Action = "SYSTEM_EVENT"
)

// Record is one audit entry as consumed by the downstream audit service.
type Record struct {
	Action    Action            `json:"action"`
	UserID    uuid.UUID         `json:"user_id"`
	Timestamp int64             `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Recorder publishes audit records. Implementations must not block the
// calling request beyond a quick network send.
type Recorder interface {
	Record(ctx context.Context, action Action, userID uuid.UUID, metadata map[string]string) error
}

// DefaultQueueName is the Redis list the audit service drains.
var DefaultQueueName = "aquilosaurios_audit"

// RedisRecorder pushes audit records onto a Redis list.
type RedisRecorder struct {
	rdb   *redis.Client
	queue string
}

// NewRedisRecorder wraps an already-connected Redis client. An empty queue
// name falls back to DefaultQueueName.
func NewRedisRecorder(rdb *redis.Client, queue string) *RedisRecorder {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisRecorder{rdb: rdb, queue: queue}
}

// Record serializes the entry to JSON and RPushes it to the queue.
func (r *RedisRecorder) Record(ctx context.Context, action Action, userID uuid.UUID, metadata map[string]string) error {
	rec := Record{
		Action:    action,
		UserID:    userID,
		Timestamp: time.Now().Unix(),
		Metadata:  metadata,
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}
	if err := r.rdb.RPush(ctx, r.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to audit queue %q: %w", r.queue, err)
	}
	return nil
}

// NopRecorder drops every record. Used when no Redis endpoint is configured
// and in tests.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Action, uuid.UUID, map[string]string) error {
	return nil
}
