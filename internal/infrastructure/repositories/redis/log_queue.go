package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"proctorlink/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

// LogQueue is the durable log record queue. The coordinator LPUSHes, the
// worker BRPOPs, so records drain in FIFO order.
type LogQueue struct {
	client *redis.Client
	key    string
}

func NewLogQueue(client *redis.Client, key string) *LogQueue {
	return &LogQueue{client: client, key: key}
}

func (q *LogQueue) Push(ctx context.Context, record *domain.QueuedLog) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode log record: %w", err)
	}
	if err := q.client.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push log record: %w", err)
	}
	return nil
}

// Pop blocks until a record is available or ctx is done. The zero timeout
// makes BRPOP block server-side; no polling.
func (q *LogQueue) Pop(ctx context.Context) (*domain.QueuedLog, error) {
	result, err := q.client.BRPop(ctx, 0, q.key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to pop log record: %w", err)
	}
	// result is [key, element]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BRPOP reply of length %d", len(result))
	}

	var record domain.QueuedLog
	if err := json.Unmarshal([]byte(result[1]), &record); err != nil {
		return nil, fmt.Errorf("failed to decode log record: %w", err)
	}
	return &record, nil
}
