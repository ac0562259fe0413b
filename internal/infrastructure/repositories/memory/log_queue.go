package memory

import (
	"context"
	"errors"

	"proctorlink/internal/core/domain"
)

const defaultQueueCapacity = 1024

var ErrQueueFull = errors.New("log queue full")

// LogQueue is a channel-backed queue for tests and single-process setups.
// Push fails once the buffer is full, mirroring a broker that refuses
// writes instead of blocking the real-time path.
type LogQueue struct {
	records chan *domain.QueuedLog
}

func NewLogQueue() *LogQueue {
	return &LogQueue{
		records: make(chan *domain.QueuedLog, defaultQueueCapacity),
	}
}

func (q *LogQueue) Push(ctx context.Context, record *domain.QueuedLog) error {
	select {
	case q.records <- record:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *LogQueue) Pop(ctx context.Context) (*domain.QueuedLog, error) {
	select {
	case record := <-q.records:
		return record, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len reports the number of queued records. Test helper.
func (q *LogQueue) Len() int {
	return len(q.records)
}
