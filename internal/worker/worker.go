package worker

import (
	"context"
	"errors"

	"proctorlink/internal/core/domain"
	"proctorlink/internal/core/ports"
	"proctorlink/internal/infrastructure/monitoring"
	"proctorlink/pkg/retry"
	"proctorlink/pkg/tracing"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sink is where drained log records end up.
type Sink interface {
	AppendLog(ctx context.Context, credential string, event domain.LogEvent) error
}

// Worker drains the durable log queue and forwards each record to the
// persistence API. Delivery is at-most-once: a record that fails to
// persist is logged and dropped, never requeued. Records carry no
// idempotency key, so a requeue could write duplicates.
type Worker struct {
	queue   ports.LogQueue
	sink    Sink
	backoff retry.Config
	metrics *monitoring.Collector
	logger  *zap.SugaredLogger
}

func New(queue ports.LogQueue, sink Sink, backoff retry.Config, metrics *monitoring.Collector, logger *zap.SugaredLogger) *Worker {
	return &Worker{
		queue:   queue,
		sink:    sink,
		backoff: backoff,
		metrics: metrics,
		logger:  logger,
	}
}

// Run drains the queue until ctx is done. Pop errors (a dropped broker
// connection, typically) back off and retry so the loop never spins hot;
// persist errors drop only the one record.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("log persistence worker started")

	for {
		record, err := w.pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("log persistence worker stopping")
				return nil
			}
			w.logger.Errorw("giving up on queue pop after retries", "error", err)
			continue
		}

		w.persist(ctx, record)
	}
}

func (w *Worker) pop(ctx context.Context) (*domain.QueuedLog, error) {
	var record *domain.QueuedLog
	err := retry.Do(ctx, w.backoff, func() error {
		var popErr error
		record, popErr = w.queue.Pop(ctx)
		return popErr
	})
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, errors.New("queue returned empty record")
	}
	return record, nil
}

func (w *Worker) persist(ctx context.Context, record *domain.QueuedLog) {
	spanCtx, span := tracing.StartSpan(ctx, "logqueue.persist",
		trace.WithAttributes(
			tracing.RoomSlugKey.String(record.RoomSlug),
			tracing.EventTypeKey.String(record.EventType),
		),
	)
	defer span.End()

	if err := w.sink.AppendLog(spanCtx, record.Credential, record.LogEvent); err != nil {
		// at-most-once: the record is gone
		tracing.RecordError(spanCtx, err)
		w.metrics.LogsPersistFailed.Inc()
		w.logger.Errorw("dropping log record after failed persist",
			"room", record.RoomSlug,
			"event_type", record.EventType,
			"error", err,
		)
		return
	}

	w.metrics.LogsPersisted.Inc()
	w.logger.Debugw("log record persisted",
		"room", record.RoomSlug,
		"event_type", record.EventType,
	)
}
