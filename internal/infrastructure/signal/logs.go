package signal

import (
	"context"
	"encoding/json"

	"proctorlink/internal/core/domain"
	"proctorlink/pkg/tracing"
	"proctorlink/pkg/validation"

	"go.opentelemetry.io/otel/trace"
)

// logPayload mirrors domain.LogEvent on the wire, with a pointer timestamp
// so an absent field is distinguishable from a legitimate zero.
type logPayload struct {
	RoomSlug  string   `json:"roomSlug"`
	EventType string   `json:"eventType"`
	Message   string   `json:"message"`
	Timestamp *float64 `json:"timestamp"`
}

// handleLogs bridges a detector event into the durable queue and mirrors it
// to the room so the admin's live view updates immediately. The queue push
// is fire-and-forget: a failure is logged and counted but the sender never
// hears about it, keeping the log pipeline off the real-time path.
func (s *Server) handleLogs(ctx context.Context, client *Client, env Envelope) {
	var payload logPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil || payload.Timestamp == nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}

	event := domain.LogEvent{
		RoomSlug:  payload.RoomSlug,
		EventType: payload.EventType,
		Message:   payload.Message,
		Timestamp: *payload.Timestamp,
	}
	if err := event.Validate(); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}
	if err := validation.ValidateRoomSlug(event.RoomSlug); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}
	if err := validation.ValidateEventType(event.EventType); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}
	if err := validation.ValidateLogMessage(event.Message); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}

	record := &domain.QueuedLog{
		LogEvent:   event,
		Credential: client.Token,
	}

	spanCtx, span := tracing.StartSpan(ctx, "logqueue.push",
		trace.WithAttributes(
			tracing.RoomSlugKey.String(event.RoomSlug),
			tracing.EventTypeKey.String(event.EventType),
			tracing.UserIDKey.Int64(int64(client.Identity.ID)),
		),
	)
	if err := s.queue.Push(spanCtx, record); err != nil {
		tracing.RecordError(spanCtx, err)
		s.metrics.LogsQueueFailed.Inc()
		s.logger.Errorw("failed to queue log record",
			"room", event.RoomSlug,
			"event_type", event.EventType,
			"error", err,
		)
	} else {
		s.metrics.LogsQueued.Inc()
	}
	span.End()

	// Mirror the original record to the room regardless of queue outcome
	// so the live view stays responsive.
	_, dropped := s.registry.Broadcast(event.RoomSlug, env, client)
	if dropped > 0 {
		s.metrics.BroadcastDropped.Add(float64(dropped))
	}
}
