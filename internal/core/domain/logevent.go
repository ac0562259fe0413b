package domain

import "fmt"

// LogEvent is one proctoring observation emitted by the candidate-side
// detector. Timestamp is media-relative, in seconds.
type LogEvent struct {
	RoomSlug  string  `json:"roomSlug"`
	EventType string  `json:"eventType"`
	Message   string  `json:"message"`
	Timestamp float64 `json:"timestamp"`
}

func (e *LogEvent) Validate() error {
	if e.RoomSlug == "" {
		return fmt.Errorf("roomSlug is required: %w", ErrInvalidLogEvent)
	}
	if e.EventType == "" {
		return fmt.Errorf("eventType is required: %w", ErrInvalidLogEvent)
	}
	if e.Timestamp < 0 {
		return fmt.Errorf("timestamp must be >= 0: %w", ErrInvalidLogEvent)
	}
	return nil
}

// QueuedLog is the durable queue record. Credential is the submitter's raw
// bearer token; the persistence worker replays it so the record is written
// under the original identity.
type QueuedLog struct {
	LogEvent
	Credential string `json:"credential"`
}
