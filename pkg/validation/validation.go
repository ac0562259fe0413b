package validation

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// RoomSlugRegex matches slugs issued by the room controller (nanoid
// alphabet plus dash and underscore).
var RoomSlugRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// EventTypeRegex matches detector event type tags, e.g. "no_face_detected".
var EventTypeRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateRoomSlug validates a room slug.
func ValidateRoomSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("room slug is required")
	}
	if len(slug) > 64 {
		return fmt.Errorf("room slug is too long (max 64 characters)")
	}
	if !RoomSlugRegex.MatchString(slug) {
		return fmt.Errorf("invalid room slug format")
	}
	return nil
}

// ValidateEventType validates a proctoring event type tag.
func ValidateEventType(eventType string) error {
	if eventType == "" {
		return fmt.Errorf("event type is required")
	}
	if len(eventType) > 64 {
		return fmt.Errorf("event type is too long (max 64 characters)")
	}
	if !EventTypeRegex.MatchString(eventType) {
		return fmt.Errorf("invalid event type format")
	}
	return nil
}

// ValidateLogMessage validates the free-text message attached to a log
// event.
func ValidateLogMessage(message string) error {
	if !utf8.ValidString(message) {
		return fmt.Errorf("log message is not valid UTF-8")
	}
	if utf8.RuneCountInString(message) > 1024 {
		return fmt.Errorf("log message is too long (max 1024 characters)")
	}
	return nil
}
