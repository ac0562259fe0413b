package validation

import (
	"strings"
	"testing"
)

func TestValidateRoomSlug(t *testing.T) {
	cases := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"valid nanoid style", "abc123XYZ_", false},
		{"valid with dash", "a-b-c", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 65), true},
		{"illegal characters", "room/123", true},
		{"whitespace", "room 123", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRoomSlug(tc.slug)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for slug %q, got nil", tc.slug)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error for slug %q, got: %v", tc.slug, err)
			}
		})
	}
}

func TestValidateEventType(t *testing.T) {
	cases := []struct {
		name      string
		eventType string
		wantErr   bool
	}{
		{"valid", "no_face_detected", false},
		{"valid with digits", "tab_switch_2", false},
		{"empty", "", true},
		{"uppercase rejected", "NoFace", true},
		{"too long", strings.Repeat("x", 65), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateEventType(tc.eventType)
			if tc.wantErr && err == nil {
				t.Errorf("expected error for event type %q, got nil", tc.eventType)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("expected no error for event type %q, got: %v", tc.eventType, err)
			}
		})
	}
}

func TestValidateLogMessage(t *testing.T) {
	if err := ValidateLogMessage("Face not detected for 10s."); err != nil {
		t.Errorf("expected valid message, got: %v", err)
	}
	if err := ValidateLogMessage(strings.Repeat("m", 1025)); err == nil {
		t.Error("expected error for overlong message, got nil")
	}
	if err := ValidateLogMessage(string([]byte{0xff, 0xfe})); err == nil {
		t.Error("expected error for invalid UTF-8, got nil")
	}
}
