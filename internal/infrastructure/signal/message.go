package signal

import (
	"encoding/json"
	"fmt"

	"proctorlink/internal/core/domain"
)

// MessageType tags a wire envelope. The set is closed; dispatch switches
// exhaustively and unknown tags get an error reply.
type MessageType string

// Client to server.
const (
	TypeJoinRoom          MessageType = "join-room"
	TypeLeaveRoom         MessageType = "leave-room"
	TypeLogs              MessageType = "logs"
	TypeOutgoingCall      MessageType = "outgoing-call"
	TypeCallAccepted      MessageType = "call-accepted"
	TypeNegotiationNeeded MessageType = "negotiation-needed"
	TypeNegotiationDone   MessageType = "negotiation-done"
	TypeNewICECandidate   MessageType = "new-ice-candidate"
)

// Server to client.
const (
	TypeJoinSuccess      MessageType = "join-success"
	TypeUserJoined       MessageType = "user-joined"
	TypeUserLeft         MessageType = "user-left"
	TypeAskToJoin        MessageType = "ask-to-join"
	TypeIncomingCall     MessageType = "incoming-call"
	TypeNegotiationFinal MessageType = "negotiation-final"
	TypeError            MessageType = "error"
)

// Envelope is the wire message frame: a type tag plus a variant-specific
// payload this layer mostly does not interpret.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomPayload carries join-room and leave-room intents.
type RoomPayload struct {
	RoomSlug string `json:"roomSlug"`
}

// CallPayload carries the signaling variants. Offer, Answer and
// ICECandidate stay opaque; the relay only checks presence of the field the
// variant requires.
type CallPayload struct {
	RoomSlug     string          `json:"roomSlug"`
	Offer        json.RawMessage `json:"offer,omitempty"`
	Answer       json.RawMessage `json:"answer,omitempty"`
	ICECandidate json.RawMessage `json:"iceCandidate,omitempty"`
}

// AskToJoinPayload notifies room members that an unassigned user wants in.
type AskToJoinPayload struct {
	UserID    domain.UserID `json:"userId"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
}

// PresencePayload carries join/leave notifications.
type PresencePayload struct {
	UserID  domain.UserID `json:"userId"`
	Message string        `json:"message"`
}

// ErrorPayload carries a human-readable failure description. The
// connection stays open.
type ErrorPayload struct {
	Message string `json:"message"`
}

// NewEnvelope builds an envelope with payload marshalled from v.
func NewEnvelope(t MessageType, v interface{}) (Envelope, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", t, err)
	}
	return Envelope{Type: t, Payload: data}, nil
}

// errorEnvelope builds an error reply. The payload is a fixed shape, so
// marshalling cannot fail.
func errorEnvelope(message string) Envelope {
	env, _ := NewEnvelope(TypeError, ErrorPayload{Message: message})
	return env
}

// missing reports whether an opaque payload field is absent. JSON null
// counts as absent.
func missing(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
