package signal

import (
	"context"
	"encoding/json"
	"errors"

	"proctorlink/internal/core/domain"
)

// handleRelay is the store-and-forward path for call signaling. Payloads
// stay opaque: the relay checks only that the field the variant requires is
// present, re-tags where the protocol asks for it, and fans out to the rest
// of the room. No negotiation state is kept here; that lives in the two
// peer endpoints.
func (s *Server) handleRelay(ctx context.Context, client *Client, env Envelope) {
	var payload CallPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}
	if payload.RoomSlug == "" || !relayFieldPresent(env.Type, payload) {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}

	// Placing a call requires being an actual participant; the check goes
	// to the room store, not the registry, so a stale membership can never
	// authorize a call.
	if env.Type == TypeOutgoingCall {
		room, err := s.rooms.GetBySlug(ctx, payload.RoomSlug)
		if err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				client.Send(errorEnvelope("Invalid room id."))
				return
			}
			s.logger.Errorw("room lookup failed", "room", payload.RoomSlug, "error", err)
			return
		}
		if !room.IsParticipant(client.Identity.ID) {
			client.Send(errorEnvelope("Unauthorized request."))
			return
		}
	}

	out := Envelope{Type: relayOutputType(env.Type), Payload: env.Payload}
	_, dropped := s.registry.Broadcast(payload.RoomSlug, out, client)

	s.metrics.MessagesRelayed.WithLabelValues(string(out.Type)).Inc()
	if dropped > 0 {
		s.metrics.BroadcastDropped.Add(float64(dropped))
	}

	s.logger.Debugw("relayed signaling message",
		"room", payload.RoomSlug,
		"in_type", env.Type,
		"out_type", out.Type,
		"user_id", client.Identity.ID,
	)
}

// relayFieldPresent checks the mandatory opaque field for each variant.
func relayFieldPresent(t MessageType, p CallPayload) bool {
	switch t {
	case TypeOutgoingCall, TypeNegotiationNeeded:
		return !missing(p.Offer)
	case TypeCallAccepted, TypeNegotiationDone:
		return !missing(p.Answer)
	case TypeNewICECandidate:
		return !missing(p.ICECandidate)
	default:
		return false
	}
}

// relayOutputType maps the inbound variant to what room members receive.
func relayOutputType(t MessageType) MessageType {
	switch t {
	case TypeOutgoingCall:
		return TypeIncomingCall
	case TypeNegotiationDone:
		return TypeNegotiationFinal
	default:
		return t
	}
}
