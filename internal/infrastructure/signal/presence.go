package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"proctorlink/internal/core/domain"
	"proctorlink/pkg/validation"
)

// handleJoinRoom runs the admission state machine. Authorization is always
// decided against the room store, re-read on every attempt; the registry
// only answers "who is connected right now".
func (s *Server) handleJoinRoom(ctx context.Context, client *Client, env Envelope) {
	var payload RoomPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}
	if err := validation.ValidateRoomSlug(payload.RoomSlug); err != nil {
		client.Send(errorEnvelope("Room id is required."))
		return
	}
	slug := payload.RoomSlug

	room, err := s.rooms.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			client.Send(errorEnvelope("Room doesn't exist."))
			return
		}
		// transient store failure: logged, silent for the client
		s.logger.Errorw("room lookup failed", "room", slug, "error", err)
		return
	}
	if !room.Joinable() {
		client.Send(errorEnvelope("Room doesn't exist."))
		return
	}

	switch {
	case room.IsParticipant(client.Identity.ID):
		s.admit(slug, client)

	case !room.HasCandidate():
		if len(s.registry.MembersOf(slug)) == 0 {
			client.Send(errorEnvelope("Host has not joined yet."))
			return
		}
		// Not admitted. The admin assigns the candidate out-of-band and
		// the requester re-sends join-room, which then takes the admit
		// path above.
		ask, err := NewEnvelope(TypeAskToJoin, AskToJoinPayload{
			UserID:    client.Identity.ID,
			FirstName: client.Identity.FirstName,
			LastName:  client.Identity.LastName,
		})
		if err != nil {
			s.logger.Errorw("failed to build ask-to-join", "room", slug, "error", err)
			return
		}
		s.registry.Broadcast(slug, ask, nil)
		s.logger.Infow("admission requested", "room", slug, "user_id", client.Identity.ID)

	default:
		client.Send(errorEnvelope("Room is already occupied."))
	}
}

func (s *Server) admit(slug string, client *Client) {
	s.registry.Admit(slug, client)
	s.metrics.ActiveRooms.Set(float64(s.registry.RoomCount()))

	success, err := NewEnvelope(TypeJoinSuccess, PresencePayload{
		UserID:  client.Identity.ID,
		Message: fmt.Sprintf("Successfully joined room %s.", slug),
	})
	if err != nil {
		s.logger.Errorw("failed to build join-success", "room", slug, "error", err)
		return
	}
	client.Send(success)

	joined, err := NewEnvelope(TypeUserJoined, PresencePayload{
		UserID:  client.Identity.ID,
		Message: fmt.Sprintf("User %d joined room %s.", client.Identity.ID, slug),
	})
	if err != nil {
		s.logger.Errorw("failed to build user-joined", "room", slug, "error", err)
		return
	}
	_, dropped := s.registry.Broadcast(slug, joined, client)
	if dropped > 0 {
		s.metrics.BroadcastDropped.Add(float64(dropped))
	}

	s.logger.Infow("client admitted", "room", slug, "user_id", client.Identity.ID, "role", client.Identity.Role)
}

// handleLeaveRoom removes the client from the room. Leaving twice, or a
// room never joined, is a no-op.
func (s *Server) handleLeaveRoom(client *Client, env Envelope) {
	var payload RoomPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		client.Send(errorEnvelope("Invalid message format."))
		return
	}
	if payload.RoomSlug == "" {
		client.Send(errorEnvelope("Room id is required."))
		return
	}

	if !s.registry.Remove(payload.RoomSlug, client) {
		return
	}
	s.metrics.ActiveRooms.Set(float64(s.registry.RoomCount()))
	s.broadcastUserLeft(payload.RoomSlug, client)

	s.logger.Infow("client left room", "room", payload.RoomSlug, "user_id", client.Identity.ID)
}

// broadcastUserLeft notifies remaining members, if any, that client is
// gone. Callers must already have removed client from the room.
func (s *Server) broadcastUserLeft(slug string, client *Client) {
	if len(s.registry.MembersOf(slug)) == 0 {
		return
	}

	left, err := NewEnvelope(TypeUserLeft, PresencePayload{
		UserID:  client.Identity.ID,
		Message: fmt.Sprintf("User %d left room %s.", client.Identity.ID, slug),
	})
	if err != nil {
		s.logger.Errorw("failed to build user-left", "room", slug, "error", err)
		return
	}
	_, dropped := s.registry.Broadcast(slug, left, client)
	if dropped > 0 {
		s.metrics.BroadcastDropped.Add(float64(dropped))
	}
}
