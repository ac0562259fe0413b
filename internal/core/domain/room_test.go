package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomJoinable(t *testing.T) {
	tests := []struct {
		status   RoomStatus
		joinable bool
	}{
		{StatusActive, true},
		{StatusOngoing, true},
		{StatusCompleted, false},
		{RoomStatus("UNKNOWN"), false},
	}

	for _, tt := range tests {
		room := &Room{Slug: "room-1", Status: tt.status}
		assert.Equal(t, tt.joinable, room.Joinable(), "status %s", tt.status)
	}
}

func TestRoomIsParticipant(t *testing.T) {
	candidate := UserID(2)
	room := &Room{Slug: "room-1", AdminID: 1, CandidateID: &candidate, Status: StatusActive}

	assert.True(t, room.IsParticipant(1))
	assert.True(t, room.IsParticipant(2))
	assert.False(t, room.IsParticipant(3))
}

func TestRoomWithoutCandidate(t *testing.T) {
	room := &Room{Slug: "room-1", AdminID: 1, Status: StatusActive}

	assert.False(t, room.HasCandidate())
	assert.True(t, room.IsParticipant(1))
	assert.False(t, room.IsParticipant(2))
}
