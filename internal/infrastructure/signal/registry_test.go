package signal

import (
	"encoding/json"
	"testing"

	"proctorlink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// registryClient builds a client detached from any transport; enqueue and
// Broadcast only touch the send channel.
func registryClient(id string, userID domain.UserID) *Client {
	return newClient(id, domain.Identity{ID: userID}, "", nil, 8, nil, zap.NewNop().Sugar())
}

func TestRegistryAdmitRemove(t *testing.T) {
	reg := NewRegistry(zap.NewNop().Sugar())
	a := registryClient("a", 1)
	b := registryClient("b", 2)

	reg.Admit("room-1", a)
	reg.Admit("room-1", a) // idempotent
	reg.Admit("room-1", b)

	assert.Len(t, reg.MembersOf("room-1"), 2)
	assert.True(t, reg.Contains("room-1", a))
	assert.Equal(t, 1, reg.RoomCount())

	assert.True(t, reg.Remove("room-1", a))
	assert.False(t, reg.Remove("room-1", a), "second remove is a no-op")
	assert.False(t, reg.Remove("room-2", a), "unknown room is a no-op")
	assert.False(t, reg.Contains("room-1", a))
}

func TestRegistryDropsEmptyRooms(t *testing.T) {
	reg := NewRegistry(zap.NewNop().Sugar())
	a := registryClient("a", 1)

	reg.Admit("room-1", a)
	require.Equal(t, 1, reg.RoomCount())

	reg.Remove("room-1", a)
	assert.Equal(t, 0, reg.RoomCount())
	assert.Empty(t, reg.MembersOf("room-1"))
}

func TestRegistryRoomsOf(t *testing.T) {
	reg := NewRegistry(zap.NewNop().Sugar())
	a := registryClient("a", 1)
	b := registryClient("b", 2)

	reg.Admit("room-1", a)
	reg.Admit("room-2", a)
	reg.Admit("room-2", b)

	assert.ElementsMatch(t, []string{"room-1", "room-2"}, reg.RoomsOf(a))
	assert.ElementsMatch(t, []string{"room-2"}, reg.RoomsOf(b))
	assert.Empty(t, reg.RoomsOf(registryClient("c", 3)))
}

func TestRegistryBroadcastExcludesSender(t *testing.T) {
	reg := NewRegistry(zap.NewNop().Sugar())
	sender := registryClient("sender", 1)
	receiver := registryClient("receiver", 2)

	reg.Admit("room-1", sender)
	reg.Admit("room-1", receiver)

	env, err := NewEnvelope(TypeUserJoined, PresencePayload{UserID: 1, Message: "joined"})
	require.NoError(t, err)

	delivered, dropped := reg.Broadcast("room-1", env, sender)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, dropped)

	select {
	case data := <-receiver.send:
		var got Envelope
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, TypeUserJoined, got.Type)
	default:
		t.Fatal("receiver got no message")
	}

	select {
	case <-sender.send:
		t.Fatal("sender must not receive its own broadcast")
	default:
	}
}

func TestRegistryBroadcastCountsDrops(t *testing.T) {
	reg := NewRegistry(zap.NewNop().Sugar())
	sender := registryClient("sender", 1)
	full := newClient("full", domain.Identity{ID: 2}, "", nil, 0, nil, zap.NewNop().Sugar())

	reg.Admit("room-1", sender)
	reg.Admit("room-1", full)

	env, err := NewEnvelope(TypeUserJoined, PresencePayload{UserID: 1})
	require.NoError(t, err)

	delivered, dropped := reg.Broadcast("room-1", env, sender)
	assert.Equal(t, 0, delivered)
	assert.Equal(t, 1, dropped)
}
