package memory

import (
	"context"
	"sync"

	"proctorlink/internal/core/domain"
)

// RoomRepository is an in-memory room store for local development and
// tests. Put replaces the whole record, which is how tests model the
// out-of-band "assign candidate" action.
type RoomRepository struct {
	mu    sync.RWMutex
	rooms map[string]domain.Room
}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{
		rooms: make(map[string]domain.Room),
	}
}

func (r *RoomRepository) GetBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[slug]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	// copy so callers never share the stored value
	out := room
	return &out, nil
}

func (r *RoomRepository) Put(room domain.Room) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[room.Slug] = room
}

func (r *RoomRepository) Delete(slug string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rooms, slug)
}
