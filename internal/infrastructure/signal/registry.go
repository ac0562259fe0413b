package signal

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// Registry tracks which connections are currently admitted to which rooms.
// It is only ever a record of who is connected; authorization always comes
// from the room store, never from here. The entry for a room disappears
// the moment its last member leaves.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	logger *zap.SugaredLogger
}

func NewRegistry(logger *zap.SugaredLogger) *Registry {
	return &Registry{
		rooms:  make(map[string]map[*Client]struct{}),
		logger: logger,
	}
}

// Admit registers c as a member of the room. Admitting an existing member
// is a no-op.
func (r *Registry) Admit(slug string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[slug]
	if !ok {
		members = make(map[*Client]struct{})
		r.rooms[slug] = members
	}
	members[c] = struct{}{}
}

// Remove unregisters c from the room. It reports whether c was a member;
// callers use that to keep leave idempotent. Removing the last member
// deletes the room entry.
func (r *Registry) Remove(slug string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[slug]
	if !ok {
		return false
	}
	if _, present := members[c]; !present {
		return false
	}

	delete(members, c)
	if len(members) == 0 {
		delete(r.rooms, slug)
	}
	return true
}

// MembersOf returns the current members of the room.
func (r *Registry) MembersOf(slug string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[slug]
	out := make([]*Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

// Contains reports whether c is currently admitted to the room.
func (r *Registry) Contains(slug string, c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[slug][c]
	return ok
}

// RoomsOf returns every room c is currently admitted to. Used by the
// disconnect path, which treats a transport close as leave-room for each of
// them.
func (r *Registry) RoomsOf(c *Client) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string
	for slug, members := range r.rooms {
		if _, ok := members[c]; ok {
			out = append(out, slug)
		}
	}
	return out
}

// RoomCount returns the number of rooms with at least one member.
func (r *Registry) RoomCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// Broadcast delivers env to every member of the room except exclude.
// Members whose transport is not writable are skipped silently; their own
// close handling is responsible for the eventual Remove. Returns delivered
// and dropped counts.
func (r *Registry) Broadcast(slug string, env Envelope, exclude *Client) (delivered, dropped int) {
	data, err := json.Marshal(env)
	if err != nil {
		r.logger.Errorw("failed to marshal broadcast", "type", env.Type, "error", err)
		return 0, 0
	}

	r.mu.RLock()
	members := make([]*Client, 0, len(r.rooms[slug]))
	for c := range r.rooms[slug] {
		members = append(members, c)
	}
	r.mu.RUnlock()

	for _, c := range members {
		if c == exclude {
			continue
		}
		if c.enqueue(data) {
			delivered++
		} else {
			dropped++
		}
	}
	return delivered, dropped
}
