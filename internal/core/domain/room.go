package domain

import "time"

type RoomStatus string

const (
	StatusActive    RoomStatus = "ACTIVE"
	StatusOngoing   RoomStatus = "ONGOING"
	StatusCompleted RoomStatus = "COMPLETED"
)

// Room is the metadata record for one interview session. It is owned by the
// persistence store; the coordinator re-reads it on every join attempt and
// never caches it, so candidate assignment changes take effect on the next
// join without any invalidation protocol.
type Room struct {
	Slug        string     `json:"slug"`
	AdminID     UserID     `json:"adminId"`
	CandidateID *UserID    `json:"candidateId"`
	Status      RoomStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Joinable reports whether the room accepts connections at all. Completed
// rooms behave as if they do not exist.
func (r *Room) Joinable() bool {
	return r.Status == StatusActive || r.Status == StatusOngoing
}

// IsParticipant reports whether id is the room's admin or its assigned
// candidate.
func (r *Room) IsParticipant(id UserID) bool {
	if r.AdminID == id {
		return true
	}
	return r.CandidateID != nil && *r.CandidateID == id
}

// HasCandidate reports whether a candidate has been assigned to the room.
func (r *Room) HasCandidate() bool {
	return r.CandidateID != nil
}
