package ports

import (
	"context"

	"proctorlink/internal/core/domain"
)

// RoomRepository reads room metadata from the source of truth. The
// coordinator calls it on every join attempt; implementations must not
// cache, otherwise candidate assignment races back in.
type RoomRepository interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Room, error)
}

// AccountRepository reads durable user accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id domain.UserID) (*domain.Account, error)
}

// LogQueue is the durable FIFO queue between the coordinator and the
// persistence worker. Push is fire-and-forget from the caller's point of
// view; Pop blocks until a record is available or ctx is done.
type LogQueue interface {
	Push(ctx context.Context, record *domain.QueuedLog) error
	Pop(ctx context.Context) (*domain.QueuedLog, error)
}
