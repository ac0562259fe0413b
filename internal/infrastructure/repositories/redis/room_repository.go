package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"proctorlink/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const roomKeyPrefix = "room:"

// RoomRepository reads room metadata mirrored into Redis by the management
// backend. Every lookup goes to Redis; there is deliberately no local
// caching so a candidate assignment is visible on the very next join.
type RoomRepository struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) *RoomRepository {
	return &RoomRepository{client: client}
}

func (r *RoomRepository) GetBySlug(ctx context.Context, slug string) (*domain.Room, error) {
	data, err := r.client.Get(ctx, roomKeyPrefix+slug).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to read room %q: %w", slug, err)
	}

	var room domain.Room
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("failed to decode room %q: %w", slug, err)
	}
	return &room, nil
}
