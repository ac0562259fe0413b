package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"proctorlink/internal/core/domain"

	"github.com/redis/go-redis/v9"
)

const accountKeyPrefix = "user:"

// AccountRepository reads account records mirrored into Redis by the
// management backend.
type AccountRepository struct {
	client *redis.Client
}

func NewAccountRepository(client *redis.Client) *AccountRepository {
	return &AccountRepository{client: client}
}

func (r *AccountRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.Account, error) {
	key := accountKeyPrefix + strconv.FormatInt(int64(id), 10)

	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to read account %d: %w", id, err)
	}

	var account domain.Account
	if err := json.Unmarshal([]byte(data), &account); err != nil {
		return nil, fmt.Errorf("failed to decode account %d: %w", id, err)
	}
	return &account, nil
}
