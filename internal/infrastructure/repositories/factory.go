package repositories

import (
	"context"
	"fmt"

	"proctorlink/internal/core/ports"
	"proctorlink/internal/infrastructure/repositories/memory"
	redisrepo "proctorlink/internal/infrastructure/repositories/redis"
	"proctorlink/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory builds the repository set for the configured backend. The
// "memory" backend has no durable queue and is only suitable for tests and
// single-process development.
type Factory struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	client *redis.Client
}

func NewFactory(cfg *config.Config, logger *zap.SugaredLogger) (*Factory, error) {
	f := &Factory{cfg: cfg, logger: logger}

	if cfg.Repositories.Backend == "redis" {
		client, err := redisrepo.NewClient(
			cfg.Redis.Address,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
			logger,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		f.client = client
	}

	return f, nil
}

func (f *Factory) CreateRoomRepository() ports.RoomRepository {
	if f.client != nil {
		return redisrepo.NewRoomRepository(f.client)
	}
	return memory.NewRoomRepository()
}

func (f *Factory) CreateAccountRepository() ports.AccountRepository {
	if f.client != nil {
		return redisrepo.NewAccountRepository(f.client)
	}
	return memory.NewAccountRepository()
}

func (f *Factory) CreateLogQueue() ports.LogQueue {
	if f.client != nil {
		return redisrepo.NewLogQueue(f.client, f.cfg.Queue.Key)
	}
	return memory.NewLogQueue()
}

// HealthCheck verifies the backing store is reachable. Used by the
// readiness endpoint.
func (f *Factory) HealthCheck(ctx context.Context) error {
	if f.client == nil {
		return nil
	}
	return f.client.Ping(ctx).Err()
}

func (f *Factory) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
