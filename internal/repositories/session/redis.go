package session

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	redisclient "github.com/tableforge/tableforge/internal/redis"
)

const (
	// Key patterns: session:{id}, session_name:{name}
	sessionKeyPrefix = "session:"
	nameKeyPrefix    = "session_name:"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a new Redis repository for sessions
func NewRedisRepository(cfg *Config) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument("session cannot be nil")
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}
	if input.Session.Name == "" {
		return nil, errors.InvalidArgument("session name cannot be empty")
	}

	now := r.clock.Now().Unix()
	input.Session.CreatedAt = now
	input.Session.UpdatedAt = now

	// Claim the name first so two concurrent creates cannot both win
	nameKey := r.nameKey(input.Session.Name)
	claimed, err := r.client.SetNX(ctx, nameKey, input.Session.ID, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to claim session name")
	}
	if !claimed {
		return nil, errors.AlreadyExistsf("session name %q is already taken", input.Session.Name)
	}

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		_ = r.client.Del(ctx, nameKey)
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	stored, err := r.client.SetNX(ctx, r.sessionKey(input.Session.ID), sessionJSON, 0).Result()
	if err != nil {
		_ = r.client.Del(ctx, nameKey)
		return nil, errors.Wrapf(err, "failed to store session in Redis")
	}
	if !stored {
		_ = r.client.Del(ctx, nameKey)
		return nil, errors.AlreadyExistsf("session %s already exists", input.Session.ID)
	}

	return &CreateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	sessionJSON, err := r.client.Get(ctx, r.sessionKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get session from Redis")
	}

	var session entities.Session
	if err := json.Unmarshal([]byte(sessionJSON), &session); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal session")
	}

	return &GetOutput{Session: &session}, nil
}

func (r *redisRepository) GetByName(ctx context.Context, input GetByNameInput) (*GetByNameOutput, error) {
	if input.Name == "" {
		return nil, errors.InvalidArgument("session name cannot be empty")
	}

	id, err := r.client.Get(ctx, r.nameKey(input.Name)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("session %q not found", input.Name)
		}
		return nil, errors.Wrapf(err, "failed to resolve session name")
	}

	output, err := r.Get(ctx, GetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return &GetByNameOutput{Session: output.Session}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Session == nil {
		return nil, errors.InvalidArgument("session cannot be nil")
	}
	if input.Session.ID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	key := r.sessionKey(input.Session.ID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check session existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("session %s not found", input.Session.ID)
	}

	input.Session.UpdatedAt = r.clock.Now().Unix()

	sessionJSON, err := json.Marshal(input.Session)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal session")
	}

	if err := r.client.Set(ctx, key, sessionJSON, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update session in Redis")
	}

	return &UpdateOutput{Session: input.Session}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	output, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	if err := r.client.Del(ctx, r.sessionKey(input.ID), r.nameKey(output.Session.Name)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete session from Redis")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) sessionKey(id string) string {
	return fmt.Sprintf("%s%s", sessionKeyPrefix, id)
}

func (r *redisRepository) nameKey(name string) string {
	return fmt.Sprintf("%s%s", nameKeyPrefix, name)
}
