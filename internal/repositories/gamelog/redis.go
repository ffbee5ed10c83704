package gamelog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	redisclient "github.com/tableforge/tableforge/internal/redis"
)

// Key pattern: game_log:{session_id}
const logKeyPrefix = "game_log:"

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

// NewRedisRepository creates a new Redis repository for session logs
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

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument("log entry cannot be nil")
	}
	if input.Entry.SessionID == "" {
		return nil, errors.InvalidArgument("log entry session ID cannot be empty")
	}

	if input.Entry.Timestamp == 0 {
		input.Entry.Timestamp = r.clock.Now().Unix()
	}

	entryJSON, err := json.Marshal(input.Entry)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal log entry")
	}

	if err := r.client.RPush(ctx, r.logKey(input.Entry.SessionID), entryJSON).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to append log entry in Redis")
	}

	return &AppendOutput{Entry: input.Entry}, nil
}

func (r *redisRepository) Tail(ctx context.Context, input TailInput) (*TailOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	start := int64(0)
	if input.Limit > 0 {
		start = int64(-input.Limit)
	}

	raw, err := r.client.LRange(ctx, r.logKey(input.SessionID), start, -1).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read log tail from Redis")
	}

	entries := make([]*entities.LogEntry, 0, len(raw))
	for _, entryJSON := range raw {
		var entry entities.LogEntry
		if err := json.Unmarshal([]byte(entryJSON), &entry); err != nil {
			return nil, errors.Wrapf(err, "failed to unmarshal log entry")
		}
		entries = append(entries, &entry)
	}

	return &TailOutput{Entries: entries}, nil
}

func (r *redisRepository) Clear(ctx context.Context, input ClearInput) (*ClearOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	key := r.logKey(input.SessionID)
	length, err := r.client.LLen(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to measure session log")
	}

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to clear session log in Redis")
	}

	return &ClearOutput{EntriesRemoved: length}, nil
}

func (r *redisRepository) logKey(sessionID string) string {
	return fmt.Sprintf("%s%s", logKeyPrefix, sessionID)
}
