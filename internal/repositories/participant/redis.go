package participant

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/tableforge/tableforge/internal/entities"
	"github.com/tableforge/tableforge/internal/errors"
	"github.com/tableforge/tableforge/internal/pkg/clock"
	redisclient "github.com/tableforge/tableforge/internal/redis"
)

const (
	// Key patterns: participant:{id}, session_participants:{session_id}
	participantKeyPrefix = "participant:"
	rosterKeyPrefix      = "session_participants:"
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

// NewRedisRepository creates a new Redis repository for participants
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
	if input.Participant == nil {
		return nil, errors.InvalidArgument("participant cannot be nil")
	}
	if input.Participant.ID == "" {
		return nil, errors.InvalidArgument("participant ID cannot be empty")
	}
	if input.Participant.SessionID == "" {
		return nil, errors.InvalidArgument("participant session ID cannot be empty")
	}

	input.Participant.LastSeen = r.clock.Now().Unix()

	participantJSON, err := json.Marshal(input.Participant)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal participant")
	}

	stored, err := r.client.SetNX(ctx, r.participantKey(input.Participant.ID), participantJSON, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store participant in Redis")
	}
	if !stored {
		return nil, errors.AlreadyExistsf("participant %s already exists", input.Participant.ID)
	}

	if err := r.client.SAdd(ctx, r.rosterKey(input.Participant.SessionID), input.Participant.ID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to add participant to session roster")
	}

	return &CreateOutput{Participant: input.Participant}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("participant ID cannot be empty")
	}

	participantJSON, err := r.client.Get(ctx, r.participantKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("participant %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get participant from Redis")
	}

	var participant entities.Participant
	if err := json.Unmarshal([]byte(participantJSON), &participant); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal participant")
	}

	return &GetOutput{Participant: &participant}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Participant == nil {
		return nil, errors.InvalidArgument("participant cannot be nil")
	}
	if input.Participant.ID == "" {
		return nil, errors.InvalidArgument("participant ID cannot be empty")
	}

	key := r.participantKey(input.Participant.ID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check participant existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("participant %s not found", input.Participant.ID)
	}

	participantJSON, err := json.Marshal(input.Participant)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal participant")
	}

	if err := r.client.Set(ctx, key, participantJSON, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update participant in Redis")
	}

	return &UpdateOutput{Participant: input.Participant}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("participant ID cannot be empty")
	}

	output, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	if err := r.client.SRem(ctx, r.rosterKey(output.Participant.SessionID), input.ID).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to remove participant from session roster")
	}

	if err := r.client.Del(ctx, r.participantKey(input.ID)).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete participant from Redis")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error) {
	if input.SessionID == "" {
		return nil, errors.InvalidArgument("session ID cannot be empty")
	}

	ids, err := r.client.SMembers(ctx, r.rosterKey(input.SessionID)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read session roster")
	}

	// Set members come back unordered
	sort.Strings(ids)

	participants := make([]*entities.Participant, 0, len(ids))
	for _, id := range ids {
		output, err := r.Get(ctx, GetInput{ID: id})
		if err != nil {
			// Roster entries can outlive their records briefly; skip
			// the hole rather than failing the whole listing
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		participants = append(participants, output.Participant)
	}

	return &ListBySessionOutput{Participants: participants}, nil
}

func (r *redisRepository) participantKey(id string) string {
	return fmt.Sprintf("%s%s", participantKeyPrefix, id)
}

func (r *redisRepository) rosterKey(sessionID string) string {
	return fmt.Sprintf("%s%s", rosterKeyPrefix, sessionID)
}
