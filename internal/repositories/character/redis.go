package character

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
	// Key patterns: character:{id}, character_by_participant:{participant_id}
	characterKeyPrefix = "character:"
	ownerKeyPrefix     = "character_by_participant:"
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

// NewRedisRepository creates a new Redis repository for characters
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
	if input.Character == nil {
		return nil, errors.InvalidArgument("character cannot be nil")
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if input.Character.ParticipantID == "" {
		return nil, errors.InvalidArgument("character participant ID cannot be empty")
	}

	now := r.clock.Now().Unix()
	input.Character.CreatedAt = now
	input.Character.UpdatedAt = now

	characterJSON, err := json.Marshal(input.Character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	stored, err := r.client.SetNX(ctx, r.characterKey(input.Character.ID), characterJSON, 0).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to store character in Redis")
	}
	if !stored {
		return nil, errors.AlreadyExistsf("character %s already exists", input.Character.ID)
	}

	if err := r.client.Set(ctx, r.ownerKey(input.Character.ParticipantID), input.Character.ID, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to index character by participant")
	}

	return &CreateOutput{Character: input.Character}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	characterJSON, err := r.client.Get(ctx, r.characterKey(input.ID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character %s not found", input.ID)
		}
		return nil, errors.Wrapf(err, "failed to get character from Redis")
	}

	var character entities.Character
	if err := json.Unmarshal([]byte(characterJSON), &character); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal character")
	}

	return &GetOutput{Character: &character}, nil
}

func (r *redisRepository) GetByParticipant(ctx context.Context, input GetByParticipantInput) (*GetByParticipantOutput, error) {
	if input.ParticipantID == "" {
		return nil, errors.InvalidArgument("participant ID cannot be empty")
	}

	id, err := r.client.Get(ctx, r.ownerKey(input.ParticipantID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("participant %s has no character", input.ParticipantID)
		}
		return nil, errors.Wrapf(err, "failed to resolve character owner index")
	}

	output, err := r.Get(ctx, GetInput{ID: id})
	if err != nil {
		return nil, err
	}

	return &GetByParticipantOutput{Character: output.Character}, nil
}

func (r *redisRepository) Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error) {
	if input.Character == nil {
		return nil, errors.InvalidArgument("character cannot be nil")
	}
	if input.Character.ID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	key := r.characterKey(input.Character.ID)
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to check character existence")
	}
	if exists == 0 {
		return nil, errors.NotFoundf("character %s not found", input.Character.ID)
	}

	input.Character.UpdatedAt = r.clock.Now().Unix()

	characterJSON, err := json.Marshal(input.Character)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal character")
	}

	if err := r.client.Set(ctx, key, characterJSON, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to update character in Redis")
	}

	return &UpdateOutput{Character: input.Character}, nil
}

func (r *redisRepository) UpdateFields(ctx context.Context, input UpdateFieldsInput) (*UpdateFieldsOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	output, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	character := output.Character
	if input.Patch.Position != nil {
		character.Position = *input.Patch.Position
	}
	if input.Patch.HP != nil {
		character.HP = *input.Patch.HP
	}
	if input.Patch.TempHP != nil {
		character.TempHP = *input.Patch.TempHP
	}
	if input.Patch.IsAlive != nil {
		character.IsAlive = *input.Patch.IsAlive
	}
	if input.Patch.Inventory != nil {
		character.Inventory = *input.Patch.Inventory
	}
	if input.Patch.Equipment != nil {
		character.Equipment = *input.Patch.Equipment
	}

	updated, err := r.Update(ctx, UpdateInput{Character: character})
	if err != nil {
		return nil, err
	}

	return &UpdateFieldsOutput{Character: updated.Character}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}

	output, err := r.Get(ctx, GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}

	keys := []string{r.characterKey(input.ID), r.ownerKey(output.Character.ParticipantID)}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to delete character from Redis")
	}

	return &DeleteOutput{}, nil
}

func (r *redisRepository) characterKey(id string) string {
	return fmt.Sprintf("%s%s", characterKeyPrefix, id)
}

func (r *redisRepository) ownerKey(participantID string) string {
	return fmt.Sprintf("%s%s", ownerKeyPrefix, participantID)
}
