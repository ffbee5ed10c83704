// Package character provides the interface for character sheet persistence
package character

//go:generate mockgen -destination=mock/mock_repository.go -package=charactermock github.com/tableforge/tableforge/internal/repositories/character Repository

import (
	"context"

	"github.com/tableforge/tableforge/internal/entities"
)

// Repository defines the interface for character persistence
type Repository interface {
	// Create stores a new character sheet and indexes it by owner
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a character by ID
	// Returns errors.NotFound if the character doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByParticipant retrieves the character owned by a participant
	// Returns errors.NotFound if the participant has no character
	GetByParticipant(ctx context.Context, input GetByParticipantInput) (*GetByParticipantOutput, error)

	// Update replaces an existing character record
	// Returns errors.NotFound if the character doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// UpdateFields applies a partial patch to an existing character,
	// touching only the fields the patch names
	UpdateFields(ctx context.Context, input UpdateFieldsInput) (*UpdateFieldsOutput, error)

	// Delete removes a character and its owner index
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a character
type CreateInput struct {
	Character *entities.Character
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// GetByParticipantInput defines the input for the owner lookup
type GetByParticipantInput struct {
	ParticipantID string
}

// GetByParticipantOutput defines the output for the owner lookup
type GetByParticipantOutput struct {
	Character *entities.Character
}

// UpdateInput defines the input for updating a character
type UpdateInput struct {
	Character *entities.Character
}

// UpdateOutput defines the output for updating a character
type UpdateOutput struct {
	Character *entities.Character
}

// Patch names the character fields to overwrite; nil fields are left
// untouched
type Patch struct {
	Position  *entities.Position
	HP        *int32
	TempHP    *int32
	IsAlive   *bool
	Inventory *[]string
	Equipment *[]string
}

// UpdateFieldsInput defines the input for a partial update
type UpdateFieldsInput struct {
	ID    string
	Patch Patch
}

// UpdateFieldsOutput defines the output for a partial update
type UpdateFieldsOutput struct {
	Character *entities.Character
}

// DeleteInput defines the input for deleting a character
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a character
type DeleteOutput struct{}
