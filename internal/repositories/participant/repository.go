// Package participant provides the interface for participant persistence
package participant

//go:generate mockgen -destination=mock/mock_repository.go -package=participantmock github.com/tableforge/tableforge/internal/repositories/participant Repository

import (
	"context"

	"github.com/tableforge/tableforge/internal/entities"
)

// Repository defines the interface for participant persistence
type Repository interface {
	// Create stores a new participant and adds it to its session roster
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a participant by ID
	// Returns errors.NotFound if the participant doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing participant record
	// Returns errors.NotFound if the participant doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a participant and its roster membership
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)

	// ListBySession retrieves every participant attached to a session
	ListBySession(ctx context.Context, input ListBySessionInput) (*ListBySessionOutput, error)
}

// CreateInput defines the input for creating a participant
type CreateInput struct {
	Participant *entities.Participant
}

// CreateOutput defines the output for creating a participant
type CreateOutput struct {
	Participant *entities.Participant
}

// GetInput defines the input for getting a participant
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a participant
type GetOutput struct {
	Participant *entities.Participant
}

// UpdateInput defines the input for updating a participant
type UpdateInput struct {
	Participant *entities.Participant
}

// UpdateOutput defines the output for updating a participant
type UpdateOutput struct {
	Participant *entities.Participant
}

// DeleteInput defines the input for deleting a participant
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a participant
type DeleteOutput struct{}

// ListBySessionInput defines the input for listing session participants
type ListBySessionInput struct {
	SessionID string
}

// ListBySessionOutput defines the output for listing session participants
type ListBySessionOutput struct {
	Participants []*entities.Participant
}
