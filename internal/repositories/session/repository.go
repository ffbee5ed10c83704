// Package session provides the interface for game session persistence
package session

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/tableforge/tableforge/internal/repositories/session Repository

import (
	"context"

	"github.com/tableforge/tableforge/internal/entities"
)

// Repository defines the interface for session persistence
type Repository interface {
	// Create stores a new session and claims its name
	// Returns errors.InvalidArgument for validation failures
	// Returns errors.AlreadyExists if the ID or name is already taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a session by ID
	// Returns errors.NotFound if the session doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// GetByName resolves a session through the name index
	// Returns errors.NotFound if no session has the name
	GetByName(ctx context.Context, input GetByNameInput) (*GetByNameOutput, error)

	// Update replaces an existing session record
	// Returns errors.NotFound if the session doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// Delete removes a session and releases its name
	// Returns errors.NotFound if the session doesn't exist
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}

// CreateInput defines the input for creating a session
type CreateInput struct {
	Session *entities.Session
}

// CreateOutput defines the output for creating a session
type CreateOutput struct {
	Session *entities.Session
}

// GetInput defines the input for getting a session
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a session
type GetOutput struct {
	Session *entities.Session
}

// GetByNameInput defines the input for resolving a session by name
type GetByNameInput struct {
	Name string
}

// GetByNameOutput defines the output for resolving a session by name
type GetByNameOutput struct {
	Session *entities.Session
}

// UpdateInput defines the input for updating a session
type UpdateInput struct {
	Session *entities.Session
}

// UpdateOutput defines the output for updating a session
type UpdateOutput struct {
	Session *entities.Session
}

// DeleteInput defines the input for deleting a session
type DeleteInput struct {
	ID string
}

// DeleteOutput defines the output for deleting a session
type DeleteOutput struct{}
