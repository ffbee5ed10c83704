// Package gamelog provides the interface for the append-only session log
package gamelog

//go:generate mockgen -destination=mock/mock_repository.go -package=gamelogmock github.com/tableforge/tableforge/internal/repositories/gamelog Repository

import (
	"context"

	"github.com/tableforge/tableforge/internal/entities"
)

// Repository defines the interface for session log persistence
type Repository interface {
	// Append adds an entry to the end of a session's log
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// Tail retrieves the most recent entries in chronological order
	Tail(ctx context.Context, input TailInput) (*TailOutput, error)

	// Clear removes a session's entire log
	Clear(ctx context.Context, input ClearInput) (*ClearOutput, error)
}

// AppendInput defines the input for appending a log entry
type AppendInput struct {
	Entry *entities.LogEntry
}

// AppendOutput defines the output for appending a log entry
type AppendOutput struct {
	Entry *entities.LogEntry
}

// TailInput defines the input for reading the log tail
type TailInput struct {
	SessionID string

	// Limit caps how many trailing entries are returned; zero or
	// negative means everything
	Limit int
}

// TailOutput defines the output for reading the log tail
type TailOutput struct {
	Entries []*entities.LogEntry
}

// ClearInput defines the input for clearing a session log
type ClearInput struct {
	SessionID string
}

// ClearOutput defines the output for clearing a session log
type ClearOutput struct {
	EntriesRemoved int64
}
