// Package errors provides structured error handling for the session server.
//
// Errors carry a code, a user-facing message, an optional cause, and
// optional metadata:
//
//	err := errors.NotFound("game not found")
//	err := errors.InvalidArgumentf("position (%d, %d) is out of bounds", x, y)
//
// Adding metadata:
//
//	err := errors.NotFound("game not found").
//	    WithMeta("game_name", name)
//
// Wrapping errors:
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return errors.Wrap(err, "failed to load session")
//	}
//
// Checking errors:
//
//	if errors.IsNotFound(err) {
//	    // handle missing session
//	}
//
// The broadcast layer converts any error into a user-visible `error`
// event via EventPayload.
//
// Layer guidelines:
//   - Repositories return NotFound/AlreadyExists and wrap store failures.
//   - The registry validates inputs (InvalidArgument), checks preconditions
//     (FailedPrecondition, ResourceExhausted for full sessions), and wraps
//     repository errors with business context.
//   - The broadcast layer maps errors to the originating connection only.
package errors
