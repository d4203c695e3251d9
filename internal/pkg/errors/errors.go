package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInputMissing means a required upstream fact does not exist yet
	// (e.g. no stat snapshot has been computed for the client).
	ErrInputMissing = errors.New("required input missing")
	// ErrWriteConflict means a version index was taken by a concurrent writer.
	ErrWriteConflict = errors.New("write conflict")
	// ErrSchemaViolation means a candidate payload failed validation.
	ErrSchemaViolation = errors.New("schema violation")
	// ErrCollaboratorDisabled means external generation is switched off.
	ErrCollaboratorDisabled = errors.New("collaborator disabled")
	// ErrCollaboratorTimeout means the external generation call ran out of time.
	ErrCollaboratorTimeout = errors.New("collaborator timeout")
	// ErrRetriesExhausted means the bounded append retry loop gave up.
	ErrRetriesExhausted = errors.New("retries exhausted")
)
