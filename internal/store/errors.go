package store

import "errors"

var (
	// ErrSchemaVersion means the database was created by an incompatible
	// version of the tool.
	ErrSchemaVersion = errors.New("database schema version mismatch")

	// ErrProjectNotFound is returned when a project id or key resolves to
	// no row.
	ErrProjectNotFound = errors.New("project not found")

	// ErrTeamNotFound is returned when a team name resolves to no row.
	ErrTeamNotFound = errors.New("team not found")

	// ErrTaskNotFound is returned when a task id resolves to no row.
	ErrTaskNotFound = errors.New("task not found")

	// ErrTicketNotFound is returned when a ticket id resolves to no row.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrDuplicateKey is returned when a unique column (project key, team
	// name) is already taken.
	ErrDuplicateKey = errors.New("already exists")

	errStoreClosed = errors.New("store is not open")
)
