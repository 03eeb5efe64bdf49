// Package ticket defines the support ticket entity.
package ticket

import (
	"errors"
	"fmt"
	"time"
)

// Ticket is a support request against a project. Tickets share the task
// priority scale but have no dependencies; their status is gated by the
// ticket workflow.
type Ticket struct {
	ID        string
	ProjectID string
	Title     string
	Status    string
	Priority  int
	Requester string
	Created   time.Time
}

// Priority bounds, same scale as tasks.
const (
	MinPriority     = 1
	MaxPriority     = 4
	DefaultPriority = 2
)

var (
	ErrTitleEmpty      = errors.New("ticket title cannot be empty")
	ErrInvalidPriority = errors.New("priority out of range")
)

// Validate checks the ticket's own fields.
func (t Ticket) Validate() error {
	if t.Title == "" {
		return ErrTitleEmpty
	}

	if t.Priority < MinPriority || t.Priority > MaxPriority {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPriority, t.Priority, MinPriority, MaxPriority)
	}

	return nil
}
