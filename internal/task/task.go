// Package task defines the task entity and its field validation. Status
// changes and dependency edges are gated elsewhere (internal/workflow,
// internal/dependency); this package owns the data shape only.
package task

import (
	"errors"
	"fmt"
	"time"
)

// Task represents a unit of work inside a project.
type Task struct {
	ID        string
	ProjectID string
	Title     string
	Status    string
	Priority  int
	Assignee  string
	DependsOn []string
	StartsOn  string // YYYY-MM-DD, empty = unset
	DueOn     string // YYYY-MM-DD, empty = unset
	Created   time.Time
}

// Priority bounds.
const (
	MinPriority     = 1
	MaxPriority     = 4
	DefaultPriority = 2
)

// DateLayout is the on-disk and CLI format for task dates.
const DateLayout = "2006-01-02"

var (
	ErrTitleEmpty      = errors.New("task title cannot be empty")
	ErrInvalidPriority = errors.New("priority out of range")
	ErrInvalidDate     = errors.New("invalid date")
	ErrDueBeforeStart  = errors.New("due date before start date")
)

// IsValidPriority checks if priority is in valid range.
func IsValidPriority(p int) bool {
	return p >= MinPriority && p <= MaxPriority
}

// Validate checks the task's own fields. Status membership is the workflow
// checker's job and is deliberately not checked here.
func (t Task) Validate() error {
	if t.Title == "" {
		return ErrTitleEmpty
	}

	if !IsValidPriority(t.Priority) {
		return fmt.Errorf("%w: %d (want %d-%d)", ErrInvalidPriority, t.Priority, MinPriority, MaxPriority)
	}

	starts, err := parseDate(t.StartsOn)
	if err != nil {
		return err
	}

	due, err := parseDate(t.DueOn)
	if err != nil {
		return err
	}

	if !starts.IsZero() && !due.IsZero() && due.Before(starts) {
		return fmt.Errorf("%w: %s < %s", ErrDueBeforeStart, t.DueOn, t.StartsOn)
	}

	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (want YYYY-MM-DD)", ErrInvalidDate, s)
	}

	return parsed, nil
}
