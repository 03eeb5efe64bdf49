// Package project defines the project, team and member entities.
package project

import (
	"errors"
	"fmt"
	"time"
)

// Project owns a collection of tasks and tickets.
type Project struct {
	ID          string
	Key         string // short user-chosen slug, unique
	Name        string
	Description string
	Created     time.Time
}

// Team groups members and can be assigned to projects.
type Team struct {
	ID      string
	Name    string
	Created time.Time
}

// Member is a person that can belong to teams and be assigned tasks.
type Member struct {
	ID      string
	Name    string
	Role    string
	Created time.Time
}

const (
	minKeyLength = 2
	maxKeyLength = 16
)

var (
	ErrKeyInvalid  = errors.New("project key must be 2-16 lowercase letters, digits or dashes")
	ErrNameEmpty   = errors.New("name cannot be empty")
	errKeyBadStart = errors.New("project key must start with a letter")
)

// ValidateKey checks a user-chosen project key.
func ValidateKey(key string) error {
	if len(key) < minKeyLength || len(key) > maxKeyLength {
		return fmt.Errorf("%w: %q", ErrKeyInvalid, key)
	}

	for i, r := range key {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9', r == '-':
			if i == 0 {
				return fmt.Errorf("%w: %q", errKeyBadStart, key)
			}
		default:
			return fmt.Errorf("%w: %q", ErrKeyInvalid, key)
		}
	}

	return nil
}
