package project_test

import (
	"errors"
	"testing"

	"github.com/joshuacasinadaptica/NexusPM/internal/project"
)

func TestValidateKey(t *testing.T) {
	t.Parallel()

	valid := []string{"ab", "web", "backend-api", "a1", "proj-2026", "abcdefghijklmnop"}

	for _, key := range valid {
		if err := project.ValidateKey(key); err != nil {
			t.Errorf("ValidateKey(%q) error = %v, want nil", key, err)
		}
	}

	invalid := []string{
		"",                  // empty
		"a",                 // too short
		"abcdefghijklmnopq", // too long
		"Web",               // uppercase
		"my_project",        // underscore
		"my project",        // space
		"1web",              // digit start
		"-web",              // dash start
		"wéb",               // non-ascii
	}

	for _, key := range invalid {
		if err := project.ValidateKey(key); err == nil {
			t.Errorf("ValidateKey(%q) = nil, want error", key)
		}
	}
}

func TestValidateKeySentinel(t *testing.T) {
	t.Parallel()

	err := project.ValidateKey("A")
	if !errors.Is(err, project.ErrKeyInvalid) {
		t.Errorf("ValidateKey error = %v, want ErrKeyInvalid", err)
	}
}
