package ident_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/joshuacasinadaptica/NexusPM/internal/ident"
)

func TestNewFormat(t *testing.T) {
	t.Parallel()

	id := ident.New()

	if len(id) != 7 {
		t.Errorf("New() = %q, want 7 chars", id)
	}

	const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

	for _, r := range id {
		if !strings.ContainsRune(alphabet, r) {
			t.Errorf("New() = %q contains %q outside the alphabet", id, r)
		}
	}
}

func TestUniqueNoCollision(t *testing.T) {
	t.Parallel()

	id, err := ident.Unique(func(string) bool { return false })
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}

	if len(id) != 7 {
		t.Errorf("Unique() = %q, want base ID with no suffix", id)
	}
}

func TestUniqueAppendsSuffixes(t *testing.T) {
	t.Parallel()

	taken := map[string]bool{}

	first, err := ident.Unique(func(id string) bool { return taken[id] })
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}

	taken[first] = true

	second, err := ident.Unique(func(id string) bool { return taken[id] })
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}

	if !strings.HasPrefix(second, first) || second != first+"a" {
		t.Errorf("second ID = %q, want %q", second, first+"a")
	}

	taken[second] = true

	third, err := ident.Unique(func(id string) bool { return taken[id] })
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}

	if third != first+"b" {
		t.Errorf("third ID = %q, want %q", third, first+"b")
	}
}

func TestUniqueSuffixCarry(t *testing.T) {
	t.Parallel()

	// Everything up to and including the "z" suffix is taken; the next free
	// slot is "za".
	id, err := ident.Unique(func(id string) bool {
		suffix := id[7:]

		return len(suffix) < 2
	})
	if err != nil {
		t.Fatalf("Unique() error = %v", err)
	}

	if !strings.HasSuffix(id, "za") {
		t.Errorf("Unique() = %q, want a %q suffix after exhausting single letters", id, "za")
	}
}

func TestUniqueGivesUp(t *testing.T) {
	t.Parallel()

	_, err := ident.Unique(func(string) bool { return true })
	if !errors.Is(err, ident.ErrGenerationFailed) {
		t.Fatalf("Unique() error = %v, want ErrGenerationFailed", err)
	}
}
