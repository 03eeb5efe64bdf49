// Package ident generates lexicographically sortable entity IDs.
package ident

import (
	"encoding/base32"
	"errors"
	"time"
)

// crockfordBase32 is a sortable base32 alphabet (digits before letters).
const crockfordBase32 = "0123456789abcdefghjkmnpqrstvwxyz"

var crockfordEncoding = base32.NewEncoding(crockfordBase32).WithPadding(base32.NoPadding)

const (
	timestampBytes  = 4
	byteMask        = 0xFF
	maxSuffixLength = 4
)

// ErrGenerationFailed is returned when no free ID can be found.
var ErrGenerationFailed = errors.New("failed to generate unique ID")

// New creates a sortable ID: Unix seconds encoded in Crockford's base32
// (7 chars). Works until 2106.
func New() string {
	sec := time.Now().Unix()

	buf := make([]byte, timestampBytes)
	for i := timestampBytes - 1; i >= 0; i-- {
		buf[i] = byte(sec & byteMask)
		sec >>= 8
	}

	return crockfordEncoding.EncodeToString(buf)
}

// Unique generates an ID that exists reports false for. On collision,
// letter suffixes are appended (a, b, ..., z, za, zb, ...).
func Unique(exists func(id string) bool) (string, error) {
	base := New()

	if !exists(base) {
		return base, nil
	}

	suffix := ""

	for {
		suffix = nextSuffix(suffix)
		candidate := base + suffix

		if !exists(candidate) {
			return candidate, nil
		}

		// Safety limit to prevent infinite loop
		if len(suffix) > maxSuffixLength {
			return "", ErrGenerationFailed
		}
	}
}

// nextSuffix increments a suffix like base-26: "" -> "a", "a" -> "b", ..., "z" -> "za".
func nextSuffix(suffix string) string {
	if suffix == "" {
		return "a"
	}

	runes := []rune(suffix)

	for idx := len(runes) - 1; idx >= 0; idx-- {
		if runes[idx] < 'z' {
			runes[idx]++

			return string(runes)
		}

		// Current char is 'z', reset to 'a' and continue carry
		runes[idx] = 'a'
	}

	// All chars were 'z', append 'a' (e.g., "z" -> "za", "zz" -> "zza")
	return suffix + "a"
}
