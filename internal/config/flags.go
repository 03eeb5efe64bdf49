package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Flags are the feature flags, loaded from a TOML file. A missing file means
// defaults; flags never change behavior mid-process (loaded once).
type Flags struct {
	Portal  PortalFlags `toml:"portal"`
	Tickets TicketFlags `toml:"tickets"`
}

// PortalFlags gate the read-only client portal.
type PortalFlags struct {
	Enabled       bool `toml:"enabled"`
	ShowAssignees bool `toml:"show_assignees"`
}

// TicketFlags gate the ticket subsystem.
type TicketFlags struct {
	Enabled bool `toml:"enabled"`
}

// DefaultFlags returns the flags used when no flags file is configured.
func DefaultFlags() Flags {
	return Flags{
		Portal:  PortalFlags{Enabled: true, ShowAssignees: false},
		Tickets: TicketFlags{Enabled: true},
	}
}

// LoadFlags reads feature flags from a TOML file. An empty path or a missing
// file yields the defaults.
func LoadFlags(path string) (Flags, error) {
	flags := DefaultFlags()

	if path == "" {
		return flags, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path comes from config
	if err != nil {
		if os.IsNotExist(err) {
			return flags, nil
		}

		return Flags{}, fmt.Errorf("reading flags file: %w", err)
	}

	err = toml.Unmarshal(data, &flags)
	if err != nil {
		return Flags{}, fmt.Errorf("flags file %s: %w", path, err)
	}

	return flags, nil
}
