package webfinger

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDenylist lists origins known to never host webfinger. Skipping
// them saves a wasted round-trip per rel=me link on popular pages.
func DefaultDenylist() []string {
	return []string{
		"https://twitter.com",
		"https://instagram.com",
		"https://github.com",
	}
}

// denylistFile is the on-disk shape of a deny-list override file.
type denylistFile struct {
	// Deny holds URL prefixes rejected without a network call.
	Deny []string `yaml:"deny"`
}

// LoadDenylist reads extra deny-list prefixes from a YAML file and appends
// them to the defaults. An empty path returns just the defaults.
func LoadDenylist(path string) ([]string, error) {
	denylist := DefaultDenylist()
	if path == "" {
		return denylist, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deny-list file: %w", err)
	}

	var file denylistFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse deny-list yaml: %w", err)
	}

	return append(denylist, file.Deny...), nil
}
