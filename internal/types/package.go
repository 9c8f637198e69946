// Package types defines shared type definitions used across all cratewatch packages.
package types

import (
	"fmt"
	"strings"
)

// Package is one pinned crate from a Cargo.lock file.
type Package struct {
	// Name is the crate name.
	Name string `toml:"name" json:"name"`

	// Version is the exact pinned version.
	Version string `toml:"version" json:"version"`

	// Source identifies the registry or repository the crate came from.
	// Empty for path dependencies such as workspace members.
	Source string `toml:"source" json:"source,omitempty"`

	// Checksum is the content hash recorded for registry crates.
	Checksum string `toml:"checksum" json:"checksum,omitempty"`

	// Dependencies lists this crate's direct dependencies as lockfile
	// dependency strings: "name", "name version", or "name version (source)".
	Dependencies []string `toml:"dependencies" json:"dependencies,omitempty"`
}

// Identity returns the string that makes a package unique within one
// lockfile: name, version, and source origin together.
func (p Package) Identity() string {
	if p.Source != "" {
		return fmt.Sprintf("%s %s (%s)", p.Name, p.Version, p.Source)
	}
	return p.Name + " " + p.Version
}

// String returns "name version", the display form used in tree output.
func (p Package) String() string {
	return p.Name + " " + p.Version
}

// DependencyRef is a parsed lockfile dependency string. Version and Source
// are empty when the reference omits them.
type DependencyRef struct {
	Name    string
	Version string
	Source  string
}

// ParseDependency splits a lockfile dependency string into its parts.
// Accepted forms: "name", "name version", "name version (source)".
func ParseDependency(s string) (DependencyRef, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		return DependencyRef{Name: fields[0]}, nil
	case 2:
		return DependencyRef{Name: fields[0], Version: fields[1]}, nil
	case 3:
		src := fields[2]
		if !strings.HasPrefix(src, "(") || !strings.HasSuffix(src, ")") {
			return DependencyRef{}, fmt.Errorf("malformed dependency source in %q", s)
		}
		return DependencyRef{
			Name:    fields[0],
			Version: fields[1],
			Source:  strings.TrimSuffix(strings.TrimPrefix(src, "("), ")"),
		}, nil
	default:
		return DependencyRef{}, fmt.Errorf("malformed dependency string %q", s)
	}
}
