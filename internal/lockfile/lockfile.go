// Package lockfile reads resolved dependency manifests in the Cargo.lock
// TOML format.
package lockfile

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ancients-collective/cratewatch/internal/depgraph"
	"github.com/ancients-collective/cratewatch/internal/types"
)

// Lockfile is a parsed Cargo.lock: a pinned set of packages with their
// resolved dependency edges.
type Lockfile struct {
	// Version is the lockfile format version. V1 files omit it.
	Version int `toml:"version"`

	// Packages holds every pinned package, in file order.
	Packages []types.Package `toml:"package"`
}

// Parse decodes a Cargo.lock document from r.
func Parse(r io.Reader) (*Lockfile, error) {
	var lf Lockfile
	if _, err := toml.NewDecoder(r).Decode(&lf); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile: %w", err)
	}
	for i, pkg := range lf.Packages {
		if pkg.Name == "" || pkg.Version == "" {
			return nil, fmt.Errorf("lockfile package entry %d is missing name or version", i+1)
		}
	}
	return &lf, nil
}

// Load reads and parses the Cargo.lock file at path.
func Load(path string) (*Lockfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	defer f.Close()

	lf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lf, nil
}

// Len returns the number of pinned packages.
func (l *Lockfile) Len() int {
	return len(l.Packages)
}

// PackageNamed returns the first package with the given name.
func (l *Lockfile) PackageNamed(name string) (types.Package, bool) {
	for _, pkg := range l.Packages {
		if pkg.Name == name {
			return pkg, true
		}
	}
	return types.Package{}, false
}

// DependencyGraph builds the dependency graph over this lockfile's
// packages. An error means the lockfile's dependency data is internally
// inconsistent.
func (l *Lockfile) DependencyGraph() (*depgraph.Graph, error) {
	return depgraph.New(l.Packages)
}
