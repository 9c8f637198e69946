package advisory

import (
	"fmt"

	"github.com/ancients-collective/cratewatch/internal/types"
)

// Database is an in-memory index of advisories, queryable by crate name.
// Advisories keep their load order within each crate.
type Database struct {
	advisories []types.Advisory
	byPackage  map[string][]types.Advisory
}

// NewDatabase indexes a list of advisories.
func NewDatabase(advisories []types.Advisory) *Database {
	db := &Database{
		advisories: advisories,
		byPackage:  make(map[string][]types.Advisory),
	}
	for _, adv := range advisories {
		db.byPackage[adv.Package] = append(db.byPackage[adv.Package], adv)
	}
	return db
}

// OpenDirectory loads every advisory under dir into a Database. File-level
// load errors are returned alongside the database; the database contains
// whatever loaded cleanly. An empty database is an error — auditing against
// nothing silently reports every lockfile as clean.
func OpenDirectory(dir string) (*Database, []error) {
	loader := NewLoader()
	advisories, errs := loader.LoadDirectory(dir)
	if len(advisories) == 0 {
		errs = append(errs, fmt.Errorf("no advisories found in %q", dir))
		return nil, errs
	}
	return NewDatabase(advisories), errs
}

// ForPackage returns the advisories published for the given crate name.
func (db *Database) ForPackage(name string) []types.Advisory {
	return db.byPackage[name]
}

// All returns every advisory in load order.
func (db *Database) All() []types.Advisory {
	return db.advisories
}

// Len returns the number of advisories in the database.
func (db *Database) Len() int {
	return len(db.advisories)
}
