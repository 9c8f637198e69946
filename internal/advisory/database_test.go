package advisory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ancients-collective/cratewatch/internal/types"
)

func testAdvisories() []types.Advisory {
	return []types.Advisory{
		{ID: "RUSTSEC-2019-0012", Package: "rand", Date: "2019-07-04", Title: "Unaligned memory access"},
		{ID: "RUSTSEC-2020-0071", Package: "time", Date: "2020-11-18", Title: "Potential segfault"},
		{ID: "RUSTSEC-2021-0003", Package: "rand", Date: "2021-01-08", Title: "Buffer overflow"},
	}
}

func TestDatabase_ForPackage(t *testing.T) {
	db := NewDatabase(testAdvisories())

	randAdvs := db.ForPackage("rand")
	require.Len(t, randAdvs, 2)
	// Load order preserved within a crate.
	assert.Equal(t, "RUSTSEC-2019-0012", randAdvs[0].ID)
	assert.Equal(t, "RUSTSEC-2021-0003", randAdvs[1].ID)

	assert.Len(t, db.ForPackage("time"), 1)
	assert.Empty(t, db.ForPackage("ghost"))
}

func TestDatabase_Len(t *testing.T) {
	db := NewDatabase(testAdvisories())
	assert.Equal(t, 3, db.Len())
	assert.Len(t, db.All(), 3)
}

func TestOpenDirectory(t *testing.T) {
	dir := t.TempDir()
	writeAdvisory(t, dir, "rand.yaml", validAdvisory)

	db, errs := OpenDirectory(dir)
	require.NotNil(t, db)
	assert.Empty(t, errs)
	assert.Equal(t, 1, db.Len())
}

func TestOpenDirectory_EmptyIsError(t *testing.T) {
	db, errs := OpenDirectory(t.TempDir())
	assert.Nil(t, db)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[len(errs)-1].Error(), "no advisories found")
}
