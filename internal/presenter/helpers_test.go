package presenter

import (
	"github.com/ancients-collective/cratewatch/internal/lockfile"
	"github.com/ancients-collective/cratewatch/internal/types"
)

const registry = "registry+https://github.com/rust-lang/crates.io-index"

// newTestLockfile builds a small lockfile with one workspace member and
// three registry crates. rand is reachable both directly and through
// tempfile, so its inverse tree has two branches.
func newTestLockfile() *lockfile.Lockfile {
	return &lockfile.Lockfile{
		Version: 3,
		Packages: []types.Package{
			{
				Name:    "app",
				Version: "0.1.0",
				Dependencies: []string{
					"rand",
					"tempfile",
					"time",
				},
			},
			{
				Name:    "rand",
				Version: "0.6.5",
				Source:  registry,
			},
			{
				Name:         "tempfile",
				Version:      "3.1.0",
				Source:       registry,
				Dependencies: []string{"rand"},
			},
			{
				Name:    "time",
				Version: "0.1.42",
				Source:  registry,
			},
		},
	}
}

func testPackage(lf *lockfile.Lockfile, name string) types.Package {
	pkg, ok := lf.PackageNamed(name)
	if !ok {
		panic("fixture package missing: " + name)
	}
	return pkg
}

// newRandAdvisory is a representative vulnerability advisory.
func newRandAdvisory() types.Advisory {
	return types.Advisory{
		ID:      "RUSTSEC-2019-0012",
		Package: "rand",
		Date:    "2019-07-04",
		Title:   "Unaligned memory access in rand_core",
		Patched: []string{">=0.7.0"},
	}
}

// newTimeAdvisory is a second vulnerability advisory with two patched ranges.
func newTimeAdvisory() types.Advisory {
	return types.Advisory{
		ID:      "RUSTSEC-2020-0071",
		Package: "time",
		Date:    "2020-11-18",
		Title:   "Potential segfault in the time crate",
		Patched: []string{">=0.2.23", "1.2.3"},
	}
}

// newTempfileWarning is an informational advisory.
func newTempfileWarning() types.Advisory {
	return types.Advisory{
		ID:            "RUSTSEC-2021-0400",
		Package:       "tempfile",
		Date:          "2021-03-01",
		Title:         "tempfile is unmaintained",
		Informational: "unmaintained",
	}
}

// newVulnReport builds a report with vulnerabilities for rand and time.
func newVulnReport(lf *lockfile.Lockfile) *types.Report {
	randVuln := types.Vulnerability{
		Advisory:        newRandAdvisory(),
		Package:         testPackage(lf, "rand"),
		PatchedVersions: []string{">=0.7.0"},
	}
	timeVuln := types.Vulnerability{
		Advisory:        newTimeAdvisory(),
		Package:         testPackage(lf, "time"),
		PatchedVersions: []string{">=0.2.23", "1.2.3"},
	}
	return &types.Report{
		Vulnerabilities: types.VulnerabilityList{
			Found: true,
			Count: 2,
			List:  []types.Vulnerability{randVuln, timeVuln},
		},
		Warnings: []types.Warning{},
	}
}

// newCleanReport builds a report with no findings.
func newCleanReport() *types.Report {
	return &types.Report{
		Vulnerabilities: types.VulnerabilityList{List: []types.Vulnerability{}},
		Warnings:        []types.Warning{},
	}
}
