// Package audit matches lockfile packages against an advisory database and
// assembles the scan report.
package audit

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/ancients-collective/cratewatch/internal/advisory"
	"github.com/ancients-collective/cratewatch/internal/lockfile"
	"github.com/ancients-collective/cratewatch/internal/types"
)

// Auditor matches packages against a fixed advisory database.
type Auditor struct {
	db *advisory.Database
}

// New creates an Auditor over the given database.
func New(db *advisory.Database) *Auditor {
	return &Auditor{db: db}
}

// Audit checks every package in the lockfile against the database and
// returns the report. Findings are ordered by lockfile package order, then
// by database advisory order — the presenter never re-sorts them.
func (a *Auditor) Audit(lf *lockfile.Lockfile) (*types.Report, error) {
	return a.audit(lf, "")
}

// AuditPackage audits only the lockfile packages with the given crate name.
func (a *Auditor) AuditPackage(lf *lockfile.Lockfile, name string) (*types.Report, error) {
	return a.audit(lf, name)
}

func (a *Auditor) audit(lf *lockfile.Lockfile, only string) (*types.Report, error) {
	report := &types.Report{
		Vulnerabilities: types.VulnerabilityList{List: []types.Vulnerability{}},
		Warnings:        []types.Warning{},
	}

	for _, pkg := range lf.Packages {
		if only != "" && pkg.Name != only {
			continue
		}

		for _, adv := range a.db.ForPackage(pkg.Name) {
			affected, err := isAffected(pkg, adv)
			if err != nil {
				return nil, err
			}
			if !affected {
				continue
			}

			if adv.IsInformational() {
				report.Warnings = append(report.Warnings, types.Warning{
					Advisory: adv,
					Package:  pkg,
				})
				continue
			}

			report.Vulnerabilities.List = append(report.Vulnerabilities.List, types.Vulnerability{
				Advisory:        adv,
				Package:         pkg,
				PatchedVersions: adv.Patched,
			})
		}
	}

	report.Vulnerabilities.Count = len(report.Vulnerabilities.List)
	report.Vulnerabilities.Found = report.Vulnerabilities.Count > 0

	return report, nil
}

// isAffected reports whether the package version is hit by the advisory:
// it must satisfy none of the patched and none of the unaffected
// requirements.
func isAffected(pkg types.Package, adv types.Advisory) (bool, error) {
	version, err := semver.NewVersion(pkg.Version)
	if err != nil {
		return false, fmt.Errorf("package %s: invalid version %q: %w", pkg.Name, pkg.Version, err)
	}

	for _, set := range [2][]string{adv.Patched, adv.Unaffected} {
		for _, req := range set {
			constraint, err := semver.NewConstraint(req)
			if err != nil {
				return false, fmt.Errorf("advisory %s: invalid version requirement %q: %w", adv.ID, req, err)
			}
			if constraint.Check(version) {
				return false, nil
			}
		}
	}

	return true, nil
}
