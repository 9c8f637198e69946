package types

import "strings"

// Advisory is a published security advisory loaded from a YAML file in the
// advisory database. Validation tags are enforced by the advisory loader.
type Advisory struct {
	// ID is the unique advisory identifier (RUSTSEC-, CVE-, or GHSA-shaped).
	ID string `yaml:"id" json:"id" validate:"required,advisory_id"`

	// Package is the name of the crate this advisory applies to.
	Package string `yaml:"package" json:"package" validate:"required"`

	// Date is the disclosure date in YYYY-MM-DD form. Kept as a string so
	// it round-trips through reports exactly as published.
	Date string `yaml:"date" json:"date" validate:"required,advisory_date"`

	// Title is a one-line summary of the issue.
	Title string `yaml:"title" json:"title" validate:"required,min=3,max=200"`

	// Description explains the issue in detail.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// URL is an explicit advisory link. Only used when the ID has no
	// canonical URL of its own.
	URL string `yaml:"url,omitempty" json:"url,omitempty" validate:"omitempty,url"`

	// Severity indicates the importance of the issue.
	Severity string `yaml:"severity,omitempty" json:"severity,omitempty" validate:"omitempty,oneof=info low medium high critical"`

	// Informational marks advisories that are warnings rather than
	// vulnerabilities (e.g. an unmaintained crate).
	Informational string `yaml:"informational,omitempty" json:"informational,omitempty" validate:"omitempty,oneof=notice unmaintained unsound"`

	// Patched lists version requirements in which the issue is fixed.
	Patched []string `yaml:"patched,omitempty" json:"patched,omitempty"`

	// Unaffected lists version requirements that were never affected.
	Unaffected []string `yaml:"unaffected,omitempty" json:"unaffected,omitempty"`

	// Aliases lists equivalent identifiers in other databases.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// Keywords are freeform labels for filtering and organization.
	Keywords []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
}

// CanonicalURL returns the advisory page implied by the ID family, or ""
// when the ID has no canonical home. Renderers prefer this over the
// explicit URL field.
func (a Advisory) CanonicalURL() string {
	switch {
	case strings.HasPrefix(a.ID, "RUSTSEC-"):
		return "https://rustsec.org/advisories/" + a.ID + ".html"
	case strings.HasPrefix(a.ID, "CVE-"):
		return "https://nvd.nist.gov/vuln/detail/" + a.ID
	case strings.HasPrefix(a.ID, "GHSA-"):
		return "https://github.com/advisories/" + a.ID
	}
	return ""
}

// IsInformational reports whether this advisory produces a warning instead
// of a vulnerability.
func (a Advisory) IsInformational() bool {
	return a.Informational != ""
}
