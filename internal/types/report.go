package types

// Report is the complete result of auditing one lockfile against the
// advisory database. It is serialized directly to JSON for --format=json.
type Report struct {
	// Vulnerabilities holds the vulnerability findings and their count.
	Vulnerabilities VulnerabilityList `json:"vulnerabilities"`

	// Warnings holds informational findings, in audit order.
	Warnings []Warning `json:"warnings"`
}

// VulnerabilityList groups the vulnerability findings of a report.
type VulnerabilityList struct {
	// Found is true when at least one vulnerability was matched.
	Found bool `json:"found"`

	// Count is the number of vulnerabilities in List.
	Count int `json:"count"`

	// List holds the findings, in audit order.
	List []Vulnerability `json:"list"`
}

// Vulnerability is one advisory matched against one lockfile package.
type Vulnerability struct {
	// Advisory is the matched advisory.
	Advisory Advisory `json:"advisory"`

	// Package is the affected lockfile package.
	Package Package `json:"package"`

	// PatchedVersions lists the version requirements that fix the issue.
	PatchedVersions []string `json:"patched_versions"`
}

// Warning is an informational advisory matched against a lockfile package.
type Warning struct {
	// Advisory is the matched advisory.
	Advisory Advisory `json:"advisory"`

	// Package is the affected lockfile package.
	Package Package `json:"package"`
}
