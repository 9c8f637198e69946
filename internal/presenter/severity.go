package presenter

import "github.com/fatih/color"

// Severity selects the display color for a finding. Vulnerabilities render
// at critical severity, informational advisories at informational.
type Severity int

const (
	// SeverityCritical renders in red.
	SeverityCritical Severity = iota

	// SeverityInformational renders in yellow.
	SeverityInformational
)

// Color helpers — each returns a sprint function.
var (
	cRedBold    = color.New(color.FgRed, color.Bold).SprintFunc()
	cYellowBold = color.New(color.FgYellow, color.Bold).SprintFunc()
	cGreenBold  = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// bold returns the severity's bold sprint function, mapped once here so the
// vulnerability and warning paths cannot drift apart.
func (s Severity) bold() func(a ...interface{}) string {
	if s == SeverityInformational {
		return cYellowBold
	}
	return cRedBold
}
