package types

// OutputFormat selects how a report is rendered.
type OutputFormat string

const (
	// FormatHuman renders colored status lines and dependency trees.
	FormatHuman OutputFormat = "text"

	// FormatJSON serializes the report verbatim as a single JSON document.
	FormatJSON OutputFormat = "json"
)

// OutputConfig controls report presentation. It is owned by the CLI and
// consumed by the presenter.
type OutputConfig struct {
	// Format selects human or machine output.
	Format OutputFormat

	// Quiet suppresses the pre-scan status line.
	Quiet bool

	// ShowTree controls inverse dependency tree display.
	// nil means the default: show trees.
	ShowTree *bool
}

// TreeEnabled resolves the ShowTree default.
func (c OutputConfig) TreeEnabled() bool {
	return c.ShowTree == nil || *c.ShowTree
}
