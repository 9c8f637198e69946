// Package presenter renders audit reports to an output stream, either as a
// verbatim JSON document or as a colored human report with deduplicated
// inverse dependency trees.
package presenter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ancients-collective/cratewatch/internal/depgraph"
	"github.com/ancients-collective/cratewatch/internal/lockfile"
	"github.com/ancients-collective/cratewatch/internal/types"
)

// attrLabelWidth is the fixed label field for attribute lines, e.g.
// "ID:      " / "Crate:   ".
const attrLabelWidth = 9

// Presenter writes one audit report to an output stream. Each presentation
// run needs its own Presenter: the displayed-package set must never be
// shared across runs, or legitimate tree output would be silently
// suppressed.
type Presenter struct {
	out    io.Writer
	config types.OutputConfig

	// displayed tracks package identities whose dependency tree has been
	// shown (or deliberately suppressed) during this run.
	displayed map[string]struct{}
}

// New creates a Presenter writing to out with the given configuration.
func New(out io.Writer, config types.OutputConfig) *Presenter {
	return &Presenter{
		out:       out,
		config:    config,
		displayed: make(map[string]struct{}),
	}
}

// BeforeScan prints the pre-audit status line naming the lockfile and its
// package count. Suppressed in quiet mode.
func (p *Presenter) BeforeScan(path string, lf *lockfile.Lockfile) error {
	if p.config.Quiet {
		return nil
	}
	return p.statusOK("Scanning", fmt.Sprintf("%s for vulnerabilities (%d crate dependencies)", path, lf.Len()))
}

// PresentReport renders the report. In JSON mode the report is serialized
// to the stream exactly as received and nothing else runs. In human mode it
// prints the verdict line, every finding in report order, the warning
// section, and the final count line.
//
// Any write failure is terminal: the error is returned immediately and the
// rest of the presentation is abandoned.
func (p *Presenter) PresentReport(report *types.Report, lf *lockfile.Lockfile) error {
	if p.config.Format == types.FormatJSON {
		enc := json.NewEncoder(p.out)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to serialize report: %w", err)
		}
		return nil
	}

	if report.Vulnerabilities.Found {
		if err := p.statusErr("Vulnerable crates found!"); err != nil {
			return err
		}
	} else {
		if err := p.statusOK("Success", "No vulnerable packages found"); err != nil {
			return err
		}
	}

	// A lockfile whose dependency data doesn't resolve is a precondition
	// violation, surfaced before any finding is processed.
	graph, err := lf.DependencyGraph()
	if err != nil {
		return fmt.Errorf("invalid lockfile dependency tree: %w", err)
	}

	for _, vuln := range report.Vulnerabilities.List {
		if err := p.printVulnerability(vuln, graph); err != nil {
			return err
		}
	}

	if len(report.Warnings) > 0 {
		if err := p.blankLine(); err != nil {
			return err
		}
		if err := p.statusWarn("found informational advisories for dependencies"); err != nil {
			return err
		}
		for _, warning := range report.Warnings {
			if err := p.printWarning(warning, graph); err != nil {
				return err
			}
		}
	}

	if report.Vulnerabilities.Found {
		if err := p.blankLine(); err != nil {
			return err
		}
		if report.Vulnerabilities.Count == 1 {
			return p.statusErr("1 vulnerability found!")
		}
		return p.statusErr(fmt.Sprintf("%d vulnerabilities found!", report.Vulnerabilities.Count))
	}

	return nil
}

// printVulnerability renders one vulnerability finding at critical severity.
func (p *Presenter) printVulnerability(vuln types.Vulnerability, graph *depgraph.Graph) error {
	if err := p.blankLine(); err != nil {
		return err
	}

	adv := vuln.Advisory
	attrs := []struct{ label, content string }{
		{"ID:", adv.ID},
		{"Crate:", vuln.Package.Name},
		{"Version:", vuln.Package.Version},
		{"Date:", adv.Date},
	}
	for _, attr := range attrs {
		if err := p.printAttr(SeverityCritical, attr.label, attr.content); err != nil {
			return err
		}
	}

	if err := p.printURL(SeverityCritical, adv); err != nil {
		return err
	}

	if err := p.printAttr(SeverityCritical, "Title:", adv.Title); err != nil {
		return err
	}
	if err := p.printAttr(SeverityCritical, "Solution: upgrade to", strings.Join(vuln.PatchedVersions, " OR ")); err != nil {
		return err
	}

	return p.displayTree(SeverityCritical, vuln.Package, graph)
}

// printWarning renders one informational finding. The title and date stay
// at critical color — warnings still flag the advisory text prominently.
func (p *Presenter) printWarning(warning types.Warning, graph *depgraph.Graph) error {
	if err := p.blankLine(); err != nil {
		return err
	}

	adv := warning.Advisory
	if err := p.printAttr(SeverityInformational, "Crate:", warning.Package.Name); err != nil {
		return err
	}
	if err := p.printAttr(SeverityCritical, "Title:", adv.Title); err != nil {
		return err
	}
	if err := p.printAttr(SeverityCritical, "Date:", adv.Date); err != nil {
		return err
	}

	if err := p.printURL(SeverityInformational, adv); err != nil {
		return err
	}

	return p.displayTree(SeverityInformational, warning.Package, graph)
}

// printURL renders the advisory's URL line: the canonical URL derived from
// the ID wins, the explicit url field is the fallback, and the line is
// omitted when neither exists.
func (p *Presenter) printURL(sev Severity, adv types.Advisory) error {
	url := adv.CanonicalURL()
	if url == "" {
		url = adv.URL
	}
	if url == "" {
		return nil
	}
	return p.printAttr(sev, "URL:", url)
}

// printAttr prints one bold, colored, labeled attribute line.
func (p *Presenter) printAttr(sev Severity, label, content string) error {
	if len(label) < attrLabelWidth {
		label = fmt.Sprintf("%-*s", attrLabelWidth, label)
	}
	if _, err := fmt.Fprintf(p.out, "%s %s\n", sev.bold()(label), content); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// displayTree renders the inverse dependency tree for a package, at most
// once per package identity across the whole run.
func (p *Presenter) displayTree(sev Severity, pkg types.Package, graph *depgraph.Graph) error {
	identity := pkg.Identity()
	if _, ok := p.displayed[identity]; ok {
		return nil
	}

	// Marked before the suppression check: a package skipped under
	// --no-tree stays marked, so later findings for it never draw a tree
	// either. Observable behavior, kept deliberately.
	p.displayed[identity] = struct{}{}

	if !p.config.TreeEnabled() {
		return nil
	}

	if err := p.printAttr(sev, "Dependency tree:", ""); err != nil {
		return err
	}

	node, ok := graph.NodeOf(pkg)
	if !ok {
		return fmt.Errorf("package %s not present in dependency tree", identity)
	}
	if err := graph.RenderIncoming(p.out, node); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// statusOK prints a green bold status label followed by a message.
func (p *Presenter) statusOK(label, msg string) error {
	if _, err := fmt.Fprintf(p.out, "%s %s\n", cGreenBold(label+":"), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// statusErr prints a red bold error status line.
func (p *Presenter) statusErr(msg string) error {
	if _, err := fmt.Fprintf(p.out, "%s %s\n", cRedBold("error:"), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// statusWarn prints a yellow bold warning status line.
func (p *Presenter) statusWarn(msg string) error {
	if _, err := fmt.Fprintf(p.out, "%s %s\n", cYellowBold("warning:"), msg); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (p *Presenter) blankLine() error {
	if _, err := fmt.Fprintln(p.out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
