// Package main is the entry point for cratewatch, a Cargo.lock dependency
// auditor.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/ancients-collective/cratewatch/internal/advisory"
	"github.com/ancients-collective/cratewatch/internal/audit"
	"github.com/ancients-collective/cratewatch/internal/lockfile"
	"github.com/ancients-collective/cratewatch/internal/presenter"
	"github.com/ancients-collective/cratewatch/internal/types"
)

// version is set at build time via -ldflags. The default is a dev fallback
// for plain `go install` or `go run` usage.
var version = "0.3.1"

// Config holds all parsed CLI flag values.
type Config struct {
	Lockfile   string
	DBDir      string
	Format     string
	NoColor    bool
	OutputFile string
	Quiet      bool
	NoTree     bool
	Package    string
	Validate   string
	ListAdv    bool
	Version    bool
}

// parseFlags parses command-line arguments into a Config using a dedicated
// FlagSet, keeping the global flag.CommandLine clean for testability.
func parseFlags(args []string) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("cratewatch", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.Lockfile, "lockfile", "./Cargo.lock", "Path to the Cargo.lock file to audit")
	fs.StringVar(&cfg.Lockfile, "l", "./Cargo.lock", "Path to the Cargo.lock file (shorthand)")
	fs.StringVar(&cfg.DBDir, "db", "./advisory-db", "Path to the advisory database directory")
	fs.StringVar(&cfg.DBDir, "d", "./advisory-db", "Path to the advisory database directory (shorthand)")
	fs.StringVar(&cfg.Format, "format", "text", "Output format: text, json")
	fs.StringVar(&cfg.Format, "f", "text", "Output format (shorthand)")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write output to file (default: stdout)")
	fs.StringVar(&cfg.OutputFile, "o", "", "Write output to file (shorthand)")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress status output, exit code only (0 = clean, 1 = vulnerabilities, 2 = errors)")
	fs.BoolVar(&cfg.Quiet, "q", false, "Suppress status output (shorthand)")
	fs.BoolVar(&cfg.NoTree, "no-tree", false, "Skip inverse dependency trees in the report")
	fs.StringVar(&cfg.Package, "package", "", "Audit a single crate by name")
	fs.StringVar(&cfg.Validate, "validate", "", "Validate advisory YAML file(s) without auditing (file or directory)")
	fs.BoolVar(&cfg.ListAdv, "list-advisories", false, "List all advisory IDs in the database and exit")
	fs.BoolVar(&cfg.Version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "\n  cratewatch v%s — audit Cargo.lock files against a security advisory database\n", version)
		fmt.Fprintf(os.Stderr, "\n  Usage: cratewatch [options]\n\n")
		fmt.Fprintf(os.Stderr, "  Options:\n")
		fmt.Fprintf(os.Stderr, "    -l,  --lockfile <path>    Cargo.lock to audit (default: ./Cargo.lock)\n")
		fmt.Fprintf(os.Stderr, "    -d,  --db <dir>           Advisory database directory (default: ./advisory-db)\n")
		fmt.Fprintf(os.Stderr, "    -f,  --format <type>      Output format: text, json (default: text)\n")
		fmt.Fprintf(os.Stderr, "         --no-color           Disable colored output\n")
		fmt.Fprintf(os.Stderr, "    -o,  --output <file>      Write output to file (default: stdout)\n")
		fmt.Fprintf(os.Stderr, "    -q,  --quiet              Suppress status output, exit code only (0/1/2)\n")
		fmt.Fprintf(os.Stderr, "         --no-tree            Skip inverse dependency trees\n")
		fmt.Fprintf(os.Stderr, "         --package <name>     Audit a single crate by name\n")
		fmt.Fprintf(os.Stderr, "         --validate <path>    Validate advisory YAML without auditing\n")
		fmt.Fprintf(os.Stderr, "         --list-advisories    List all advisory IDs and exit\n")
		fmt.Fprintf(os.Stderr, "         --version            Print version and exit\n")
		fmt.Fprintf(os.Stderr, "\n  Examples:\n")
		fmt.Fprintf(os.Stderr, "    cratewatch                                Audit ./Cargo.lock\n")
		fmt.Fprintf(os.Stderr, "    cratewatch -l path/to/Cargo.lock          Audit a specific lockfile\n")
		fmt.Fprintf(os.Stderr, "    cratewatch --format json                  JSON for tooling integration\n")
		fmt.Fprintf(os.Stderr, "    cratewatch --format json -o audit.json    Write JSON to file\n")
		fmt.Fprintf(os.Stderr, "    cratewatch --no-tree                      Findings without dependency trees\n")
		fmt.Fprintf(os.Stderr, "    cratewatch --package openssl              Audit one crate only\n")
		fmt.Fprintf(os.Stderr, "    cratewatch --validate ./advisory-db       Validate advisories without running\n")
		fmt.Fprintf(os.Stderr, "    cratewatch -q && echo clean               Scripting with exit code\n")
		fmt.Fprintf(os.Stderr, "\n")
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	os.Exit(run(cfg))
}

// run executes the audit with the given configuration and returns an exit
// code: 0 = clean, 1 = vulnerabilities found, 2 = errors.
func run(cfg *Config) int {
	if cfg.Version {
		fmt.Fprintf(os.Stdout, "cratewatch %s\n", version)
		return 0
	}

	// Handle --validate early
	if cfg.Validate != "" {
		return handleValidate(cfg.Validate)
	}

	if code := validateFlags(cfg); code >= 0 {
		return code
	}

	setupColor(cfg)

	db, code := openDatabase(cfg)
	if code >= 0 {
		return code
	}

	if cfg.ListAdv {
		printAdvisoryList(db)
		return 0
	}

	lf, err := lockfile.Load(cfg.Lockfile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		return 2
	}

	// --package filter, with did-you-mean on typos
	if cfg.Package != "" {
		if _, ok := lf.PackageNamed(cfg.Package); !ok {
			fmt.Fprintf(os.Stderr, "  ✗ No crate named %q in %s\n", cfg.Package, cfg.Lockfile)
			if suggestions := suggestPackages(cfg.Package, lf.Packages); len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "\n  Did you mean:\n")
				for _, s := range suggestions {
					fmt.Fprintf(os.Stderr, "    • %s\n", s)
				}
			}
			return 2
		}
	}

	w := os.Stdout
	if cfg.OutputFile != "" {
		if err := validateOutputPath(cfg.OutputFile); err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Unsafe output path: %v\n", err)
			return 2
		}
		f, err := os.Create(cfg.OutputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  ✗ Failed to create output file: %v\n", err)
			return 2
		}
		defer f.Close()
		w = f
	}

	pres := presenter.New(w, outputConfig(cfg))

	if err := pres.BeforeScan(cfg.Lockfile, lf); err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		return 2
	}

	auditor := audit.New(db)
	var report *types.Report
	if cfg.Package != "" {
		report, err = auditor.AuditPackage(lf, cfg.Package)
	} else {
		report, err = auditor.Audit(lf)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Audit failed: %v\n", err)
		return 2
	}

	if err := pres.PresentReport(report, lf); err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		return 2
	}

	if report.Vulnerabilities.Found {
		return 1
	}
	return 0
}

// validateFlags checks --format. Returns -1 if valid, or an exit code.
func validateFlags(cfg *Config) int {
	switch cfg.Format {
	case "text", "json":
	default:
		fmt.Fprintf(os.Stderr, "  ✗ Invalid --format value %q (must be text or json)\n", cfg.Format)
		return 2
	}
	return -1
}

// setupColor disables colored output for machine formats, files, and
// non-terminal stdout.
func setupColor(cfg *Config) {
	if cfg.NoColor || cfg.Format != "text" || cfg.OutputFile != "" {
		color.NoColor = true
		return
	}
	if fd := int(os.Stdout.Fd()); !term.IsTerminal(fd) {
		color.NoColor = true
	}
}

// outputConfig maps CLI flags to the presenter's configuration. JSON mode
// implies quiet: the document on stdout must not be preceded by status
// lines.
func outputConfig(cfg *Config) types.OutputConfig {
	oc := types.OutputConfig{
		Format: types.OutputFormat(cfg.Format),
		Quiet:  cfg.Quiet || cfg.Format == "json",
	}
	if cfg.NoTree {
		showTree := false
		oc.ShowTree = &showTree
	}
	return oc
}

// openDatabase loads the advisory database, reporting per-file load errors
// as warnings. Returns -1 as code on success.
func openDatabase(cfg *Config) (*advisory.Database, int) {
	db, errs := advisory.OpenDirectory(cfg.DBDir)
	if !cfg.Quiet {
		for _, e := range errs {
			if db != nil {
				fmt.Fprintf(os.Stderr, "  ⚠ Advisory load error: %v\n", e)
			}
		}
	}
	if db == nil {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  ✗ %v\n", e)
		}
		return nil, 2
	}
	return db, -1
}

// printAdvisoryList prints a formatted table of advisory IDs.
func printAdvisoryList(db *advisory.Database) {
	advisories := db.All()

	maxID := 0
	for _, a := range advisories {
		if len(a.ID) > maxID {
			maxID = len(a.ID)
		}
	}

	fmt.Fprintf(os.Stdout, "\n  Advisories (%d):\n\n", len(advisories))
	for _, a := range advisories {
		kind := a.Severity
		if a.IsInformational() {
			kind = a.Informational
		}
		fmt.Fprintf(os.Stdout, "    %-*s  %-12s  %s\n", maxID, a.ID, kind, a.Package)
	}
	fmt.Fprintln(os.Stdout)
}

// handleValidate validates advisory YAML files without auditing anything.
// Returns an exit code (0 = success, 2 = validation errors).
func handleValidate(path string) int {
	loader := advisory.NewLoader()

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ Cannot access %q: %v\n", path, err)
		return 2
	}

	if info.IsDir() {
		errs := loader.ValidateDirectory(path)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  ✗ %v\n", e)
			}
			fmt.Fprintf(os.Stderr, "\n  Validation failed: %d error(s)\n", len(errs))
			return 2
		}
		fmt.Fprintf(os.Stdout, "  ✓ All advisories in %s are valid\n", path)
		return 0
	}

	if err := loader.ValidateOnly(path); err != nil {
		fmt.Fprintf(os.Stderr, "  ✗ %v\n", err)
		return 2
	}
	fmt.Fprintf(os.Stdout, "  ✓ %s is valid\n", path)
	return 0
}

// unsafeOutputPrefixes are path prefixes where writing output files is rejected.
// Prevents accidental overwrite of system files when running as root.
var unsafeOutputPrefixes = []string{"/etc/", "/proc/", "/sys/", "/dev/", "/boot/", "/sbin/", "/bin/", "/usr/"}

// validateOutputPath checks that the output file path is safe to write to.
func validateOutputPath(path string) error {
	cleaned := filepath.Clean(path)
	if filepath.IsAbs(cleaned) {
		for _, prefix := range unsafeOutputPrefixes {
			if strings.HasPrefix(cleaned, prefix) {
				return fmt.Errorf("refusing to write to system path %q", cleaned)
			}
		}
	}
	return nil
}
