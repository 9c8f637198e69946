// Package advisory reads and validates YAML advisory files and indexes
// them into a queryable database.
package advisory

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ancients-collective/cratewatch/internal/types"
)

// idPattern matches valid advisory IDs: an uppercase family prefix
// followed by dash-separated alphanumeric segments, e.g. RUSTSEC-2024-0001,
// CVE-2021-44228, GHSA-jfh8-c2jp-5v3q.
var idPattern = regexp.MustCompile(`^[A-Z]{3,10}-[0-9A-Za-z]+(-[0-9A-Za-z]+)*$`)

// datePattern matches advisory disclosure dates: YYYY-MM-DD.
var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Loader reads YAML advisory files and validates them against the schema.
type Loader struct {
	validate *validator.Validate
}

// NewLoader creates a Loader with the advisory schema validators registered.
func NewLoader() *Loader {
	v := validator.New()

	_ = v.RegisterValidation("advisory_id", func(fl validator.FieldLevel) bool {
		return idPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("advisory_date", func(fl validator.FieldLevel) bool {
		return datePattern.MatchString(fl.Field().String())
	})

	return &Loader{validate: v}
}

// LoadAdvisory reads a YAML file and returns a validated Advisory.
func (l *Loader) LoadAdvisory(path string) (types.Advisory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Advisory{}, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var adv types.Advisory
	if err := yaml.Unmarshal(data, &adv); err != nil {
		return types.Advisory{}, fmt.Errorf("failed to parse YAML in %q: %w", path, err)
	}

	if err := l.validate.Struct(adv); err != nil {
		return types.Advisory{}, formatValidationErrors(err)
	}

	return adv, nil
}

// LoadDirectory recursively loads all .yaml and .yml files from a directory.
// It returns all successfully loaded advisories and a slice of errors for
// files that failed. Loading continues past individual file failures.
// Symlinks are skipped.
func (l *Loader) LoadDirectory(dir string) ([]types.Advisory, []error) {
	var advisories []types.Advisory
	var errs []error
	seen := make(map[string]string) // advisory ID → file path

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("error accessing %q: %w", path, err))
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			errs = append(errs, fmt.Errorf("skipping symlink: %s", path))
			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		adv, err := l.LoadAdvisory(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		if prevPath, exists := seen[adv.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate advisory ID %q: first defined in %s, duplicated in %s", adv.ID, prevPath, path))
			return nil
		}
		seen[adv.ID] = path

		advisories = append(advisories, adv)
		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to walk directory %q: %w", dir, err))
	}

	return advisories, errs
}

// ValidateOnly loads a YAML file and validates it without indexing.
// Returns nil if the advisory is valid.
func (l *Loader) ValidateOnly(path string) error {
	_, err := l.LoadAdvisory(path)
	return err
}

// ValidateDirectory validates all YAML files in a directory.
// Returns a list of errors for invalid files.
func (l *Loader) ValidateDirectory(dir string) []error {
	var errs []error
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("error accessing %q: %w", path, err))
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 || d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		adv, err := l.LoadAdvisory(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			return nil
		}

		if prevPath, exists := seen[adv.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate advisory ID %q: first defined in %s, duplicated in %s", adv.ID, prevPath, path))
			return nil
		}
		seen[adv.ID] = path

		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Errorf("failed to walk directory %q: %w", dir, err))
	}

	return errs
}

// formatValidationErrors converts validator errors into user-friendly messages.
func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var messages []string
	for _, fe := range validationErrors {
		messages = append(messages, formatFieldError(fe))
	}
	sort.Strings(messages)

	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// formatFieldError converts a single field validation error to a human-readable message.
func formatFieldError(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "advisory_id":
		return fmt.Sprintf("%s must look like RUSTSEC-2024-0001, CVE-2021-44228, or GHSA-xxxx-xxxx-xxxx", field)
	case "advisory_date":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
