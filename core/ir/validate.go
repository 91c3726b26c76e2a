package ir

import (
	"fmt"
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// newValidationError creates a new ValidationError.
func newValidationError(path, message string) error {
	return &ValidationError{Path: path, Message: message}
}

// Validate checks the structural invariants of a parsed document and
// returns all violations.
func Validate(d *Document) []error {
	var errs []error

	if d.MagicValue == "" {
		errs = append(errs, newValidationError("document", "MagicValue is required"))
	}

	for i, c := range d.Content {
		path := fmt.Sprintf("content[%d]", i)
		switch n := c.(type) {
		case *PageNumber:
			errs = append(errs, validatePage(path, n)...)
		case *SectionHeader:
			if n.Level < 1 || n.Level > 5 {
				errs = append(errs, newValidationError(path+".level",
					fmt.Sprintf("header level %d out of range 1-5", n.Level)))
			}
		case *Line:
			errs = append(errs, ValidateLine(path, n)...)
		case *Verse:
			errs = append(errs, ValidateLine(path, &n.Line)...)
		}
	}

	return errs
}

// ValidateLine checks that a line's parts reproduce its clean text.
func ValidateLine(path string, l *Line) []error {
	var errs []error

	if got := CleanText(l.Parts); got != l.Text {
		errs = append(errs, newValidationError(path+".parts",
			fmt.Sprintf("parts render %q, clean text is %q", got, l.Text)))
	}

	for j, p := range l.Parts {
		ppath := fmt.Sprintf("%s.parts[%d]", path, j)
		switch n := p.(type) {
		case *PageNumber:
			errs = append(errs, validatePage(ppath, n)...)
		case *NamedEntity:
			errs = append(errs, validateDigits(ppath, n.Prefix, n.Extent)...)
		case *Date:
			errs = append(errs, validateDigits(ppath, n.Prefix, n.Extent)...)
		case *Age:
			errs = append(errs, validateDigits(ppath, n.Prefix, n.Extent)...)
		}
	}

	return errs
}

func validatePage(path string, p *PageNumber) []error {
	var errs []error
	if p.Volume == "" {
		errs = append(errs, newValidationError(path+".volume", "Volume is required"))
	}
	if p.Page == "" {
		errs = append(errs, newValidationError(path+".page", "Page is required"))
	}
	return errs
}

func validateDigits(path string, prefix, extent int) []error {
	var errs []error
	if prefix < 0 || prefix > 9 {
		errs = append(errs, newValidationError(path+".prefix",
			fmt.Sprintf("prefix %d is not a single digit", prefix)))
	}
	if extent < 0 || extent > 9 {
		errs = append(errs, newValidationError(path+".extent",
			fmt.Sprintf("extent %d is not a single digit", extent)))
	}
	return errs
}
