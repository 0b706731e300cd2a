package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrConfiguration is wrapped by every configuration failure.
	ErrConfiguration = errors.New("configuration error")

	// ErrConfigNotFound indicates the input configuration file does not exist
	ErrConfigNotFound = fmt.Errorf("%w: config file not found", ErrConfiguration)

	// ErrConfigUnreadable indicates the input configuration file cannot be read
	ErrConfigUnreadable = fmt.Errorf("%w: config file unreadable", ErrConfiguration)

	// ErrConfigMalformed indicates the input configuration is not a JSON object
	ErrConfigMalformed = fmt.Errorf("%w: malformed config file", ErrConfiguration)

	// ErrMissingFilePaths indicates the filePaths key is absent or null
	ErrMissingFilePaths = fmt.Errorf("%w: missing file paths", ErrConfiguration)

	// ErrInvalidFilePaths indicates filePaths is not a list of non-empty strings
	ErrInvalidFilePaths = fmt.Errorf("%w: invalid file paths", ErrConfiguration)

	// ErrInvalidExclude indicates an exclude entry is not a valid glob pattern
	ErrInvalidExclude = fmt.Errorf("%w: invalid exclude pattern", ErrConfiguration)

	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = fmt.Errorf("%w: invalid output format", ErrConfiguration)

	// ErrInvalidOutput indicates a missing output location
	ErrInvalidOutput = fmt.Errorf("%w: invalid output path", ErrConfiguration)
)

// Validate checks the input configuration.
func Validate(cfg *Config) error {
	var errs []error

	for i, path := range cfg.FilePaths {
		if strings.TrimSpace(path) == "" {
			errs = append(errs, fmt.Errorf("%w: entry %d is empty", ErrInvalidFilePaths, i))
		}
	}

	for _, pattern := range cfg.Exclude {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidExclude, pattern, err))
		}
	}

	return joinErrors(errs)
}

// ValidateSettings checks the output settings.
func ValidateSettings(s *Settings) error {
	var errs []error

	if strings.TrimSpace(s.Output.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: output path is required", ErrInvalidOutput))
	}

	if s.Output.Format != FormatJSON && s.Output.Format != FormatYAML {
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidFormat, FormatJSON, FormatYAML, s.Output.Format))
	}

	return joinErrors(errs)
}

// validationErrors keeps every underlying error reachable through errors.Is.
type validationErrors []error

func (ve validationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, err := range ve {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (ve validationErrors) Unwrap() []error {
	return ve
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return validationErrors(errs)
}
