package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mvp-joe/javameta/internal/config"
	"github.com/mvp-joe/javameta/internal/outline"
	"gopkg.in/yaml.v3"
)

// FileSink writes the records as a pretty-printed JSON array or YAML sequence.
// The file is written to a temp file next to the destination and renamed into place.
type FileSink struct {
	path   string
	format string
}

// NewFileSink creates a file sink. format is config.FormatJSON or config.FormatYAML.
func NewFileSink(path, format string) (*FileSink, error) {
	switch format {
	case config.FormatJSON, config.FormatYAML:
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrSerialization, format)
	}
	return &FileSink{path: path, format: format}, nil
}

func (s *FileSink) Name() string {
	return s.format + " file " + s.path
}

// Path returns the destination path.
func (s *FileSink) Path() string {
	return s.path
}

// Write encodes the records and replaces the destination file.
func (s *FileSink) Write(ctx context.Context, batch *Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	records := batch.Records
	if records == nil {
		records = []outline.FileRecord{}
	}

	data, err := s.encode(records)
	if err != nil {
		return fmt.Errorf("%w: failed to encode %s: %w", ErrSerialization, s.format, err)
	}

	if err := writeAtomic(s.path, data); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	return nil
}

func (s *FileSink) encode(records []outline.FileRecord) ([]byte, error) {
	if s.format == config.FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	// Marshal to JSON with indentation
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// writeAtomic writes data using the temp → rename pattern.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".javameta-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to set output permissions: %w", err)
	}

	// Rename to final location (atomic operation)
	if err := os.Rename(tempPath, path); err != nil {
		// Clean up temp file on error
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
