package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects the output document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format selector.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json or yaml)", s)
	}
}

// SerializationError indicates the final document could not be encoded.
// This is the only per-run failure treated as fatal: without it there is no
// usable artifact.
type SerializationError struct {
	Format Format
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize document as %s: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Encode serializes the document in the requested format.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(d)
		if err != nil {
			return nil, &SerializationError{Format: format, Err: err}
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(d, "", "  ")
		if err != nil {
			return nil, &SerializationError{Format: format, Err: err}
		}
		return append(data, '\n'), nil
	}
}

// WriteFile encodes the document and writes it atomically via temp → rename,
// so a reader never observes a partially written document.
func (d *Document) WriteFile(path string, format Format) error {
	data, err := d.Encode(format)
	if err != nil {
		return err
	}

	tempPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}
