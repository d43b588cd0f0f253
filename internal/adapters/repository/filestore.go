// Package repository persists history snapshots.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/redpacket/internal/domain/history"
	"gopkg.in/yaml.v3"
)

// Format names a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

const (
	defaultFileMode = 0o644
	indent          = 4
)

// ParseFormat validates a format name. An empty name yields "" so the
// extension decides.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// FormatFor picks a format from the file extension, defaulting to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileStore keeps a history document in a single file.
type FileStore struct {
	path   string
	format Format
	mode   os.FileMode
}

// NewFileStore creates a store for path.
func NewFileStore(path string, opts ...Option) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	s := &FileStore{
		path:   path,
		format: FormatFor(path),
		mode:   defaultFileMode,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Path returns the file path.
func (s *FileStore) Path() string { return s.path }

// Format returns the document format in use.
func (s *FileStore) Format() Format { return s.format }

// Save encodes doc and atomically replaces the file.
func (s *FileStore) Save(ctx context.Context, doc history.Document) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHistory, err)
	}
	data, err := encode(s.format, doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrWriteHistory, s.format, err)
	}
	if err := writeAtomic(s.path, data, s.mode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteHistory, err)
	}
	return nil
}

// Load reads and decodes the file.
func (s *FileStore) Load(ctx context.Context) (history.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHistory, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadHistory, err)
	}
	doc, err := decode(s.format, data)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrReadHistory, s.path, err)
	}
	return doc, nil
}

func encode(format Format, doc history.Document) ([]byte, error) {
	if doc == nil {
		doc = history.Document{}
	}
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", strings.Repeat(" ", indent))
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)
		if err := enc.Encode(doc); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return buf.Bytes(), nil
}

func decode(format Format, data []byte) (history.Document, error) {
	var doc history.Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if doc == nil {
		doc = history.Document{}
	}
	return doc, nil
}

// writeAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old or the new content.
func writeAtomic(path string, data []byte, mode os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(mode); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
