// Package repository persists history snapshots.
package repository

import "os"

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithFormat forces the document format instead of guessing from the extension.
func WithFormat(format Format) Option {
	return func(s *FileStore) {
		if format != "" {
			s.format = format
		}
	}
}

// WithFileMode sets the permission bits of the written file.
func WithFileMode(mode os.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}
