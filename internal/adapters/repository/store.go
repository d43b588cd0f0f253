// Package repository persists history snapshots.
package repository

import (
	"context"

	"github.com/okian/redpacket/internal/domain/history"
)

// Store provides durable storage for history snapshots.
type Store interface {
	// Save replaces the stored document with doc. On failure the previously
	// stored document, if any, is left intact.
	Save(ctx context.Context, doc history.Document) error

	// Load reads the stored document.
	Load(ctx context.Context) (history.Document, error)
}
