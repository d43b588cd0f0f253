// Package history keeps the append-only log of partition results for a session.
package history

import (
	"sync"

	"github.com/google/uuid"
)

// History is an ordered, append-only log owned by one session.
// Insertion order is chronological order. It is safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	id      string
	records []Record
}

// New creates an empty History with a fresh session ID.
func New() *History {
	return &History{id: uuid.NewString()}
}

// FromDocument rebuilds a History from a persisted snapshot.
func FromDocument(doc Document) *History {
	h := New()
	h.records = make([]Record, 0, len(doc))
	for _, e := range doc {
		h.records = append(h.records, e.Record())
	}
	return h
}

// ID identifies the session that owns the log.
func (h *History) ID() string { return h.id }

// Append adds rec to the end of the log.
func (h *History) Append(rec Record) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
}

// Len returns the number of records.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// Records returns a copy of all records in chronological order.
func (h *History) Records() []Record {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Record(nil), h.records...)
}

// Snapshot returns a detached Document of the current log.
func (h *History) Snapshot() Document {
	h.mu.RLock()
	defer h.mu.RUnlock()
	doc := make(Document, 0, len(h.records))
	for _, r := range h.records {
		doc = append(doc, r.Entry())
	}
	return doc
}

// Render returns the report lines for every record.
func (h *History) Render() []string {
	return RenderRecords(h.Records())
}
