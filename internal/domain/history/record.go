// Package history keeps the append-only log of partition results for a session.
package history

import (
	"github.com/okian/redpacket/internal/domain/money"
)

// Record captures the inputs and resulting shares of one partition.
// Records are immutable: NewRecord and Shares copy the share slice.
type Record struct {
	totalAmount      money.Amount
	participantCount int
	shares           []money.Amount
}

// NewRecord builds a Record from a partition's inputs and output.
func NewRecord(total money.Amount, count int, shares []money.Amount) Record {
	return Record{
		totalAmount:      total,
		participantCount: count,
		shares:           append([]money.Amount(nil), shares...),
	}
}

// TotalAmount returns the partitioned total.
func (r Record) TotalAmount() money.Amount { return r.totalAmount }

// ParticipantCount returns the number of participants.
func (r Record) ParticipantCount() int { return r.participantCount }

// Shares returns a copy of the per-participant shares.
func (r Record) Shares() []money.Amount {
	return append([]money.Amount(nil), r.shares...)
}

// Entry is the persisted shape of a Record.
type Entry struct {
	TotalAmount      money.Amount   `json:"total_amount" yaml:"total_amount"`
	ParticipantCount int            `json:"participant_count" yaml:"participant_count"`
	Shares           []money.Amount `json:"shares" yaml:"shares"`
}

// Document is the persisted snapshot of a History: records in chronological order.
type Document []Entry

// Entry converts r to its persisted shape.
func (r Record) Entry() Entry {
	return Entry{
		TotalAmount:      r.totalAmount,
		ParticipantCount: r.participantCount,
		Shares:           r.Shares(),
	}
}

// Record converts a persisted entry back to a Record.
func (e Entry) Record() Record {
	return NewRecord(e.TotalAmount, e.ParticipantCount, e.Shares)
}
