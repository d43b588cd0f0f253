package history

import (
	"fmt"
	"strings"

	"github.com/okian/redpacket/internal/domain/money"
)

const separatorWidth = 30

// Separator ends each record block in a report.
var Separator = strings.Repeat("-", separatorWidth) //nolint:gochecknoglobals // constant text

// RenderRecords renders records as report lines, 1-indexed:
//
//	Record 1:
//	Total: 100.00, Participants: 3
//	Participant 1: 20.01
//	...
//	------------------------------
func RenderRecords(records []Record) []string {
	lines := make([]string, 0, len(records)*4)
	for i, r := range records {
		lines = append(lines,
			fmt.Sprintf("Record %d:", i+1),
			fmt.Sprintf("Total: %s, Participants: %d", r.totalAmount.Fixed(), r.participantCount),
		)
		lines = append(lines, participantLines(r.shares)...)
		lines = append(lines, Separator)
	}
	return lines
}

// RenderShares renders a single result.
func RenderShares(shares []money.Amount) []string {
	return append([]string{"Shares:"}, participantLines(shares)...)
}

func participantLines(shares []money.Amount) []string {
	lines := make([]string, len(shares))
	for i, s := range shares {
		lines[i] = fmt.Sprintf("Participant %d: %s", i+1, s.Fixed())
	}
	return lines
}
