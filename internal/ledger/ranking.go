package ledger

import "sort"

// HolderSummary pairs an account holder with its reconstructed summary
// for cross-holder listings.
type HolderSummary struct {
	HolderID   int64          `json:"holder_id"`
	HolderName string         `json:"holder_name"`
	Summary    AccountSummary `json:"summary"`
}

// RankByOutstanding orders holder summaries by outstanding balance,
// highest first. Equal balances fall back to holder id so exports stay
// deterministic. The input slice is not modified.
func RankByOutstanding(summaries []HolderSummary) []HolderSummary {
	ranked := make([]HolderSummary, len(summaries))
	copy(ranked, summaries)
	sort.SliceStable(ranked, func(i, j int) bool {
		cmp := ranked[i].Summary.OutstandingBalance.Cmp(ranked[j].Summary.OutstandingBalance)
		if cmp != 0 {
			return cmp > 0
		}
		return ranked[i].HolderID < ranked[j].HolderID
	})
	return ranked
}
