// Package export renders reconstructed statements to CSV and PDF.
// Both renderers emit rows in exactly the order the ledger produced
// them; re-sorting here would break reproducibility of exports.
package export

import (
	"encoding/csv"
	"io"

	"github.com/bahikhata/bahikhata/internal/ledger"
)

const dateLayout = "2006-01-02"

// WriteStatementCSV serialises statement rows followed by a summary
// block. Amounts are rounded to two decimals here and nowhere earlier.
func WriteStatementCSV(w io.Writer, entries []ledger.StatementEntry, summary ledger.AccountSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Date", "Reference", "Description", "Kind", "Amount", "Balance"}); err != nil {
		return err
	}
	for _, entry := range entries {
		record := []string{
			entry.Date.Format(dateLayout),
			entry.Reference,
			entry.Description,
			string(entry.Kind),
			ledger.Round2(entry.Amount).StringFixed(2),
			ledger.Round2(entry.RunningBalance).StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	summaryRows := [][]string{
		{},
		{"Total Debits", ledger.Round2(summary.TotalDebits).StringFixed(2)},
		{"Total Credits", ledger.Round2(summary.TotalCredits).StringFixed(2)},
		{"Outstanding Balance", ledger.Round2(summary.OutstandingBalance).StringFixed(2)},
	}
	if summary.LastCreditDate != nil {
		summaryRows = append(summaryRows, []string{"Last Payment", summary.LastCreditDate.Format(dateLayout)})
	}
	for _, record := range summaryRows {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRankingCSV emits a cross-holder outstanding ranking.
func WriteRankingCSV(w io.Writer, ranked []ledger.HolderSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Holder", "Name", "Outstanding", "Total Debits", "Total Credits"}); err != nil {
		return err
	}
	for _, hs := range ranked {
		record := []string{
			formatID(hs.HolderID),
			hs.HolderName,
			ledger.Round2(hs.Summary.OutstandingBalance).StringFixed(2),
			ledger.Round2(hs.Summary.TotalDebits).StringFixed(2),
			ledger.Round2(hs.Summary.TotalCredits).StringFixed(2),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
