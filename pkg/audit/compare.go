// Package audit performs a read-only comparison of Splitwise expenses
// against the YNAB account they should have been imported into.
package audit

import (
	"fmt"

	"github.com/Markpayne01/splitwise2ynab/pkg/convert"
	"github.com/Markpayne01/splitwise2ynab/pkg/match"
	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

// Difference is a field-level mismatch between the expected import of an
// expense and the transaction it matched.
type Difference struct {
	Field    string
	Expected string
	Actual   string
}

// Divergent pairs a matched expense/transaction whose fields disagree.
type Divergent struct {
	ExpenseID     int64
	TransactionID string
	Differences   []Difference
}

// Missing is a source expense with no corresponding destination record.
type Missing struct {
	ExpenseID int64
	Date      string
	Amount    int64
	Payee     string
	Memo      string
}

// Report is the outcome of one audit pass.
type Report struct {
	SplitwiseCount int // active (non-deleted) expenses compared
	YNABCount      int // non-deleted transactions in the window
	Unmappable     int // expenses the configured user has no share in
	Missing        []Missing
	Divergent      []Divergent
}

// Compare maps every active expense and runs the match engine against
// the destination window, partitioning results into missing and
// matched-but-divergent. Neither system is mutated.
func Compare(expenses []splitwise.Expense, window []ynab.Transaction, userID int64, converter *convert.Converter, engine *match.Engine) *Report {
	report := &Report{}

	for _, txn := range window {
		if !txn.Deleted {
			report.YNABCount++
		}
	}

	for _, expense := range expenses {
		if expense.Deleted() {
			continue
		}
		report.SplitwiseCount++

		draft, err := converter.ExpenseToTransaction(expense, userID)
		if err != nil {
			report.Unmappable++
			continue
		}

		result := engine.Match(draft, expense.Description, window)
		if !result.Matched {
			report.Missing = append(report.Missing, Missing{
				ExpenseID: expense.ID,
				Date:      draft.Date,
				Amount:    draft.Amount,
				Payee:     draft.PayeeName,
				Memo:      draft.Memo,
			})
			continue
		}

		if diffs := diffFields(draft, *result.Transaction); len(diffs) > 0 {
			report.Divergent = append(report.Divergent, Divergent{
				ExpenseID:     expense.ID,
				TransactionID: result.Transaction.ID,
				Differences:   diffs,
			})
		}
	}

	return report
}

func diffFields(expected ynab.SaveTransaction, actual ynab.Transaction) []Difference {
	var diffs []Difference

	if expected.Amount != actual.Amount {
		diffs = append(diffs, Difference{
			Field:    "amount",
			Expected: fmt.Sprintf("%d", expected.Amount),
			Actual:   fmt.Sprintf("%d", actual.Amount),
		})
	}
	if expected.Date != actual.Date {
		diffs = append(diffs, Difference{
			Field:    "date",
			Expected: expected.Date,
			Actual:   actual.Date,
		})
	}
	if expected.Memo != actual.Memo {
		diffs = append(diffs, Difference{
			Field:    "memo",
			Expected: expected.Memo,
			Actual:   actual.Memo,
		})
	}

	return diffs
}
