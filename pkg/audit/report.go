package audit

import (
	"fmt"
	"io"

	"github.com/Markpayne01/splitwise2ynab/pkg/convert"
	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

// Write prints the human-readable report. show caps the rows printed
// per section.
func (r *Report) Write(w io.Writer, show int) {
	fmt.Fprintf(w, "\nSplitwise expenses compared: %d\n", r.SplitwiseCount)
	fmt.Fprintf(w, "YNAB transactions fetched:   %d\n", r.YNABCount)
	if r.Unmappable > 0 {
		fmt.Fprintf(w, "Expenses without a share for the configured user: %d\n", r.Unmappable)
	}

	missing := make([]string, 0, len(r.Missing))
	for _, m := range r.Missing {
		missing = append(missing, fmt.Sprintf("expense %d date=%s amount=%d payee=%q memo=%q",
			m.ExpenseID, m.Date, m.Amount, m.Payee, m.Memo))
	}
	writeList(w, "Missing in YNAB (exists in Splitwise)", missing, show)

	divergent := make([]string, 0, len(r.Divergent))
	for _, d := range r.Divergent {
		line := fmt.Sprintf("expense %d -> transaction %s:", d.ExpenseID, d.TransactionID)
		for _, diff := range d.Differences {
			line += fmt.Sprintf(" %s expected=%q actual=%q", diff.Field, diff.Expected, diff.Actual)
		}
		divergent = append(divergent, line)
	}
	writeList(w, "Different fields", divergent, show)
}

// WriteExpenseList prints a normalized view of each compared expense.
func WriteExpenseList(w io.Writer, expenses []splitwise.Expense, userID int64, converter *convert.Converter, show int) {
	var rows []string
	for _, expense := range expenses {
		if expense.Deleted() {
			continue
		}
		draft, err := converter.ExpenseToTransaction(expense, userID)
		if err != nil {
			continue
		}
		rows = append(rows, fmt.Sprintf("expense %d date=%s amount=%d description=%q",
			expense.ID, draft.Date, draft.Amount, expense.Description))
	}
	writeList(w, "Splitwise expenses (normalized)", rows, show)
}

// WriteTransactionList prints a normalized view of each window transaction.
func WriteTransactionList(w io.Writer, txns []ynab.Transaction, show int) {
	var rows []string
	for _, txn := range txns {
		if txn.Deleted {
			continue
		}
		rows = append(rows, fmt.Sprintf("transaction %s date=%s amount=%d payee=%q memo=%q import_id=%q",
			txn.ID, txn.Date, txn.Amount, txn.PayeeName, txn.Memo, txn.ImportID))
	}
	writeList(w, "YNAB transactions (normalized)", rows, show)
}

func writeList(w io.Writer, title string, items []string, limit int) {
	fmt.Fprintf(w, "\n%s: %d\n", title, len(items))
	for i, item := range items {
		if i >= limit {
			fmt.Fprintf(w, "... %d more\n", len(items)-limit)
			return
		}
		fmt.Fprintf(w, "- %s\n", item)
	}
}
