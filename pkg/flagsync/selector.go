// Package flagsync converts flagged YNAB transactions back into
// Splitwise expenses. A flag color set by the user in the YNAB UI marks
// a transaction as pending; after the expense is created the flag is
// cleared (or moved to a configured "synced" color), so a transaction is
// never processed twice.
package flagsync

import (
	"time"

	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

const dateLayout = "2006-01-02"

// OpenOnBudgetAccounts returns the ids of accounts eligible for reverse
// sync: open, on-budget, not deleted.
func OpenOnBudgetAccounts(accounts []ynab.Account) map[string]bool {
	eligible := make(map[string]bool)
	for _, account := range accounts {
		if account.OnBudget && !account.Closed && !account.Deleted {
			eligible[account.ID] = true
		}
	}
	return eligible
}

// Select returns the transactions eligible for reverse sync: outflows on
// an eligible account, flagged with the trigger color, dated on or after
// the cutoff. Split lines, transfers, deleted transactions and records
// with unparseable dates are excluded.
func Select(txns []ynab.Transaction, eligibleAccounts map[string]bool, trigger ynab.FlagColor, cutoff time.Time) []ynab.Transaction {
	cutoffDate := cutoff.Truncate(24 * time.Hour)

	var selected []ynab.Transaction
	for _, txn := range txns {
		if txn.Deleted {
			continue
		}
		if !eligibleAccounts[txn.AccountID] {
			continue
		}
		if txn.FlagColor != trigger {
			continue
		}
		if txn.Subtransaction() || txn.Transfer() {
			continue
		}
		if !txn.Outflow() {
			continue
		}
		txnDate, err := time.Parse(dateLayout, txn.Date)
		if err != nil {
			continue
		}
		if txnDate.Before(cutoffDate) {
			continue
		}
		selected = append(selected, txn)
	}

	return selected
}
