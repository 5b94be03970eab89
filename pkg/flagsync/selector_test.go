package flagsync

import (
	"testing"
	"time"

	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

func TestOpenOnBudgetAccounts(t *testing.T) {
	accounts := []ynab.Account{
		{ID: "open", OnBudget: true},
		{ID: "closed", OnBudget: true, Closed: true},
		{ID: "tracking", OnBudget: false},
		{ID: "deleted", OnBudget: true, Deleted: true},
	}

	eligible := OpenOnBudgetAccounts(accounts)
	if len(eligible) != 1 || !eligible["open"] {
		t.Errorf("eligible = %v, expected only the open on-budget account", eligible)
	}
}

func TestSelect(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, 0, -7)
	eligible := map[string]bool{"acct": true}

	base := ynab.Transaction{
		ID:        "txn",
		Date:      "2024-05-08",
		Amount:    -30000,
		FlagColor: ynab.FlagYellow,
		AccountID: "acct",
	}

	tests := []struct {
		name     string
		mutate   func(*ynab.Transaction)
		selected bool
	}{
		{"eligible outflow", func(t *ynab.Transaction) {}, true},
		{"on cutoff boundary", func(t *ynab.Transaction) { t.Date = cutoff.Format("2006-01-02") }, true},
		{"outside lookback window", func(t *ynab.Transaction) { t.Date = "2024-05-02" }, false},
		{"wrong flag color", func(t *ynab.Transaction) { t.FlagColor = ynab.FlagRed }, false},
		{"unflagged", func(t *ynab.Transaction) { t.FlagColor = ynab.FlagNone }, false},
		{"inflow", func(t *ynab.Transaction) { t.Amount = 30000 }, false},
		{"zero amount", func(t *ynab.Transaction) { t.Amount = 0 }, false},
		{"ineligible account", func(t *ynab.Transaction) { t.AccountID = "other" }, false},
		{"deleted", func(t *ynab.Transaction) { t.Deleted = true }, false},
		{"split line", func(t *ynab.Transaction) { t.ParentTransactionID = "parent" }, false},
		{"transfer", func(t *ynab.Transaction) { t.TransferAccountID = "other" }, false},
		{"unparseable date", func(t *ynab.Transaction) { t.Date = "bad" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := base
			tt.mutate(&txn)

			selected := Select([]ynab.Transaction{txn}, eligible, ynab.FlagYellow, cutoff)
			if got := len(selected) == 1; got != tt.selected {
				t.Errorf("selected = %v, expected %v", got, tt.selected)
			}
		})
	}
}

func TestSelectPreservesOrder(t *testing.T) {
	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	eligible := map[string]bool{"acct": true}

	txns := []ynab.Transaction{
		{ID: "a", Date: "2024-05-03", Amount: -100, FlagColor: ynab.FlagYellow, AccountID: "acct"},
		{ID: "b", Date: "2024-05-02", Amount: 100, FlagColor: ynab.FlagYellow, AccountID: "acct"},
		{ID: "c", Date: "2024-05-02", Amount: -200, FlagColor: ynab.FlagYellow, AccountID: "acct"},
	}

	selected := Select(txns, eligible, ynab.FlagYellow, cutoff)
	if len(selected) != 2 || selected[0].ID != "a" || selected[1].ID != "c" {
		t.Errorf("selected = %+v", selected)
	}
}
