package flagsync

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Markpayne01/splitwise2ynab/pkg/convert"
	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

// SourceService is the Splitwise surface the runner needs.
type SourceService interface {
	GetCurrentUser() (*splitwise.User, error)
	GetFriends() ([]splitwise.User, error)
	CreateExpense(req splitwise.ExpenseCreate) (int64, error)
}

// DestinationService is the YNAB surface the runner needs.
type DestinationService interface {
	ListAccounts() ([]ynab.Account, error)
	ListTransactions(sinceDate string) ([]ynab.Transaction, error)
	UpdateTransactionFlag(transactionID string, color ynab.FlagColor) error
}

// Options configures a reverse-sync run.
type Options struct {
	TriggerFlag       ynab.FlagColor
	SyncedFlag        ynab.FlagColor // none clears the flag instead
	LookbackDays      int
	DefaultPersonName string
	DryRun            bool
}

// Summary reports what a run did (or, under dry run, would have done).
type Summary struct {
	Selected    int
	Created     int
	WouldCreate int
	Failed      int
}

// Runner drives one reverse-sync pass.
type Runner struct {
	source SourceService
	dest   DestinationService
	opts   Options
	now    func() time.Time
}

// NewRunner creates a reverse-sync runner.
func NewRunner(source SourceService, dest DestinationService, opts Options) *Runner {
	return &Runner{
		source: source,
		dest:   dest,
		opts:   opts,
		now:    time.Now,
	}
}

// Run processes every eligible flagged transaction. A failure on one
// transaction leaves its flag untouched so it is retried on a future
// run, and does not stop the others. Authentication and other
// whole-service failures are returned.
func (r *Runner) Run() (*Summary, error) {
	summary := &Summary{}

	if r.opts.DefaultPersonName == "" {
		slog.Info("SPLITWISE_DEFAULT_PERSON_NAME is not set, skipping YNAB->Splitwise sync")
		return summary, nil
	}

	user, err := r.source.GetCurrentUser()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current splitwise user: %w", err)
	}

	friends, err := r.source.GetFriends()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch splitwise friends: %w", err)
	}

	friendID, err := ResolveFriendID(friends, r.opts.DefaultPersonName)
	if err != nil {
		if errors.Is(err, ErrNoFriendMatch) {
			slog.Warn("Skipping YNAB->Splitwise sync", "reason", err)
			return summary, nil
		}
		return nil, err
	}

	accounts, err := r.dest.ListAccounts()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ynab accounts: %w", err)
	}

	eligible := OpenOnBudgetAccounts(accounts)
	if len(eligible) == 0 {
		slog.Info("No open on-budget YNAB accounts found, nothing to do")
		return summary, nil
	}

	cutoff := r.now().UTC().AddDate(0, 0, -r.opts.LookbackDays)
	txns, err := r.dest.ListTransactions(cutoff.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ynab transactions: %w", err)
	}

	selected := Select(txns, eligible, r.opts.TriggerFlag, cutoff)
	summary.Selected = len(selected)

	if len(selected) == 0 {
		slog.Info("No flagged YNAB transactions to sync",
			"flag", r.opts.TriggerFlag, "lookback_days", r.opts.LookbackDays)
		return summary, nil
	}

	for _, txn := range selected {
		payload := convert.TransactionToExpense(txn, user.ID, friendID)

		if r.opts.DryRun {
			summary.WouldCreate++
			slog.Info("[DRY RUN] Would create Splitwise expense",
				"ynab_transaction", txn.ID, "date", txn.Date, "cost", payload.Cost)
			continue
		}

		expenseID, err := r.source.CreateExpense(payload)
		if err != nil {
			// Flag stays on the transaction, so it is retried next run.
			summary.Failed++
			slog.Error("Failed to create Splitwise expense",
				"ynab_transaction", txn.ID, "error", err)
			continue
		}

		if err := r.dest.UpdateTransactionFlag(txn.ID, r.opts.SyncedFlag); err != nil {
			summary.Failed++
			slog.Error("Created Splitwise expense but failed to update YNAB flag",
				"ynab_transaction", txn.ID, "splitwise_expense", expenseID, "error", err)
			continue
		}

		summary.Created++
		slog.Info("Created Splitwise expense from YNAB transaction",
			"ynab_transaction", txn.ID, "splitwise_expense", expenseID,
			"flag", r.opts.SyncedFlag)
	}

	if r.opts.DryRun {
		slog.Info("YNAB->Splitwise dry run complete", "would_create", summary.WouldCreate)
	} else {
		slog.Info("YNAB->Splitwise sync complete", "created", summary.Created, "failed", summary.Failed)
	}

	return summary, nil
}
