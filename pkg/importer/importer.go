// Package importer imports Splitwise expenses into a YNAB account,
// skipping expenses that already have a corresponding transaction.
package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Markpayne01/splitwise2ynab/pkg/convert"
	"github.com/Markpayne01/splitwise2ynab/pkg/match"
	"github.com/Markpayne01/splitwise2ynab/pkg/splitwise"
	"github.com/Markpayne01/splitwise2ynab/pkg/ynab"
)

const dateLayout = "2006-01-02"

// SourceService is the Splitwise surface the importer needs.
type SourceService interface {
	GetCurrentUser() (*splitwise.User, error)
	FetchAllExpenses(updatedAfter string, maxRecords int) ([]splitwise.Expense, error)
}

// DestinationService is the YNAB surface the importer needs.
type DestinationService interface {
	ListAccountTransactions(accountID, sinceDate string) ([]ynab.Transaction, error)
	CreateTransaction(txn ynab.SaveTransaction) (*ynab.Transaction, error)
}

// Options configures an import run.
type Options struct {
	AccountID    string
	LookbackDays int
	MaxExpenses  int
	DryRun       bool
}

// Summary reports what an import run did.
type Summary struct {
	Fetched     int
	Matched     int
	Created     int
	WouldCreate int
	Skipped     int // deleted or unmappable expenses
	Failed      int
}

// Runner drives one Splitwise->YNAB import pass.
type Runner struct {
	source    SourceService
	dest      DestinationService
	converter *convert.Converter
	engine    *match.Engine
	opts      Options
	now       func() time.Time
}

// NewRunner creates an import runner.
func NewRunner(source SourceService, dest DestinationService, converter *convert.Converter, engine *match.Engine, opts Options) *Runner {
	return &Runner{
		source:    source,
		dest:      dest,
		converter: converter,
		engine:    engine,
		opts:      opts,
		now:       time.Now,
	}
}

// Run fetches recent expenses, maps each one and creates the ones with
// no corresponding destination transaction. Each create is committed
// independently; a failure on one record does not stop the rest.
func (r *Runner) Run() (*Summary, error) {
	summary := &Summary{}

	user, err := r.source.GetCurrentUser()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current splitwise user: %w", err)
	}

	since := r.now().UTC().AddDate(0, 0, -r.opts.LookbackDays).Format(dateLayout)

	expenses, err := r.source.FetchAllExpenses(since, r.opts.MaxExpenses)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch splitwise expenses: %w", err)
	}
	summary.Fetched = len(expenses)

	// The already-imported window is the sole idempotence check; the
	// remote account is the source of truth.
	window, err := r.dest.ListAccountTransactions(r.opts.AccountID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ynab account transactions: %w", err)
	}

	for _, expense := range expenses {
		if expense.Deleted() {
			summary.Skipped++
			continue
		}

		draft, err := r.converter.ExpenseToTransaction(expense, user.ID)
		if err != nil {
			summary.Skipped++
			if errors.Is(err, convert.ErrNotParticipant) {
				slog.Debug("Skipping expense without a share for the configured user",
					"expense", expense.ID)
			} else {
				slog.Warn("Skipping unmappable expense", "expense", expense.ID, "error", err)
			}
			continue
		}

		result := r.engine.Match(draft, expense.Description, window)
		if result.Matched {
			summary.Matched++
			slog.Debug("Expense already imported",
				"expense", expense.ID, "ynab_transaction", result.Transaction.ID, "exact", result.Exact)
			continue
		}

		if r.opts.DryRun {
			summary.WouldCreate++
			slog.Info("[DRY RUN] Would create YNAB transaction",
				"expense", expense.ID, "date", draft.Date, "amount", draft.Amount, "payee", draft.PayeeName)
			window = append(window, draftAsTransaction(draft))
			continue
		}

		created, err := r.dest.CreateTransaction(draft)
		if err != nil {
			summary.Failed++
			slog.Error("Failed to create YNAB transaction", "expense", expense.ID, "error", err)
			continue
		}

		summary.Created++
		slog.Info("Imported Splitwise expense into YNAB",
			"expense", expense.ID, "ynab_transaction", created.ID, "amount", draft.Amount)

		// Guard against a second expense in the same batch mapping to a
		// duplicate create within this run.
		window = append(window, draftAsTransaction(draft))
	}

	slog.Info("Splitwise->YNAB import complete",
		"fetched", summary.Fetched, "matched", summary.Matched,
		"created", summary.Created, "would_create", summary.WouldCreate,
		"skipped", summary.Skipped, "failed", summary.Failed)

	return summary, nil
}

func draftAsTransaction(draft ynab.SaveTransaction) ynab.Transaction {
	return ynab.Transaction{
		Date:      draft.Date,
		Amount:    draft.Amount,
		Memo:      draft.Memo,
		AccountID: draft.AccountID,
		PayeeName: draft.PayeeName,
		ImportID:  draft.ImportID,
	}
}
